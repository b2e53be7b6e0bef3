package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Health fetches the server's health document.
func (s *Submitter) Health(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+s.cfg.HealthPath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading health response: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return doc, fmt.Errorf("health check returned HTTP %d", resp.StatusCode)
	}
	return doc, nil
}
