package intake

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/texforge/backend/internal/models"
)

// Encoder reads candidate content and produces raw base64 payloads.
// Calls share no mutable state.
type Encoder struct {
	cfg Config
}

// NewEncoder creates an encoder bound to cfg.
func NewEncoder(cfg Config) *Encoder {
	return &Encoder{cfg: cfg}
}

// Encode reads the full content of c and returns it with its base64 form.
func (e *Encoder) Encode(ctx context.Context, c Candidate) (models.EncodedFile, error) {
	if c == nil {
		return models.EncodedFile{}, &EncodingError{Err: errors.New("no file")}
	}
	h := c.Header()
	if err := ctx.Err(); err != nil {
		return models.EncodedFile{}, &EncodingError{Name: h.Name, Err: err}
	}

	rc, err := c.Open()
	if err != nil {
		return models.EncodedFile{}, &EncodingError{Name: h.Name, Err: err}
	}
	defer rc.Close()

	var buf bytes.Buffer
	if h.Size > 0 {
		buf.Grow(int(h.Size))
	}
	// One byte past the cap is enough to notice an oversized stream.
	limit := e.cfg.MaxSize + 1
	if e.cfg.MaxSize <= 0 {
		limit = h.Size + 1
	}
	n, err := io.Copy(&buf, io.LimitReader(rc, limit))
	if err != nil {
		return models.EncodedFile{}, &EncodingError{Name: h.Name, Err: err}
	}
	if n != h.Size {
		return models.EncodedFile{}, &EncodingError{
			Name: h.Name,
			Err:  fmt.Errorf("read %d bytes, expected %d", n, h.Size),
		}
	}

	encoded := StripDataURI(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if _, err := base64.StdEncoding.DecodeString(encoded); err != nil {
		return models.EncodedFile{}, &EncodingError{Name: h.Name, Err: fmt.Errorf("invalid base64 output: %w", err)}
	}

	return models.EncodedFile{
		File: models.UploadedFile{
			FileHeader: h,
			Content:    buf.Bytes(),
		},
		Base64: encoded,
	}, nil
}

// EncodeAll encodes every candidate concurrently and returns the results in
// input order. The first failure is returned; reads already started for
// sibling files run to completion.
func (e *Encoder) EncodeAll(ctx context.Context, candidates []Candidate) ([]models.EncodedFile, error) {
	results := make([]models.EncodedFile, len(candidates))

	var g errgroup.Group
	if e.cfg.MaxConcurrentReads > 0 {
		g.SetLimit(e.cfg.MaxConcurrentReads)
	}
	for i, c := range candidates {
		g.Go(func() error {
			encoded, err := e.Encode(ctx, c)
			if err != nil {
				return err
			}
			results[i] = encoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// StripDataURI removes a "data:<mime>;base64," prefix if present.
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}
