// Package submit sends a batch of files through the two-phase remote
// conversion: ingest, then convert.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/texforge/backend/internal/models"
	"github.com/texforge/backend/internal/session"
)

// FilesField is the multipart field name shared by both endpoints.
const FilesField = "files"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 16 << 20

// Config locates the remote endpoints.
type Config struct {
	BaseURL     string
	IngestPath  string
	ConvertPath string
	HealthPath  string
}

// DefaultConfig targets a local server on the default port.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:8089",
		IngestPath:  "/api/ingest",
		ConvertPath: "/api/convert-to-latex",
		HealthPath:  "/api/health",
	}
}

// Submitter issues ingest and convert calls. It never retries; a failed
// attempt must be triggered again in full.
type Submitter struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a submitter. A nil client uses http.DefaultClient, so timeouts
// are whatever the caller's transport enforces.
func New(cfg Config, client *http.Client, logger *slog.Logger) *Submitter {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Submitter{cfg: cfg, client: client, logger: logger}
}

// Submit runs ingest then convert over the same files and returns exactly one
// result. All failures are folded into a failed result.
func (s *Submitter) Submit(ctx context.Context, files []models.UploadedFile) models.ConversionResult {
	if len(files) == 0 {
		return models.Failed("No files selected")
	}
	logCtx := s.logger.With("files", len(files))

	ingest, err := s.ingest(ctx, files)
	if err != nil {
		logCtx.Warn("ingest failed", "error", err)
		return models.Failed(userMessage(err, FallbackIngestMessage))
	}
	logCtx = logCtx.With("documentId", ingest.DocumentID)
	logCtx.Info("batch ingested", "metadata", len(ingest.FileMetadata))

	latex, err := s.convert(ctx, files)
	if err != nil {
		logCtx.Warn("convert failed", "error", err)
		return models.Failed(userMessage(err, FallbackConvertMessage))
	}
	logCtx.Info("batch converted", "bytes", len(latex))
	return models.Succeeded(latex)
}

// Run drives a full submit against a session store: begin, submit, complete.
// The store is updated once, atomically, with the result.
func (s *Submitter) Run(ctx context.Context, store *session.Store) (models.ConversionResult, error) {
	files, err := store.BeginSubmit()
	if err != nil {
		return models.ConversionResult{}, err
	}
	result := s.Submit(ctx, files)
	if err := store.CompleteSubmit(result); err != nil {
		return result, fmt.Errorf("completing submit: %w", err)
	}
	return result, nil
}

func (s *Submitter) ingest(ctx context.Context, files []models.UploadedFile) (*models.IngestResponse, error) {
	var resp models.IngestResponse
	if err := s.post(ctx, PhaseIngest, s.cfg.IngestPath, files, FallbackIngestMessage, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &TransportError{Phase: PhaseIngest, Status: http.StatusOK, Message: FallbackIngestMessage}
	}
	return &resp, nil
}

func (s *Submitter) convert(ctx context.Context, files []models.UploadedFile) (string, error) {
	var resp models.ConvertResponse
	if err := s.post(ctx, PhaseConvert, s.cfg.ConvertPath, files, FallbackConvertMessage, &resp); err != nil {
		return "", err
	}
	if resp.LatexCode == "" {
		return "", &TransportError{Phase: PhaseConvert, Status: http.StatusOK, Message: FallbackConvertMessage}
	}
	return resp.LatexCode, nil
}

// post sends files as multipart form data and decodes a 2xx JSON body into
// out. Non-2xx bodies are mapped through their error field.
func (s *Submitter) post(ctx context.Context, phase Phase, path string, files []models.UploadedFile, fallback string, out any) error {
	body, contentType, err := BuildMultipart(files)
	if err != nil {
		return &TransportError{Phase: phase, Message: fallback, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, body)
	if err != nil {
		return &TransportError{Phase: phase, Message: fallback, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Phase: phase, Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Phase: phase, Status: resp.StatusCode, Message: fallback, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		var envelope models.ErrorResponse
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return &TransportError{Phase: phase, Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Phase: phase, Status: resp.StatusCode, Message: fallback, Err: err}
	}
	return nil
}

// BuildMultipart encodes files under the shared "files" field, keeping each
// file's declared MIME type on its part.
func BuildMultipart(files []models.UploadedFile) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FilesField, escapeQuotes(f.Name)))
		contentType := f.MIMEType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating part for %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("writing part for %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func userMessage(err error, fallback string) string {
	var te *TransportError
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return fallback
}
