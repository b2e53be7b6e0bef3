// Package ingest re-validates uploaded batches on the server and records
// their metadata.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/texforge/backend/internal/intake"
	"github.com/texforge/backend/internal/models"
)

// RejectionError is a client error naming the offending file.
type RejectionError struct {
	Name    string
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// Options tune the service.
type Options struct {
	// VerifyPDF parses PDFs to confirm they are structurally intact.
	VerifyPDF bool
}

// Service validates and records ingested batches.
type Service struct {
	cfg      intake.Config
	opts     Options
	registry *Registry
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an ingest service.
func NewService(cfg intake.Config, opts Options, registry *Registry, logger *slog.Logger) *Service {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		opts:     opts,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// Registry returns the batch registry backing the service.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Ingest checks every file in order (type, size, full read) and records the
// batch. The first failing file rejects the whole batch.
func (s *Service) Ingest(ctx context.Context, files []intake.Candidate) (*Batch, error) {
	if len(files) == 0 {
		return nil, &RejectionError{Message: "No files provided"}
	}

	metadata := make([]models.FileMetadata, 0, len(files))
	var totalBytes int64
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := f.Header()

		if !s.cfg.Accepts(h.MIMEType) {
			return nil, &RejectionError{Name: h.Name, Message: fmt.Sprintf("Unsupported file type for %s", h.Name)}
		}
		if h.Size > s.cfg.MaxSize {
			return nil, &RejectionError{
				Name:    h.Name,
				Message: fmt.Sprintf("File size exceeds the maximum limit of %s for %s", s.cfg.MaxSizeLabel(), h.Name),
			}
		}

		pageCount, err := s.verify(f)
		if err != nil {
			s.logger.Warn("ingest file unreadable", "file", h.Name, "error", err)
			return nil, &RejectionError{Name: h.Name, Message: fmt.Sprintf("File appears to be corrupted or unreadable: %s", h.Name)}
		}

		metadata = append(metadata, models.FileMetadata{
			Name:       h.Name,
			Type:       h.MIMEType,
			Size:       h.Size,
			UploadedAt: s.now().UTC(),
			PageCount:  pageCount,
		})
		totalBytes += h.Size
	}

	batch := &Batch{
		ID:        NewDocumentID(),
		Files:     metadata,
		CreatedAt: s.now(),
	}
	s.registry.Add(batch)
	s.logger.Info("batch ingested", "documentId", batch.ID, "files", len(metadata), "bytes", totalBytes)
	return batch, nil
}

// verify reads the whole file and, for PDFs, parses it. It returns the page
// count when known.
func (s *Service) verify(f intake.Candidate) (int, error) {
	h := f.Header()
	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, h.Size+1))
	if err != nil {
		return 0, err
	}
	if int64(len(data)) != h.Size {
		return 0, fmt.Errorf("read %d bytes, expected %d", len(data), h.Size)
	}

	if h.MIMEType != "application/pdf" || !s.opts.VerifyPDF {
		return 0, nil
	}
	return PDFPageCount(data)
}

var disablePDFConfigDir sync.Once

// PDFPageCount parses a PDF in relaxed mode and returns its page count.
func PDFPageCount(data []byte) (int, error) {
	disablePDFConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("parsing pdf: %w", err)
	}
	return n, nil
}

// NewDocumentID mints a time-ordered batch identifier.
func NewDocumentID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("doc_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	}
	return "doc_" + id.String()
}

// SuccessMessage is the human summary returned with an ingested batch.
func SuccessMessage(n int) string {
	if n > 1 {
		return "Files uploaded successfully"
	}
	return "File uploaded successfully"
}
