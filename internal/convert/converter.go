// Package convert turns a batch of resume files into LaTeX source using a
// generative model.
package convert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/texforge/backend/internal/models"
)

// Backend names accepted by New.
const (
	BackendGemini = "gemini"
	BackendStub   = "stub"
)

// Converter produces LaTeX source from a batch of files.
type Converter interface {
	Name() string
	Convert(ctx context.Context, files []models.UploadedFile) (string, error)
}

// New builds the converter for backend.
func New(ctx context.Context, backend string, gemini GeminiConfig, profile *Profile, logger *slog.Logger) (Converter, error) {
	switch backend {
	case BackendGemini:
		return NewGeminiConverter(ctx, gemini, profile, logger)
	case BackendStub:
		return NewStubConverter(), nil
	default:
		return nil, fmt.Errorf("unknown converter backend %q", backend)
	}
}
