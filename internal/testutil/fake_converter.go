// fake_converter.go - Fake conversion backend for testing
package testutil

import (
	"context"
	"sync"

	"github.com/texforge/backend/internal/models"
)

// FakeConverter implements convert.Converter for testing
type FakeConverter struct {
	Latex string
	Err   error

	mu    sync.Mutex
	calls [][]models.UploadedFile
}

// NewFakeConverter returns a converter that always answers with latex.
func NewFakeConverter(latex string) *FakeConverter {
	return &FakeConverter{Latex: latex}
}

func (f *FakeConverter) Name() string { return "fake" }

func (f *FakeConverter) Convert(ctx context.Context, files []models.UploadedFile) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, files)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Latex, nil
}

// Calls returns how many times Convert ran.
func (f *FakeConverter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// LastFiles returns the files passed to the most recent call.
func (f *FakeConverter) LastFiles() []models.UploadedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}
