package intake

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"slices"
)

// Sink receives admitted selections. session.Store satisfies it.
type Sink interface {
	AddFiles(ctx context.Context, candidates []Candidate) error
	ReplaceFile(ctx context.Context, c Candidate) error
	ReportError(message string)
}

// Surface turns raw selections into Sink transitions. Selecting through the
// picker and dropping files are equivalent; both end in the same call.
type Surface struct {
	sink     Sink
	multiple bool
	logger   *slog.Logger

	// value mirrors the file input control: re-selecting exactly the same
	// paths is a no-op until the value is reset.
	value []string
}

// NewSurface creates an intake surface feeding sink. In single mode only the
// first selected file is used and it replaces the current list.
func NewSurface(sink Sink, multiple bool, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{sink: sink, multiple: multiple, logger: logger}
}

// Select handles a file-picker selection.
func (s *Surface) Select(ctx context.Context, paths []string) error {
	if len(paths) == 0 || slices.Equal(paths, s.value) {
		return nil
	}
	s.value = slices.Clone(paths)
	return s.forward(ctx, paths)
}

// Drop handles a drag-and-drop (or drop directory) selection.
func (s *Surface) Drop(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	return s.forward(ctx, paths)
}

// Reset clears the input value so the same selection can be made again.
func (s *Surface) Reset() {
	s.value = nil
}

func (s *Surface) forward(ctx context.Context, paths []string) error {
	if !s.multiple {
		paths = paths[:1]
	}

	candidates := make([]Candidate, 0, len(paths))
	for _, p := range paths {
		c, err := NewPathCandidate(p)
		if err != nil {
			s.logger.Warn("selection rejected", "path", p, "error", err)
			reason := err.Error()
			if errors.Is(err, fs.ErrNotExist) {
				reason = ReasonMissing
			}
			s.sink.ReportError(reason)
			return &ValidationError{Name: p, Reason: reason}
		}
		candidates = append(candidates, c)
	}

	if !s.multiple {
		if err := s.sink.ReplaceFile(ctx, candidates[0]); err != nil {
			return err
		}
		s.Reset()
		return nil
	}
	return s.sink.AddFiles(ctx, candidates)
}
