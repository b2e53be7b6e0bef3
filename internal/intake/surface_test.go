package intake

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures what the surface forwards.
type recordingSink struct {
	added    [][]string
	replaced []string
	errors   []string
}

func (r *recordingSink) AddFiles(ctx context.Context, candidates []Candidate) error {
	var names []string
	for _, c := range candidates {
		names = append(names, c.Header().Name)
	}
	r.added = append(r.added, names)
	return nil
}

func (r *recordingSink) ReplaceFile(ctx context.Context, c Candidate) error {
	r.replaced = append(r.replaced, c.Header().Name)
	return nil
}

func (r *recordingSink) ReportError(message string) {
	r.errors = append(r.errors, message)
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("content of "+n), 0644))
		paths = append(paths, p)
	}
	return paths
}

func TestSurface_SelectAndDropAreEquivalent(t *testing.T) {
	paths := writeFiles(t, "a.pdf", "b.png")

	selected := &recordingSink{}
	require.NoError(t, NewSurface(selected, true, nil).Select(context.Background(), paths))

	dropped := &recordingSink{}
	require.NoError(t, NewSurface(dropped, true, nil).Drop(context.Background(), paths))

	assert.Equal(t, [][]string{{"a.pdf", "b.png"}}, selected.added)
	assert.Equal(t, selected.added, dropped.added)
}

func TestSurface_EmptySelectionIsIgnored(t *testing.T) {
	sink := &recordingSink{}
	s := NewSurface(sink, true, nil)

	require.NoError(t, s.Select(context.Background(), nil))
	require.NoError(t, s.Drop(context.Background(), []string{}))
	assert.Empty(t, sink.added)
	assert.Empty(t, sink.errors)
}

func TestSurface_SameSelectionNeedsReset(t *testing.T) {
	paths := writeFiles(t, "a.pdf")
	sink := &recordingSink{}
	s := NewSurface(sink, true, nil)

	require.NoError(t, s.Select(context.Background(), paths))
	require.NoError(t, s.Select(context.Background(), paths))
	assert.Len(t, sink.added, 1)

	s.Reset()
	require.NoError(t, s.Select(context.Background(), paths))
	assert.Len(t, sink.added, 2)

	// Drops never compare against the previous value.
	require.NoError(t, s.Drop(context.Background(), paths))
	assert.Len(t, sink.added, 3)
}

func TestSurface_SingleModeReplaces(t *testing.T) {
	paths := writeFiles(t, "first.pdf", "second.pdf")
	sink := &recordingSink{}
	s := NewSurface(sink, false, nil)

	require.NoError(t, s.Select(context.Background(), paths))
	assert.Equal(t, []string{"first.pdf"}, sink.replaced)
	assert.Empty(t, sink.added)

	// The input value is reset after a replace, so the same pick works again.
	require.NoError(t, s.Select(context.Background(), paths))
	assert.Equal(t, []string{"first.pdf", "first.pdf"}, sink.replaced)
}

func TestSurface_MissingFileReportsError(t *testing.T) {
	sink := &recordingSink{}
	s := NewSurface(sink, true, nil)

	err := s.Select(context.Background(), []string{filepath.Join(t.TempDir(), "gone.pdf")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonMissing, verr.Reason)
	assert.Equal(t, []string{ReasonMissing}, sink.errors)
	assert.Empty(t, sink.added)
}

func TestSurface_DirectoryReportsCause(t *testing.T) {
	sink := &recordingSink{}
	s := NewSurface(sink, true, nil)
	dir := t.TempDir()

	err := s.Drop(context.Background(), []string{dir})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, dir+" is a directory", verr.Reason)
	assert.Equal(t, []string{dir + " is a directory"}, sink.errors)
	assert.Empty(t, sink.added)
}
