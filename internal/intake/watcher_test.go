package intake

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoredName(t *testing.T) {
	assert.True(t, ignoredName("/tmp/.hidden.pdf"))
	assert.True(t, ignoredName("/tmp/cv.pdf~"))
	assert.True(t, ignoredName("/tmp/cv.pdf.part"))
	assert.True(t, ignoredName("/tmp/cv.pdf.crdownload"))
	assert.True(t, ignoredName("/tmp/jane.tex"))
	assert.True(t, ignoredName("/tmp/JANE.TEX"))
	assert.False(t, ignoredName("/tmp/cv.pdf"))
}

func TestDropWatcher_ForwardsSettledBatch(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var batches [][]string
	onDrop := func(ctx context.Context, paths []string) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, paths)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewDropWatcher(dir, 100*time.Millisecond, onDrop, nil)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".a.pdf.swp"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "previous.tex"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "converted"), 0755))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, 3*time.Second, 20*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.png")}, batches[0])
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestDropWatcher_MissingDirectory(t *testing.T) {
	w := NewDropWatcher(filepath.Join(t.TempDir(), "nope"), 0, func(context.Context, []string) error { return nil }, nil)
	assert.Error(t, w.Run(context.Background()))
}
