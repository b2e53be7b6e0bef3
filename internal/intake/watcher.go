package intake

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a drop directory must be quiet before the
// collected files are forwarded as one batch.
const DefaultSettle = 750 * time.Millisecond

// DropFunc receives one settled batch of dropped paths.
type DropFunc func(ctx context.Context, paths []string) error

// DropWatcher watches a directory and forwards files written into it. It is
// the terminal counterpart of a drag-and-drop target.
type DropWatcher struct {
	dir    string
	settle time.Duration
	onDrop DropFunc
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewDropWatcher creates a watcher for dir. settle <= 0 uses DefaultSettle.
func NewDropWatcher(dir string, settle time.Duration, onDrop DropFunc, logger *slog.Logger) *DropWatcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DropWatcher{
		dir:     dir,
		settle:  settle,
		onDrop:  onDrop,
		logger:  logger,
		pending: make(map[string]struct{}),
	}
}

// Run blocks until ctx is done, forwarding settled batches to the DropFunc.
// Errors from the DropFunc are logged, not returned; the next drop gets a
// fresh attempt.
func (w *DropWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching drop directory", "dir", w.dir)

	timer := time.NewTimer(w.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if ignoredName(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = struct{}{}
			w.mu.Unlock()
			timer.Reset(w.settle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("drop watcher error", "error", err)

		case <-timer.C:
			paths := w.drain()
			if len(paths) == 0 {
				continue
			}
			w.logger.Debug("drop batch settled", "count", len(paths))
			if err := w.onDrop(ctx, paths); err != nil {
				w.logger.Warn("drop batch rejected", "count", len(paths), "error", err)
			}
		}
	}
}

// drain returns the pending regular files in name order and resets the set.
func (w *DropWatcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			paths = append(paths, p)
		}
	}
	w.pending = make(map[string]struct{})
	sort.Strings(paths)
	return paths
}

// ignoredName skips editor swap files, partial downloads and generated
// LaTeX output.
func ignoredName(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.EqualFold(filepath.Ext(base), ".tex") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".part") ||
		strings.HasSuffix(base, ".crdownload")
}
