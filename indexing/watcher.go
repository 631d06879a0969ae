package indexing

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-syncs after files under a directory tree change. Bursts of
// events are coalesced into one sync.
type Watcher struct {
	root     string
	indexer  *Indexer
	debounce time.Duration
	onSync   func(Stats)
	logger   *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher) error

// WithIndexer runs ix.Sync on every settled change. Without an indexer the
// watcher only reports changes through the OnSync callback.
func WithIndexer(ix *Indexer) WatcherOption {
	return func(w *Watcher) error {
		w.indexer = ix
		return nil
	}
}

// WithDebounce sets the settle time. Default is 500ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if d <= 0 {
			return fmt.Errorf("%w: debounce must be positive", ErrInvalidConfig)
		}
		w.debounce = d
		return nil
	}
}

// WithOnSync sets a callback invoked after each successful sync.
func WithOnSync(fn func(Stats)) WatcherOption {
	return func(w *Watcher) error {
		w.onSync = fn
		return nil
	}
}

// WithWatcherLogger sets a custom logger.
// Default is slog.Default().
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWatcher creates a watcher for the tree rooted at root.
func NewWatcher(root string, opts ...WatcherOption) (*Watcher, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: watch root is empty", ErrInvalidConfig)
	}
	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	w.logger = w.logger.With("component", "watcher")
	return w, nil
}

// Run watches until ctx is done. It returns nil on cancellation and an
// error only when the watch cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addTree(watcher, w.root); err != nil {
		return err
	}
	w.logger.Info("watching for changes", "root", w.root)

	var (
		mu       sync.Mutex
		debounce *time.Timer
		running  sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		if debounce != nil && debounce.Stop() {
			running.Done()
		}
		mu.Unlock()
		running.Wait()
	}()

	fire := func() {
		defer running.Done()
		w.sync(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if hidden(w.root, event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if err := w.addTree(watcher, event.Name); err != nil {
					w.logger.Warn("could not watch new path", "path", event.Name, "err", err)
				}
			}
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			mu.Lock()
			if debounce != nil && debounce.Stop() {
				running.Done()
			}
			running.Add(1)
			debounce = time.AfterFunc(w.debounce, fire)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) sync(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	var stats Stats
	if w.indexer != nil {
		var err error
		stats, err = w.indexer.Sync(ctx)
		if err != nil {
			w.logger.Error("sync after change failed", "err", err)
			return
		}
	}
	if w.onSync != nil {
		w.onSync(stats)
	}
}

// addTree watches path and, if it is a directory, every visible directory
// below it.
func (w *Watcher) addTree(watcher *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && hidden(w.root, p) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// hidden reports whether any element of path below root starts with a dot.
func hidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
