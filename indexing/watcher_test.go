package indexing

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/ai/mock"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/corpus/files"
	"github.com/poiesic/sift/storage/badger"
)

func TestNewWatcher(t *testing.T) {
	_, err := NewWatcher("")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewWatcher(t.TempDir(), WithDebounce(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	w, err := NewWatcher(t.TempDir(), WithWatcherLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestHidden(t *testing.T) {
	root := filepath.FromSlash("/data/notes")
	tests := []struct {
		path string
		want bool
	}{
		{"/data/notes", false},
		{"/data/notes/a.md", false},
		{"/data/notes/.git", true},
		{"/data/notes/.git/objects/x", true},
		{"/data/notes/sub/.a.md.swp", true},
		{"/data/notes/sub/a.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, hidden(root, filepath.FromSlash(tt.path)))
		})
	}
}

func TestWatcher_SyncsOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "first.md"), []byte("# First\n\nalpha"), 0o644))

	c, err := files.New(dir)
	require.NoError(t, err)
	index, _, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ix, err := NewIndexer(c, mock.NewMockEmbedder(), index, WithConfig(fastConfig()))
	require.NoError(t, err)
	_, err = ix.Sync(context.Background())
	require.NoError(t, err)

	var syncs atomic.Int64
	w, err := NewWatcher(dir,
		WithIndexer(ix),
		WithDebounce(50*time.Millisecond),
		WithOnSync(func(Stats) { syncs.Add(1) }))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the tree.
	time.Sleep(100 * time.Millisecond)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "second.md"), []byte("# Second\n\nbeta"), 0o644))

	require.Eventually(t, func() bool {
		_, err := index.Get(context.Background(), core.IDFromPath("sub/second.md"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, syncs.Load(), int64(1))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
