package sift

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/ai/mock"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/corpus"
	"github.com/poiesic/sift/corpus/files"
	"github.com/poiesic/sift/indexing"
)

func testCorpus() *corpus.Static {
	return corpus.NewStatic(
		core.Document{
			DocumentRef: core.DocumentRef{Path: "finance/invoice.md", Title: "Invoice"},
			Content:     "Invoice #42: payment received",
		},
		core.Document{
			DocumentRef: core.DocumentRef{Path: "notes/garden.md", Title: "Garden"},
			Content:     "Tomatoes need more water this week.",
		},
	)
}

func TestNewEngine(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "test_db")
		e, err := NewEngine(dir, testCorpus(), WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		defer e.Close()

		assert.NotNil(t, e.Searcher())
		assert.NotNil(t, e.Indexer())
		assert.NotNil(t, e.VectorIndex())
		assert.NotNil(t, e.Corpus())
	})

	t.Run("default provider", func(t *testing.T) {
		e, err := NewEngine("", testCorpus(), WithInMemory())
		require.NoError(t, err)
		defer e.Close()
		assert.True(t, e.ownsProvider)
		assert.NotNil(t, e.Indexer())
	})

	t.Run("without embedding service", func(t *testing.T) {
		config := ai.NewConfig(ai.WithEmbeddingHost(""), ai.WithGeneratorHost(""))
		e, err := NewEngine("", testCorpus(), WithInMemory(), WithAIConfig(config))
		require.NoError(t, err)
		defer e.Close()

		assert.Nil(t, e.Indexer())
		_, err = e.Sync(context.Background())
		assert.ErrorIs(t, err, ErrIndexingUnavailable)

		results, err := e.Searcher().Search(context.Background(), core.DefaultSearchOptions("tomatoes"))
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("nil corpus", func(t *testing.T) {
		_, err := NewEngine("", nil, WithInMemory())
		assert.Equal(t, ErrCorpusRequired, err)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		e, err := NewEngine(tmpFile, testCorpus(), WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, e)
	})
}

func TestEngine_SyncAndSearch(t *testing.T) {
	c := testCorpus()
	e, err := NewEngine("", c, WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer e.Close()
	ctx := context.Background()

	stats, err := e.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Embedded)

	opts := core.DefaultSearchOptions("Invoice #42: payment received")
	opts.SearchType = core.SearchTypeSemantic
	results, err := e.Searcher().Search(ctx, opts)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "finance/invoice.md", results[0].Metadata.Path)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)

	t.Run("hybrid merges lexical and semantic hits for the same document", func(t *testing.T) {
		results, err := e.Searcher().Search(ctx, core.DefaultSearchOptions("invoice payment"))
		require.NoError(t, err)

		var found int
		for _, r := range results {
			if r.Metadata.Path == "finance/invoice.md" {
				found++
			}
		}
		assert.Equal(t, 1, found)
	})

	t.Run("sync drops cached results", func(t *testing.T) {
		c.Remove("finance/invoice.md")
		_, err := e.Sync(ctx)
		require.NoError(t, err)

		results, err := e.Searcher().Search(ctx, opts)
		require.NoError(t, err)
		for _, r := range results {
			assert.NotEqual(t, "finance/invoice.md", r.Metadata.Path)
		}
	})
}

func TestEngine_StatePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	e, err := NewEngine(dir, testCorpus(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	saved, err := e.Searcher().SaveSearch(ctx, "invoices", core.DefaultSearchOptions("invoice"), nil)
	require.NoError(t, err)
	_, err = e.Searcher().Search(ctx, core.DefaultSearchOptions("garden"))
	require.NoError(t, err)
	require.NoError(t, e.Close())

	reopened, err := NewEngine(dir, testCorpus(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer reopened.Close()

	list := reopened.Searcher().GetSavedSearches()
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
	history := reopened.Searcher().GetSearchHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "garden", history[0].Query)
}

func TestEngine_Watch(t *testing.T) {
	t.Run("requires a directory for non-directory corpora", func(t *testing.T) {
		e, err := NewEngine("", testCorpus(), WithInMemory(), WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		defer e.Close()
		assert.ErrorIs(t, e.Watch(context.Background(), ""), ErrWatchRootRequired)
	})

	t.Run("indexes new files", func(t *testing.T) {
		root := t.TempDir()
		c, err := files.New(root)
		require.NoError(t, err)
		e, err := NewEngine("", c, WithInMemory(), WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		defer e.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- e.Watch(ctx, "", indexing.WithDebounce(50*time.Millisecond)) }()
		time.Sleep(100 * time.Millisecond)

		require.NoError(t, os.WriteFile(filepath.Join(root, "new.md"), []byte("# New\n\nfresh notes"), 0o644))
		require.Eventually(t, func() bool {
			n, err := e.VectorIndex().Count(context.Background())
			return err == nil && n == 1
		}, 5*time.Second, 20*time.Millisecond)

		cancel()
		assert.NoError(t, <-done)
	})
}
