package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/corpus"
	"github.com/poiesic/sift/storage/badger"
)

// failingStore loads empty state and fails every save.
type failingStore struct{ saves int }

func (f *failingStore) Load(context.Context) (*core.EngineState, error) {
	return &core.EngineState{}, nil
}

func (f *failingStore) Save(context.Context, *core.EngineState) error {
	f.saves++
	return errors.New("disk full")
}

func TestSearchHistory(t *testing.T) {
	t.Run("bounded to the most recent entries", func(t *testing.T) {
		s := newTestSearcher(t, corpus.NewStatic(doc("a.md", "A", "q7 mentioned")))

		for i := range 150 {
			_, err := s.Search(context.Background(), keywordOptions(fmt.Sprintf("q%d", i)))
			require.NoError(t, err)
		}

		history := s.GetSearchHistory()
		require.Len(t, history, DefaultHistoryLimit)
		assert.Equal(t, "q50", history[0].Query)
		assert.Equal(t, "q149", history[len(history)-1].Query)
	})

	t.Run("custom limit", func(t *testing.T) {
		s := newTestSearcher(t, corpus.NewStatic(), WithHistoryLimit(2))
		for _, q := range []string{"one", "two", "three"} {
			_, err := s.Search(context.Background(), keywordOptions(q))
			require.NoError(t, err)
		}
		history := s.GetSearchHistory()
		require.Len(t, history, 2)
		assert.Equal(t, "two", history[0].Query)
	})

	t.Run("records type, count and time", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestSearcher(t, corpus.NewStatic(doc("a.md", "A", "alpha")), WithClock(clock.Now))
		_, err := s.Search(context.Background(), keywordOptions("alpha"))
		require.NoError(t, err)

		history := s.GetSearchHistory()
		require.Len(t, history, 1)
		assert.Equal(t, core.HistoryEntry{
			Query:       "alpha",
			SearchType:  core.SearchTypeKeyword,
			Timestamp:   clock.Now(),
			ResultCount: 1,
		}, history[0])
	})

	t.Run("clear", func(t *testing.T) {
		s := newTestSearcher(t, corpus.NewStatic())
		_, err := s.Search(context.Background(), keywordOptions("alpha"))
		require.NoError(t, err)
		require.NoError(t, s.ClearSearchHistory(context.Background()))
		assert.Empty(t, s.GetSearchHistory())
	})

	t.Run("persistence failure does not fail the search", func(t *testing.T) {
		store := &failingStore{}
		s := newTestSearcher(t, corpus.NewStatic(), WithStateStore(store))
		_, err := s.Search(context.Background(), keywordOptions("alpha"))
		require.NoError(t, err)
		assert.Equal(t, 1, store.saves)
		assert.Len(t, s.GetSearchHistory(), 1)
	})
}

func TestSavedSearches(t *testing.T) {
	_, store, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	clock := newFakeClock()
	c := corpus.NewStatic(doc("notes/a.md", "A", "alpha"), doc("notes/b.txt", "B", "alpha"))
	s := newTestSearcher(t, c, WithStateStore(store), WithClock(clock.Now))
	ctx := context.Background()

	opts := keywordOptions("alpha")
	opts.FileTypes = []string{".md"}
	saved, err := s.SaveSearch(ctx, "markdown alpha", opts, []string{"md-only"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "alpha", saved.Query)
	assert.Equal(t, []string{"md"}, saved.Options.FileTypes)
	assert.Equal(t, clock.Now(), saved.CreatedAt)
	assert.Zero(t, saved.UseCount)

	clock.Advance(time.Minute)
	second, err := s.SaveSearch(ctx, "everything", keywordOptions("alpha"), nil)
	require.NoError(t, err)

	t.Run("listed oldest first", func(t *testing.T) {
		list := s.GetSavedSearches()
		require.Len(t, list, 2)
		assert.Equal(t, saved.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
	})

	t.Run("execute replays and records use", func(t *testing.T) {
		clock.Advance(time.Minute)
		results, err := s.ExecuteSavedSearch(ctx, saved.ID)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "notes/a.md", results[0].Metadata.Path)

		_, err = s.ExecuteSavedSearch(ctx, saved.ID)
		require.NoError(t, err)

		list := s.GetSavedSearches()
		assert.Equal(t, 2, list[0].UseCount)
		assert.Equal(t, clock.Now(), list[0].LastUsed)
	})

	t.Run("state survives a new searcher", func(t *testing.T) {
		reloaded := newTestSearcher(t, c, WithStateStore(store))
		list := reloaded.GetSavedSearches()
		require.Len(t, list, 2)
		assert.Equal(t, "markdown alpha", list[0].Name)
		assert.Equal(t, 2, list[0].UseCount)
		assert.Equal(t, []string{"md-only"}, list[0].Filters)
		assert.Equal(t, s.GetSearchHistory(), reloaded.GetSearchHistory())
	})

	t.Run("returned copies are detached", func(t *testing.T) {
		list := s.GetSavedSearches()
		list[0].Name = "renamed"
		assert.Equal(t, "markdown alpha", s.GetSavedSearches()[0].Name)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteSavedSearch(ctx, second.ID))
		assert.Len(t, s.GetSavedSearches(), 1)
		assert.ErrorIs(t, s.DeleteSavedSearch(ctx, second.ID), ErrSavedSearchNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.ExecuteSavedSearch(ctx, "missing")
		assert.ErrorIs(t, err, ErrSavedSearchNotFound)
	})

	t.Run("invalid saved search", func(t *testing.T) {
		_, err := s.SaveSearch(ctx, "  ", keywordOptions("alpha"), nil)
		assert.ErrorIs(t, err, core.ErrEmptySavedSearchName)

		_, err = s.SaveSearch(ctx, "empty", keywordOptions(""), nil)
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
	})
}

func TestSaveSearchPersistFailure(t *testing.T) {
	s := newTestSearcher(t, corpus.NewStatic(), WithStateStore(&failingStore{}))
	_, err := s.SaveSearch(context.Background(), "name", keywordOptions("alpha"), nil)
	assert.Error(t, err)
}

func TestSearchAnalytics(t *testing.T) {
	s := newTestSearcher(t, corpus.NewStatic(doc("a.md", "A", "alpha beta")))
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		a := s.GetSearchAnalytics()
		assert.Zero(t, a.TotalSearches)
		assert.Empty(t, a.TopQueries)
		assert.Zero(t, a.AverageResults)
	})

	run := func(query string, st core.SearchType) {
		opts := core.DefaultSearchOptions(query)
		opts.SearchType = st
		_, err := s.Search(ctx, opts)
		require.NoError(t, err)
		s.InvalidateCache()
	}
	run("alpha", core.SearchTypeKeyword)
	run("alpha", core.SearchTypeKeyword)
	run("gamma", core.SearchTypeHybrid)
	run("beta", core.SearchTypeKeyword)
	run("alpha", core.SearchTypeHybrid)

	a := s.GetSearchAnalytics()
	assert.Equal(t, 5, a.TotalSearches)
	assert.Equal(t, []QueryCount{
		{Query: "alpha", Count: 3},
		{Query: "gamma", Count: 1},
		{Query: "beta", Count: 1},
	}, a.TopQueries)
	assert.InDelta(t, 4.0/5.0, a.AverageResults, 1e-9)
	assert.Equal(t, map[core.SearchType]int{
		core.SearchTypeKeyword: 3,
		core.SearchTypeHybrid:  2,
	}, a.SearchTypeUsage)
}

func TestSearchAnalytics_TopQueriesCapped(t *testing.T) {
	s := newTestSearcher(t, corpus.NewStatic())
	for i := range 12 {
		_, err := s.Search(context.Background(), keywordOptions(fmt.Sprintf("q%d", i)))
		require.NoError(t, err)
	}
	assert.Len(t, s.GetSearchAnalytics().TopQueries, topQueryCount)
}
