package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/poiesic/sift/core"
)

// SaveSearch stores opts under name. The saved query is opts.Query; filters
// is an optional free-form list kept with the search.
func (s *Searcher) SaveSearch(ctx context.Context, name string, opts core.SearchOptions, filters []string) (*core.SavedSearch, error) {
	opts = opts.Normalized()
	ss := &core.SavedSearch{
		ID:        uuid.New().String(),
		Name:      name,
		Query:     opts.Query,
		Options:   opts,
		Filters:   append([]string(nil), filters...),
		CreatedAt: s.now(),
	}
	if err := core.ValidateSavedSearch(ss); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.saved[ss.ID] = ss
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		return nil, fmt.Errorf("persisting saved search: %w", err)
	}
	s.logger.Debug("saved search", "id", ss.ID, "name", name)
	return cloneSavedSearch(ss), nil
}

// GetSavedSearches returns every saved search, oldest first.
func (s *Searcher) GetSavedSearches() []*core.SavedSearch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedSearchesLocked()
}

// ExecuteSavedSearch records a use of the saved search and runs it through
// the full pipeline.
func (s *Searcher) ExecuteSavedSearch(ctx context.Context, id string) ([]core.SearchResult, error) {
	s.mu.Lock()
	ss, ok := s.saved[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSavedSearchNotFound, id)
	}
	ss.UseCount++
	ss.LastUsed = s.now()
	opts := ss.Options.Normalized()
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.logger.Warn("failed to persist saved search usage", "id", id, "err", err)
	}
	return s.Search(ctx, opts)
}

// DeleteSavedSearch removes a saved search.
func (s *Searcher) DeleteSavedSearch(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.saved[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSavedSearchNotFound, id)
	}
	delete(s.saved, id)
	s.mu.Unlock()

	return s.persist(ctx)
}
