package search

import (
	"context"
	"slices"

	"github.com/poiesic/sift/core"
)

// recordHistory appends an entry, evicting the oldest past the limit, and
// persists best-effort.
func (s *Searcher) recordHistory(ctx context.Context, entry core.HistoryEntry) {
	s.mu.Lock()
	s.history = append(s.history, entry)
	if over := len(s.history) - s.historyLimit; over > 0 {
		s.history = slices.Delete(s.history, 0, over)
	}
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		s.logger.Warn("failed to persist search history", "err", err)
	}
}

// GetSearchHistory returns the retained history, oldest first.
func (s *Searcher) GetSearchHistory() []core.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// ClearSearchHistory drops every history entry and persists the change.
func (s *Searcher) ClearSearchHistory(ctx context.Context) error {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
	return s.persist(ctx)
}
