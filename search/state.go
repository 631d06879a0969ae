package search

import (
	"cmp"
	"context"
	"slices"

	"github.com/poiesic/sift/core"
)

// restore replaces the in-memory state with a loaded snapshot.
func (s *Searcher) restore(state *core.EngineState) {
	if state == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved = make(map[string]*core.SavedSearch, len(state.SavedSearches))
	for _, ss := range state.SavedSearches {
		if ss == nil {
			continue
		}
		cp := cloneSavedSearch(ss)
		s.saved[cp.ID] = cp
	}

	history := state.History
	if len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}
	s.history = slices.Clone(history)
}

// snapshot copies the current state. Callers must hold s.mu.
func (s *Searcher) snapshot() *core.EngineState {
	return &core.EngineState{
		SavedSearches: s.savedSearchesLocked(),
		History:       slices.Clone(s.history),
	}
}

// persist saves the current state. Without a state store it does nothing.
func (s *Searcher) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	state := s.snapshot()
	s.mu.Unlock()

	return s.store.Save(ctx, state)
}

// savedSearchesLocked returns copies ordered by creation time, then ID.
// Callers must hold s.mu.
func (s *Searcher) savedSearchesLocked() []*core.SavedSearch {
	out := make([]*core.SavedSearch, 0, len(s.saved))
	for _, ss := range s.saved {
		out = append(out, cloneSavedSearch(ss))
	}
	slices.SortFunc(out, func(a, b *core.SavedSearch) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func cloneSavedSearch(ss *core.SavedSearch) *core.SavedSearch {
	cp := *ss
	cp.Options = ss.Options.Normalized()
	cp.Filters = slices.Clone(ss.Filters)
	return &cp
}
