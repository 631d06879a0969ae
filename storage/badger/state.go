// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

// StateStore implements storage.StateStore for BadgerDB. Saved searches are
// stored one per key; the history list is stored under a single key.
type StateStore struct {
	backend *Backend
	mu      sync.Mutex
}

var _ storage.StateStore = (*StateStore)(nil)

// NewStateStore creates a new StateStore.
func NewStateStore(backend *Backend) *StateStore {
	return &StateStore{backend: backend}
}

// Load returns the persisted state. Saved searches are ordered by creation
// time, then ID.
func (s *StateStore) Load(ctx context.Context) (*core.EngineState, error) {
	state := &core.EngineState{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if err := scanPrefix(tx, []byte(savedSearchPrefix), func(key, val []byte) error {
			saved, err := storage.UnmarshalSavedSearch(val)
			if err != nil {
				return err
			}
			state.SavedSearches = append(state.SavedSearches, saved)
			return nil
		}); err != nil {
			return err
		}

		item, err := tx.Get([]byte(historyKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			state.History, unmarshalErr = storage.UnmarshalHistory(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(state.SavedSearches, func(i, j int) bool {
		a, b := state.SavedSearches[i], state.SavedSearches[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return state, nil
}

// Save replaces the persisted state in one transaction. Saved searches
// absent from state are deleted.
func (s *StateStore) Save(ctx context.Context, state *core.EngineState) error {
	if state == nil {
		state = &core.EngineState{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend.WithTx(func(tx *badger.Txn) error {
		keep := make(map[string]struct{}, len(state.SavedSearches))
		for _, saved := range state.SavedSearches {
			if saved == nil {
				continue
			}
			keep[saved.ID] = struct{}{}
		}

		var stale [][]byte
		if err := scanPrefix(tx, []byte(savedSearchPrefix), func(key, val []byte) error {
			if _, ok := keep[idFromKey(key, savedSearchPrefix)]; !ok {
				stale = append(stale, key)
			}
			return nil
		}); err != nil {
			return err
		}
		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		for _, saved := range state.SavedSearches {
			if saved == nil {
				continue
			}
			if err := tx.Set(makeSavedSearchKey(saved.ID), storage.MarshalSavedSearch(saved)); err != nil {
				return err
			}
		}

		return tx.Set([]byte(historyKey), storage.MarshalHistory(state.History))
	}, true)
}
