package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

// VectorIndex implements storage.VectorIndex for BadgerDB.
// Search is a brute-force cosine scan over every stored entry.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(backend *Backend) *VectorIndex {
	return &VectorIndex{backend: backend}
}

// Upsert inserts or replaces entries in a single transaction.
func (v *VectorIndex) Upsert(ctx context.Context, entries ...core.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return v.backend.WithTx(func(tx *badger.Txn) error {
		dim, err := readDimension(tx)
		if err != nil {
			return err
		}
		for i := range entries {
			entry := &entries[i]
			if entry.ID == "" {
				return fmt.Errorf("%w: entry %d has no id", storage.ErrInvalidQuery, i)
			}
			if len(entry.Vector) == 0 {
				return fmt.Errorf("%w: entry %s has an empty vector", storage.ErrDimensionMismatch, entry.ID)
			}
			if dim == 0 {
				dim = len(entry.Vector)
				if err := writeDimension(tx, dim); err != nil {
					return err
				}
			} else if len(entry.Vector) != dim {
				return fmt.Errorf("%w: entry %s has %d dimensions, index has %d",
					storage.ErrDimensionMismatch, entry.ID, len(entry.Vector), dim)
			}
			if err := tx.Set(makeVectorEntryKey(entry.ID), storage.MarshalVectorEntry(entry)); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// Search returns up to k entries ordered by cosine similarity, highest first.
func (v *VectorIndex) Search(ctx context.Context, vector []float32, k int) ([]core.VectorMatch, error) {
	if k <= 0 {
		return []core.VectorMatch{}, nil
	}

	var matches []core.VectorMatch
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		dim, err := readDimension(tx)
		if err != nil {
			return err
		}
		if dim == 0 {
			return nil
		}
		if len(vector) != dim {
			return fmt.Errorf("%w: query has %d dimensions, index has %d",
				storage.ErrDimensionMismatch, len(vector), dim)
		}

		return scanPrefix(tx, []byte(vectorEntryPrefix), func(key, val []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, err := storage.UnmarshalVectorEntry(val)
			if err != nil {
				return err
			}
			if len(entry.Vector) != dim {
				return nil
			}
			matches = append(matches, core.VectorMatch{
				ID:      entry.ID,
				Score:   cosineSimilarity(vector, entry.Vector),
				Payload: entry.Payload,
			})
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(matches, func(a, b core.VectorMatch) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	if matches == nil {
		matches = []core.VectorMatch{}
	}
	return matches, nil
}

// Get retrieves a single entry by ID.
func (v *VectorIndex) Get(ctx context.Context, id string) (*core.VectorEntry, error) {
	var entry *core.VectorEntry
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorEntryKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			entry, unmarshalErr = storage.UnmarshalVectorEntry(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes entries by ID. When the index becomes empty the stored
// dimensionality is cleared so a different embedding model can be used.
func (v *VectorIndex) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return v.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeVectorEntryKey(id)); err != nil {
				return err
			}
		}
		empty, err := isEmpty(tx)
		if err != nil {
			return err
		}
		if empty {
			return tx.Delete([]byte(vectorDimKey))
		}
		return nil
	}, true)
}

// IDs returns the IDs of all stored entries in key order.
func (v *VectorIndex) IDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorEntryPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			ids = append(ids, idFromKey(iter.Item().Key(), vectorEntryPrefix))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Payloads returns every stored payload keyed by entry ID.
func (v *VectorIndex) Payloads(ctx context.Context) (map[string]core.NodePayload, error) {
	payloads := make(map[string]core.NodePayload)
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, []byte(vectorEntryPrefix), func(key, val []byte) error {
			entry, err := storage.UnmarshalVectorEntry(val)
			if err != nil {
				return err
			}
			payloads[entry.ID] = entry.Payload
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return payloads, nil
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	ids, err := v.IDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func readDimension(tx *badger.Txn) (int, error) {
	item, err := tx.Get([]byte(vectorDimKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	var dim int
	err = item.Value(func(val []byte) error {
		if len(val) != 4 {
			return fmt.Errorf("%w: dimension record", storage.ErrTruncatedData)
		}
		dim = int(binary.BigEndian.Uint32(val))
		return nil
	})
	return dim, err
}

func writeDimension(tx *badger.Txn, dim int) error {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(dim))
	return tx.Set([]byte(vectorDimKey), buf)
}

func isEmpty(tx *badger.Txn) (bool, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(vectorEntryPrefix)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()
	iter.Rewind()
	return !iter.Valid(), nil
}
