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

package storage

import (
	"errors"
	"fmt"

	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/sift/core"
)

// MarshalVectorEntry serializes a VectorEntry to bytes.
func MarshalVectorEntry(entry *core.VectorEntry) []byte {
	buf := make([]byte, core.VectorEntryMUS.Size(*entry))
	core.VectorEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalVectorEntry deserializes a VectorEntry from bytes.
func UnmarshalVectorEntry(data []byte) (*core.VectorEntry, error) {
	entry, _, err := core.VectorEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, wrapDecodeError(err)
	}
	return &entry, nil
}

// MarshalSavedSearch serializes a SavedSearch to bytes.
func MarshalSavedSearch(saved *core.SavedSearch) []byte {
	buf := make([]byte, core.SavedSearchMUS.Size(*saved))
	core.SavedSearchMUS.Marshal(*saved, buf)
	return buf
}

// UnmarshalSavedSearch deserializes a SavedSearch from bytes.
func UnmarshalSavedSearch(data []byte) (*core.SavedSearch, error) {
	saved, _, err := core.SavedSearchMUS.Unmarshal(data)
	if err != nil {
		return nil, wrapDecodeError(err)
	}
	return &saved, nil
}

// MarshalHistory serializes a history list, oldest entry first.
func MarshalHistory(history []core.HistoryEntry) []byte {
	size := varint.Int64.Size(int64(len(history)))
	for _, e := range history {
		size += core.HistoryEntryMUS.Size(e)
	}
	buf := make([]byte, size)
	n := varint.Int64.Marshal(int64(len(history)), buf)
	for _, e := range history {
		n += core.HistoryEntryMUS.Marshal(e, buf[n:])
	}
	return buf
}

// UnmarshalHistory deserializes a history list.
func UnmarshalHistory(data []byte) ([]core.HistoryEntry, error) {
	length, n, err := varint.Int64.Unmarshal(data)
	if err != nil {
		return nil, wrapDecodeError(err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative history length", ErrSerializationFailed)
	}
	history := make([]core.HistoryEntry, 0, min(length, 1024))
	for i := int64(0); i < length; i++ {
		entry, n1, err := core.HistoryEntryMUS.Unmarshal(data[n:])
		if err != nil {
			return nil, wrapDecodeError(err)
		}
		n += n1
		history = append(history, entry)
	}
	return history, nil
}

func wrapDecodeError(err error) error {
	if errors.Is(err, core.ErrTruncated) {
		return fmt.Errorf("%w: %w: %w", ErrSerializationFailed, ErrTruncatedData, err)
	}
	return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
}
