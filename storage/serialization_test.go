package storage

import (
	"testing"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalVectorEntry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	entry := &core.VectorEntry{
		ID:     core.IDFromPath("notes/invoice.md"),
		Vector: []float32{0.1, -0.2, 0.3},
		Payload: core.NodePayload{
			Path:        "notes/invoice.md",
			Title:       "Invoice",
			Content:     "Invoice #42: payment received",
			Tags:        []string{"finance", "q3"},
			CreatedAt:   now.Add(-time.Hour),
			ModifiedAt:  now,
			ContentHash: core.ContentHash("Invoice #42: payment received"),
		},
	}

	data := MarshalVectorEntry(entry)
	decoded, err := UnmarshalVectorEntry(data)
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestMarshalUnmarshalSavedSearch(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	opts := core.DefaultSearchOptions("invoice payment")
	opts.UseRerank = true
	opts.FileTypes = []string{"md"}
	opts.DateRange = &core.DateRange{Start: now.Add(-24 * time.Hour)}

	tests := []struct {
		name  string
		saved *core.SavedSearch
	}{
		{
			name: "never used",
			saved: &core.SavedSearch{
				ID:        "3b1f",
				Name:      "invoices",
				Query:     "invoice payment",
				Options:   opts,
				CreatedAt: now,
			},
		},
		{
			name: "used with filters",
			saved: &core.SavedSearch{
				ID:        "9c2e",
				Name:      "recent",
				Query:     "meeting",
				Options:   core.DefaultSearchOptions("meeting"),
				Filters:   []string{"tag:work"},
				CreatedAt: now.Add(-time.Hour),
				LastUsed:  now,
				UseCount:  7,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalSavedSearch(MarshalSavedSearch(tt.saved))
			require.NoError(t, err)
			assert.Equal(t, tt.saved, decoded)
		})
	}
}

func TestMarshalUnmarshalHistory(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	history := []core.HistoryEntry{
		{Query: "a", SearchType: core.SearchTypeKeyword, Timestamp: now, ResultCount: 3},
		{Query: "b", SearchType: core.SearchTypeHybrid, Timestamp: now.Add(time.Second), ResultCount: 0},
	}

	decoded, err := UnmarshalHistory(MarshalHistory(history))
	require.NoError(t, err)
	assert.Equal(t, history, decoded)

	empty, err := UnmarshalHistory(MarshalHistory(nil))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUnmarshal_Invalid(t *testing.T) {
	entry := &core.VectorEntry{ID: "x", Vector: []float32{1, 2, 3, 4}}
	data := MarshalVectorEntry(entry)

	_, err := UnmarshalVectorEntry(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalSavedSearch([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalHistory([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
