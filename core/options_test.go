package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchOptions_Normalized(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		n := SearchOptions{Query: "  invoice  "}.Normalized()
		assert.Equal(t, "invoice", n.Query)
		assert.Equal(t, SearchTypeHybrid, n.SearchType)
		assert.Equal(t, DefaultMaxResults, n.MaxResults)
		assert.Equal(t, SortByRelevance, n.SortBy)
		assert.Equal(t, SortDesc, n.SortOrder)
	})

	t.Run("canonicalizes file types", func(t *testing.T) {
		n := SearchOptions{Query: "q", FileTypes: []string{".MD", "pdf", " ", ".txt"}}.Normalized()
		assert.Equal(t, []string{"md", "pdf", "txt"}, n.FileTypes)
	})

	t.Run("copy shares no memory with the original", func(t *testing.T) {
		orig := SearchOptions{
			Query:     "q",
			Tags:      []string{"a"},
			Folders:   []string{"notes/"},
			DateRange: &DateRange{Start: time.Unix(0, 0)},
		}
		n := orig.Normalized()
		orig.Tags[0] = "changed"
		orig.Folders[0] = "changed"
		orig.DateRange.Start = time.Unix(100, 0)

		assert.Equal(t, []string{"a"}, n.Tags)
		assert.Equal(t, []string{"notes/"}, n.Folders)
		assert.Equal(t, time.Unix(0, 0), n.DateRange.Start)
	})
}

func TestDateRange_Contains(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    DateRange
		t    time.Time
		want bool
	}{
		{"inside", DateRange{start, end}, start.Add(24 * time.Hour), true},
		{"start is inclusive", DateRange{start, end}, start, true},
		{"end is inclusive", DateRange{start, end}, end, true},
		{"before", DateRange{start, end}, start.Add(-time.Second), false},
		{"after", DateRange{start, end}, end.Add(time.Second), false},
		{"open start", DateRange{End: end}, time.Time{}, true},
		{"open end", DateRange{Start: start}, end.AddDate(10, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Contains(tt.t))
		})
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    *SearchOptions
		wantErr error
	}{
		{"valid defaults", ptr(DefaultSearchOptions("invoice")), nil},
		{"nil options", nil, ErrInvalidOptions},
		{"empty query", &SearchOptions{Query: "   "}, ErrEmptyQuery},
		{"unknown search type", &SearchOptions{Query: "q", SearchType: "fuzzy"}, ErrInvalidSearchType},
		{"negative max results", &SearchOptions{Query: "q", MaxResults: -1}, ErrInvalidOptions},
		{"threshold above one", &SearchOptions{Query: "q", RerankThreshold: 1.5}, ErrInvalidThreshold},
		{"unknown sort key", &SearchOptions{Query: "q", SortBy: "color"}, ErrInvalidSortBy},
		{"unknown sort order", &SearchOptions{Query: "q", SortOrder: "sideways"}, ErrInvalidSortOrder},
		{
			"inverted date range",
			&SearchOptions{Query: "q", DateRange: &DateRange{Start: time.Unix(100, 0), End: time.Unix(0, 0)}},
			ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOptions(tt.opts)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestValidateSavedSearch(t *testing.T) {
	assert.ErrorIs(t, ValidateSavedSearch(nil), ErrInvalidSavedSearch)
	assert.ErrorIs(t, ValidateSavedSearch(&SavedSearch{Options: DefaultSearchOptions("q")}), ErrEmptySavedSearchName)
	assert.ErrorIs(t, ValidateSavedSearch(&SavedSearch{Name: "n"}), ErrEmptyQuery)
	assert.NoError(t, ValidateSavedSearch(&SavedSearch{Name: "n", Options: DefaultSearchOptions("q")}))
}

func TestSearchResult_Scores(t *testing.T) {
	r := SearchResult{Score: 0.5}
	assert.Equal(t, 0.5, r.Relevance())

	r.SetFinalScore(0.8)
	assert.Equal(t, 0.8, r.Relevance())

	copied := r
	r.SetFinalScore(0.1)
	assert.Equal(t, 0.8, copied.Relevance(), "earlier copies keep their own final score")
}

func TestSearchResult_Extension(t *testing.T) {
	assert.Equal(t, "md", (&SearchResult{Metadata: ResultMetadata{Path: "a/B.MD"}}).Extension())
	assert.Equal(t, "", (&SearchResult{}).Extension())
	assert.False(t, (&SearchResult{}).HasFile())
}

func ptr[T any](v T) *T {
	return &v
}
