package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/poiesic/sift/core"
)

// sortByRelevance orders results by descending Relevance, keeping the
// input order of ties.
func sortByRelevance(results []core.SearchResult) {
	slices.SortStableFunc(results, func(a, b core.SearchResult) int {
		return cmp.Compare(b.Relevance(), a.Relevance())
	})
}

// sortResults applies the final ordering. The sort is stable in both
// directions: descending reverses the comparison, not the output.
func sortResults(results []core.SearchResult, by core.SortBy, order core.SortOrder) {
	compare := comparator(by)
	if order == core.SortDesc {
		asc := compare
		compare = func(a, b core.SearchResult) int { return asc(b, a) }
	}
	slices.SortStableFunc(results, compare)
}

func comparator(by core.SortBy) func(a, b core.SearchResult) int {
	switch by {
	case core.SortByDate:
		return func(a, b core.SearchResult) int {
			return a.Metadata.ModifiedAt.Compare(b.Metadata.ModifiedAt)
		}
	case core.SortByTitle:
		return func(a, b core.SearchResult) int {
			return strings.Compare(a.Title, b.Title)
		}
	case core.SortBySize:
		return func(a, b core.SearchResult) int {
			return cmp.Compare(a.Metadata.WordCount, b.Metadata.WordCount)
		}
	default:
		return func(a, b core.SearchResult) int {
			return cmp.Compare(a.Relevance(), b.Relevance())
		}
	}
}
