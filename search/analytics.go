package search

import (
	"cmp"
	"slices"

	"github.com/poiesic/sift/core"
)

const topQueryCount = 10

// QueryCount is how often a query appears in the history.
type QueryCount struct {
	Query string
	Count int
}

// SearchAnalytics summarizes the retained search history.
type SearchAnalytics struct {
	TotalSearches   int
	TopQueries      []QueryCount // Most frequent first, at most 10
	AverageResults  float64
	SearchTypeUsage map[core.SearchType]int
}

// GetSearchAnalytics computes usage statistics over the retained history.
func (s *Searcher) GetSearchAnalytics() SearchAnalytics {
	history := s.GetSearchHistory()

	a := SearchAnalytics{
		TotalSearches:   len(history),
		SearchTypeUsage: make(map[core.SearchType]int),
	}
	if len(history) == 0 {
		return a
	}

	counts := make(map[string]int)
	var order []string
	totalResults := 0
	for _, h := range history {
		if counts[h.Query] == 0 {
			order = append(order, h.Query)
		}
		counts[h.Query]++
		totalResults += h.ResultCount
		a.SearchTypeUsage[h.SearchType]++
	}
	a.AverageResults = float64(totalResults) / float64(len(history))

	for _, q := range order {
		a.TopQueries = append(a.TopQueries, QueryCount{Query: q, Count: counts[q]})
	}
	slices.SortStableFunc(a.TopQueries, func(x, y QueryCount) int {
		return cmp.Compare(y.Count, x.Count)
	})
	if len(a.TopQueries) > topQueryCount {
		a.TopQueries = a.TopQueries[:topQueryCount]
	}
	return a
}
