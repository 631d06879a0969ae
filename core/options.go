package core

import (
	"strings"
	"time"
)

// SearchType selects the retrieval strategy.
type SearchType string

const (
	SearchTypeSemantic   SearchType = "semantic"
	SearchTypeKeyword    SearchType = "keyword"
	SearchTypeHybrid     SearchType = "hybrid"
	SearchTypeAIEnhanced SearchType = "ai_enhanced"
)

// SearchTypes lists every valid strategy selector.
var SearchTypes = []SearchType{
	SearchTypeSemantic,
	SearchTypeKeyword,
	SearchTypeHybrid,
	SearchTypeAIEnhanced,
}

// SortBy selects the final ordering key.
type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByDate      SortBy = "date"
	SortByTitle     SortBy = "title"
	SortBySize      SortBy = "size"
)

// SortOrder selects the final ordering direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	// DefaultMaxResults is used when SearchOptions.MaxResults is zero.
	DefaultMaxResults = 20

	// DefaultRerankThreshold is the threshold set by DefaultSearchOptions.
	DefaultRerankThreshold = 0.3
)

// DateRange is an inclusive range on a result's modification time.
// A zero Start or End leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (d DateRange) Contains(t time.Time) bool {
	if !d.Start.IsZero() && t.Before(d.Start) {
		return false
	}
	if !d.End.IsZero() && t.After(d.End) {
		return false
	}
	return true
}

// SearchOptions fully describes one query request.
type SearchOptions struct {
	Query           string
	SearchType      SearchType
	MaxResults      int
	UseRerank       bool
	RerankThreshold float64
	IncludeContent  bool
	FileTypes       []string // Extension allow-list, with or without the leading dot
	Tags            []string
	Folders         []string // Path prefixes
	DateRange       *DateRange
	SortBy          SortBy
	SortOrder       SortOrder
}

// DefaultSearchOptions returns hybrid relevance-ordered options for query.
func DefaultSearchOptions(query string) SearchOptions {
	return SearchOptions{
		Query:           query,
		SearchType:      SearchTypeHybrid,
		MaxResults:      DefaultMaxResults,
		RerankThreshold: DefaultRerankThreshold,
		IncludeContent:  true,
		SortBy:          SortByRelevance,
		SortOrder:       SortDesc,
	}
}

// Normalized returns a deep copy of o with defaults applied: trimmed query,
// hybrid for an empty search type, DefaultMaxResults for a zero cap,
// relevance/desc ordering, and extensions lowercased without dots.
// The copy shares no memory with o.
func (o SearchOptions) Normalized() SearchOptions {
	n := o
	n.Query = strings.TrimSpace(o.Query)
	if n.SearchType == "" {
		n.SearchType = SearchTypeHybrid
	}
	if n.MaxResults == 0 {
		n.MaxResults = DefaultMaxResults
	}
	if n.SortBy == "" {
		n.SortBy = SortByRelevance
	}
	if n.SortOrder == "" {
		n.SortOrder = SortDesc
	}
	n.FileTypes = nil
	for _, ext := range o.FileTypes {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			n.FileTypes = append(n.FileTypes, ext)
		}
	}
	n.Tags = cloneStrings(o.Tags)
	n.Folders = cloneStrings(o.Folders)
	if o.DateRange != nil {
		dr := *o.DateRange
		n.DateRange = &dr
	}
	return n
}

// IsKnown reports whether t is one of SearchTypes.
func (t SearchType) IsKnown() bool {
	for _, known := range SearchTypes {
		if t == known {
			return true
		}
	}
	return false
}
