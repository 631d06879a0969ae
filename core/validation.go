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

package core

import (
	"fmt"
	"strings"
)

// ValidateOptions checks that opts describes an executable search.
// Unknown search types are rejected here; callers that want the lenient
// "default to hybrid" behavior normalize first.
func ValidateOptions(opts *SearchOptions) error {
	if opts == nil {
		return fmt.Errorf("%w: options are nil", ErrInvalidOptions)
	}

	if strings.TrimSpace(opts.Query) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, ErrEmptyQuery)
	}

	if opts.SearchType != "" && !opts.SearchType.IsKnown() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidOptions, ErrInvalidSearchType, opts.SearchType)
	}

	if opts.MaxResults < 0 {
		return fmt.Errorf("%w: max results %d is negative", ErrInvalidOptions, opts.MaxResults)
	}

	if opts.RerankThreshold < 0 || opts.RerankThreshold > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, ErrInvalidThreshold)
	}

	switch opts.SortBy {
	case "", SortByRelevance, SortByDate, SortByTitle, SortBySize:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidOptions, ErrInvalidSortBy, opts.SortBy)
	}

	switch opts.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidOptions, ErrInvalidSortOrder, opts.SortOrder)
	}

	if dr := opts.DateRange; dr != nil && !dr.Start.IsZero() && !dr.End.IsZero() && dr.Start.After(dr.End) {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, ErrInvalidDateRange)
	}

	return nil
}

// ValidateSavedSearch checks a saved search before it is persisted.
func ValidateSavedSearch(s *SavedSearch) error {
	if s == nil {
		return fmt.Errorf("%w: saved search is nil", ErrInvalidSavedSearch)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSavedSearch, ErrEmptySavedSearchName)
	}
	if err := ValidateOptions(&s.Options); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSavedSearch, err)
	}
	return nil
}
