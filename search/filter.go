package search

import (
	"slices"
	"strings"

	"github.com/poiesic/sift/core"
)

// filter reports whether a result survives. Filters only exclude on a
// positive mismatch; a result missing the tested attribute passes, except
// for the tag filter, which needs at least one overlapping tag.
type filter func(r *core.SearchResult) bool

// applyFilters runs the configured filters in order: extension, date
// range, tags, folders. Unconfigured filters are skipped.
func applyFilters(results []core.SearchResult, opts core.SearchOptions) []core.SearchResult {
	var filters []filter
	if len(opts.FileTypes) > 0 {
		filters = append(filters, extensionFilter(opts.FileTypes))
	}
	if opts.DateRange != nil {
		filters = append(filters, dateFilter(*opts.DateRange))
	}
	if len(opts.Tags) > 0 {
		filters = append(filters, tagFilter(opts.Tags))
	}
	if len(opts.Folders) > 0 {
		filters = append(filters, folderFilter(opts.Folders))
	}
	if len(filters) == 0 {
		return results
	}

	out := make([]core.SearchResult, 0, len(results))
	for i := range results {
		keep := true
		for _, f := range filters {
			if !f(&results[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, results[i])
		}
	}
	return out
}

// extensionFilter expects extensions lowercased without the dot.
func extensionFilter(exts []string) filter {
	return func(r *core.SearchResult) bool {
		if !r.HasFile() {
			return true
		}
		return slices.Contains(exts, r.Extension())
	}
}

func dateFilter(dr core.DateRange) filter {
	return func(r *core.SearchResult) bool {
		if r.Metadata.ModifiedAt.IsZero() {
			return true
		}
		return dr.Contains(r.Metadata.ModifiedAt)
	}
}

func tagFilter(tags []string) filter {
	return func(r *core.SearchResult) bool {
		for _, want := range tags {
			for _, have := range r.Metadata.Tags {
				if strings.EqualFold(want, have) {
					return true
				}
			}
		}
		return false
	}
}

func folderFilter(folders []string) filter {
	return func(r *core.SearchResult) bool {
		if !r.HasFile() {
			return true
		}
		for _, prefix := range folders {
			if strings.HasPrefix(r.Metadata.Path, prefix) {
				return true
			}
		}
		return false
	}
}
