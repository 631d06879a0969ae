package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/indexing"
	"github.com/poiesic/sift/search"
)

func printResults(w io.Writer, results []core.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s  [%.3f, %s]\n", i+1, r.Title, r.Relevance(), r.Origin)
		if r.HasFile() {
			fmt.Fprintf(w, "   %s", r.Metadata.Path)
			if !r.Metadata.ModifiedAt.IsZero() {
				fmt.Fprintf(w, " (modified %s)", humanize.Time(r.Metadata.ModifiedAt))
			}
			fmt.Fprintln(w)
		}
		if len(r.Metadata.Tags) > 0 {
			fmt.Fprintf(w, "   tags: %s\n", strings.Join(r.Metadata.Tags, ", "))
		}
		for _, h := range r.Metadata.Highlights {
			fmt.Fprintf(w, "   > %s\n", h)
		}
		if len(r.Metadata.Highlights) == 0 && r.Content != "" {
			fmt.Fprintf(w, "   %s\n", firstLine(r.Content))
		}
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func printStats(w io.Writer, stats indexing.Stats) {
	fmt.Fprintf(w, "%s documents: %s embedded, %s refreshed, %s unchanged, %s skipped, %s removed in %s\n",
		humanize.Comma(int64(stats.Documents)),
		humanize.Comma(int64(stats.Embedded)),
		humanize.Comma(int64(stats.Refreshed)),
		humanize.Comma(int64(stats.Unchanged)),
		humanize.Comma(int64(stats.Skipped)),
		humanize.Comma(int64(stats.Removed)),
		stats.Elapsed.Round(time.Millisecond))
}

func printSavedSearches(w io.Writer, saved []*core.SavedSearch) {
	if len(saved) == 0 {
		fmt.Fprintln(w, "no saved searches")
		return
	}
	for _, s := range saved {
		lastUsed := "never"
		if !s.LastUsed.IsZero() {
			lastUsed = humanize.Time(s.LastUsed)
		}
		fmt.Fprintf(w, "%s  %s\n", s.ID, s.Name)
		fmt.Fprintf(w, "   %q (%s), used %s, last %s\n",
			s.Query, s.Options.SearchType, humanize.Comma(int64(s.UseCount))+" times", lastUsed)
		if len(s.Filters) > 0 {
			fmt.Fprintf(w, "   filters: %s\n", strings.Join(s.Filters, ", "))
		}
	}
}

// printHistory lists entries newest first.
func printHistory(w io.Writer, history []core.HistoryEntry, now time.Time) {
	if len(history) == 0 {
		fmt.Fprintln(w, "no search history")
		return
	}
	for _, h := range slices.Backward(history) {
		fmt.Fprintf(w, "%-16s %-12s %4d  %s\n",
			humanize.RelTime(h.Timestamp, now, "ago", "from now"), h.SearchType, h.ResultCount, h.Query)
	}
}

func printAnalytics(w io.Writer, a search.SearchAnalytics) {
	fmt.Fprintf(w, "total searches:  %s\n", humanize.Comma(int64(a.TotalSearches)))
	fmt.Fprintf(w, "average results: %.1f\n", a.AverageResults)

	if len(a.SearchTypeUsage) > 0 {
		fmt.Fprintln(w, "by type:")
		for _, t := range core.SearchTypes {
			if n := a.SearchTypeUsage[t]; n > 0 {
				fmt.Fprintf(w, "  %-12s %s\n", t, humanize.Comma(int64(n)))
			}
		}
	}
	if len(a.TopQueries) > 0 {
		fmt.Fprintln(w, "top queries:")
		for i, q := range a.TopQueries {
			fmt.Fprintf(w, "  %2d. %-40s %s\n", i+1, q.Query, humanize.Comma(int64(q.Count)))
		}
	}
}
