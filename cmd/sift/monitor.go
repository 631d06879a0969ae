package main

import (
	"fmt"
	"io"
	"time"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/search"
)

// traceMonitor prints the size of the result list after each pipeline stage.
type traceMonitor struct {
	w       io.Writer
	started time.Time
}

var _ search.SearchMonitor = (*traceMonitor)(nil)

func newTraceMonitor(w io.Writer) *traceMonitor {
	return &traceMonitor{w: w}
}

func (m *traceMonitor) Start(opts core.SearchOptions) {
	m.started = time.Now()
	fmt.Fprintf(m.w, "trace: %s search for %q (max %d, rerank %t)\n",
		opts.SearchType, opts.Query, opts.MaxResults, opts.UseRerank)
}

func (m *traceMonitor) CacheHit(results []core.SearchResult) {
	m.stage("cache hit", results)
}

func (m *traceMonitor) AfterStrategy(searchType core.SearchType, results []core.SearchResult) {
	m.stage(string(searchType), results)
}

func (m *traceMonitor) AfterRerank(results []core.SearchResult) {
	m.stage("rerank", results)
}

func (m *traceMonitor) AfterFilter(results []core.SearchResult) {
	m.stage("filter", results)
}

func (m *traceMonitor) Finish(results []core.SearchResult) {
	m.stage("done", results)
}

func (m *traceMonitor) stage(name string, results []core.SearchResult) {
	fmt.Fprintf(m.w, "trace: %-12s %3d results  %s\n",
		name, len(results), time.Since(m.started).Round(time.Microsecond))
}
