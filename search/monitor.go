package search

import (
	"github.com/poiesic/sift/core"
)

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate steps and results during search.
// Hooks are called synchronously from the searching goroutine.
type SearchMonitor interface {
	Start(opts core.SearchOptions)
	CacheHit(results []core.SearchResult)
	AfterStrategy(searchType core.SearchType, results []core.SearchResult)
	AfterRerank(results []core.SearchResult)
	AfterFilter(results []core.SearchResult)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.SearchOptions)                             {}
func (n *noopMonitor) CacheHit(_ []core.SearchResult)                         {}
func (n *noopMonitor) AfterStrategy(_ core.SearchType, _ []core.SearchResult) {}
func (n *noopMonitor) AfterRerank(_ []core.SearchResult)                      {}
func (n *noopMonitor) AfterFilter(_ []core.SearchResult)                      {}
func (n *noopMonitor) Finish(_ []core.SearchResult)                           {}
