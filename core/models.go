package core

import (
	"path"
	"strings"
	"time"
)

// Origin tags what backs a SearchResult.
type Origin string

const (
	// OriginFile is a result backed by a corpus document.
	OriginFile Origin = "file"
	// OriginNode is a result backed by a memory-graph (vector index) entry.
	OriginNode Origin = "node"
	// OriginExternal is a result supplied by an outside source.
	OriginExternal Origin = "external"
)

// ResultMetadata carries the attributes filters and sorters inspect.
// A zero value for any field means the attribute is unknown.
type ResultMetadata struct {
	Path       string    // Source path; empty when the result has no file backing
	Tags       []string  // Document tags
	CreatedAt  time.Time // When the source was created
	ModifiedAt time.Time // When the source was last modified
	WordCount  int       // Number of words in the full content
	Highlights []string  // Context snippets around query matches
}

// SearchResult is one retrieved unit.
type SearchResult struct {
	// ID is unique within one search call and is the deduplication key
	// across strategies.
	ID      string
	Title   string
	Content string
	Origin  Origin

	// Score is the strategy-native relevance. Lexical scores are match
	// ratios, semantic scores are cosine similarities.
	Score float64

	// RerankScore is the cross-encoder relevance in [0,1]; nil until reranked.
	RerankScore *float64

	// FinalScore is the score used for ordering; nil until a stage sets it.
	// Stages that run after it has been set recompute it from Relevance().
	FinalScore *float64

	Metadata ResultMetadata
}

// Relevance returns FinalScore when set, Score otherwise.
func (r *SearchResult) Relevance() float64 {
	if r.FinalScore != nil {
		return *r.FinalScore
	}
	return r.Score
}

// SetFinalScore replaces FinalScore. A fresh pointer is used so copies of
// the result made before the call keep their own value.
func (r *SearchResult) SetFinalScore(v float64) {
	r.FinalScore = &v
}

// SetRerankScore replaces RerankScore.
func (r *SearchResult) SetRerankScore(v float64) {
	r.RerankScore = &v
}

// HasFile reports whether the result is attached to a source path.
func (r *SearchResult) HasFile() bool {
	return r.Metadata.Path != ""
}

// Extension returns the lowercase file extension without the dot, or "".
func (r *SearchResult) Extension() string {
	return ExtensionOf(r.Metadata.Path)
}

// Clone returns a copy that shares no memory with r.
func (r SearchResult) Clone() SearchResult {
	r.Metadata.Tags = cloneStrings(r.Metadata.Tags)
	r.Metadata.Highlights = cloneStrings(r.Metadata.Highlights)
	if r.RerankScore != nil {
		r.SetRerankScore(*r.RerankScore)
	}
	if r.FinalScore != nil {
		r.SetFinalScore(*r.FinalScore)
	}
	return r
}

// ExtensionOf returns the lowercase extension of p without the leading dot.
func ExtensionOf(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}

// SavedSearch is a persisted, replayable query.
type SavedSearch struct {
	ID        string
	Name      string
	Query     string
	Options   SearchOptions
	Filters   []string
	CreatedAt time.Time
	LastUsed  time.Time // Zero until first replay
	UseCount  int
}

// HistoryEntry records one executed (non-cached) search.
type HistoryEntry struct {
	Query       string
	SearchType  SearchType
	Timestamp   time.Time
	ResultCount int
}

// EngineState is the persisted part of the search engine: saved searches
// and the bounded search history, oldest entry first.
type EngineState struct {
	SavedSearches []*SavedSearch
	History       []HistoryEntry
}

// DocumentRef describes a corpus document without its content.
type DocumentRef struct {
	Path       string
	Title      string
	Tags       []string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Extension  string
}

// Document is a corpus document with its content loaded.
type Document struct {
	DocumentRef
	Content string
}

// WordCount returns the number of whitespace-separated words in Content.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.Content))
}

// NodePayload is the typed payload stored next to each vector.
type NodePayload struct {
	Path        string
	Title       string
	Content     string
	Tags        []string
	CreatedAt   time.Time
	ModifiedAt  time.Time
	ContentHash string // ContentHash of Content at indexing time
}

// VectorEntry is one (id, vector, payload) triple in a vector index.
type VectorEntry struct {
	ID      string
	Vector  []float32
	Payload NodePayload
}

// VectorMatch is one nearest-neighbor hit.
type VectorMatch struct {
	ID      string
	Score   float64 // Cosine similarity
	Payload NodePayload
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
