package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/corpus"
	"github.com/poiesic/sift/storage"
)

// Searcher runs the search pipeline over a corpus and owns the engine
// state: the result cache, saved searches and search history.
// A Searcher is safe for concurrent use.
type Searcher struct {
	corpus    corpus.Corpus
	embedder  ai.Embedder
	index     storage.VectorIndex
	generator ai.TextGenerator
	reranker  ai.Reranker
	store     storage.StateStore
	cache     *resultCache
	pool      *ants.Pool
	monitor   SearchMonitor
	logger    *slog.Logger
	now       func() time.Time

	cacheTTL        time.Duration
	cacheSize       int
	historyLimit    int
	poolSize        int
	maxScored       int
	providerTimeout time.Duration

	mu      sync.Mutex
	saved   map[string]*core.SavedSearch
	history []core.HistoryEntry

	// persistMu serializes snapshot-and-save so saves land in order.
	persistMu sync.Mutex
}

// NewSearcher creates a searcher over c. Saved searches and history are
// loaded from the state store when one is configured.
func NewSearcher(c corpus.Corpus, opts ...Option) (*Searcher, error) {
	if c == nil {
		return nil, ErrCorpusRequired
	}

	s := &Searcher{
		corpus:          c,
		monitor:         &noopMonitor{},
		logger:          slog.Default(),
		now:             time.Now,
		cacheTTL:        DefaultCacheTTL,
		cacheSize:       DefaultCacheSize,
		historyLimit:    DefaultHistoryLimit,
		poolSize:        DefaultPoolSize,
		maxScored:       DefaultMaxScoredResults,
		providerTimeout: DefaultProviderTimeout,
		saved:           make(map[string]*core.SavedSearch),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	cache, err := newResultCache(s.cacheSize, s.cacheTTL, s.now)
	if err != nil {
		return nil, err
	}
	s.cache = cache

	if s.store != nil {
		state, err := s.store.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading search state: %w", err)
		}
		s.restore(state)
	}

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	return s, nil
}

// Close releases the scoring worker pool. The searcher should not be used
// after calling Close.
func (s *Searcher) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Search runs a search with the searcher's default monitor.
func (s *Searcher) Search(ctx context.Context, opts core.SearchOptions) ([]core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, opts, nil)
}

// SearchWithMonitor runs the full pipeline: cache lookup, strategy dispatch,
// optional rerank, filters, then sort and truncation. Fresh results are
// cached and recorded in the history; cache hits are not.
// A nil monitor uses the searcher's default.
func (s *Searcher) SearchWithMonitor(ctx context.Context, opts core.SearchOptions, monitor SearchMonitor) ([]core.SearchResult, error) {
	if monitor == nil {
		monitor = s.monitor
	}

	opts = opts.Normalized()
	if !opts.SearchType.IsKnown() {
		s.logger.Debug("unknown search type, using hybrid", "searchType", opts.SearchType)
		opts.SearchType = core.SearchTypeHybrid
	}
	if err := core.ValidateOptions(&opts); err != nil {
		return nil, err
	}

	monitor.Start(opts)

	key := cacheKey(opts)
	if cached, ok := s.cache.get(key); ok {
		s.logger.Debug("cache hit", "query", opts.Query, "results", len(cached))
		results := arrange(cached, opts)
		monitor.CacheHit(results)
		return present(results, opts.IncludeContent), nil
	}

	results, err := s.dispatch(ctx, opts)
	if err != nil {
		return nil, err
	}
	monitor.AfterStrategy(opts.SearchType, results)

	if opts.UseRerank && s.reranker != nil {
		results = s.rerank(ctx, opts, results)
		monitor.AfterRerank(results)
	}

	results = applyFilters(results, opts)
	monitor.AfterFilter(results)
	s.cache.put(key, results)

	results = arrange(results, opts)
	s.recordHistory(ctx, core.HistoryEntry{
		Query:       opts.Query,
		SearchType:  opts.SearchType,
		Timestamp:   s.now(),
		ResultCount: len(results),
	})

	out := present(results, opts.IncludeContent)
	monitor.Finish(out)
	return out, nil
}

func (s *Searcher) dispatch(ctx context.Context, opts core.SearchOptions) ([]core.SearchResult, error) {
	switch opts.SearchType {
	case core.SearchTypeKeyword:
		return s.lexicalSearch(ctx, opts)
	case core.SearchTypeSemantic:
		return s.semanticSearch(ctx, opts)
	case core.SearchTypeAIEnhanced:
		return s.aiEnhancedSearch(ctx, opts)
	default:
		return s.hybridSearch(ctx, opts)
	}
}

// arrange sorts and truncates results for presentation. The cache key
// does not cover ordering or the result cap, so both are applied per call.
func arrange(results []core.SearchResult, opts core.SearchOptions) []core.SearchResult {
	sorted := slices.Clone(results)
	sortResults(sorted, opts.SortBy, opts.SortOrder)
	if len(sorted) > opts.MaxResults {
		sorted = sorted[:opts.MaxResults]
	}
	return sorted
}

// InvalidateCache drops every cached result list.
func (s *Searcher) InvalidateCache() {
	s.cache.purge()
}

// providerContext bounds a single provider call by the provider timeout.
func (s *Searcher) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.providerTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.providerTimeout)
}

// present copies results for the caller, replacing content with a short
// preview unless full content was requested.
func present(results []core.SearchResult, includeContent bool) []core.SearchResult {
	out := make([]core.SearchResult, len(results))
	for i, r := range results {
		r = r.Clone()
		if !includeContent {
			r.Content = preview(r.Content, previewLength)
		}
		out[i] = r
	}
	return out
}
