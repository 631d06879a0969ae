package search

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/storage"
)

// Defaults for the corresponding options.
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultCacheSize        = 1000
	DefaultHistoryLimit     = 100
	DefaultPoolSize         = 8
	DefaultMaxScoredResults = 50
	DefaultProviderTimeout  = 30 * time.Second
)

// Ranking constants.
const (
	semanticWeight        = 0.7
	lexicalWeight         = 0.3
	rerankPriorWeight     = 0.3
	rerankRelevanceWeight = 0.7
	aiPriorWeight         = 0.5
	aiRelevanceWeight     = 0.5
)

const (
	expansionCount         = 3
	previewLength          = 300
	aiContentLength        = 500
	maxHighlightsPerResult = 3
	maxHighlightsPerWord   = 2
	maxMergedHighlights    = 5
	highlightContext       = 50
)

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEmbedder enables semantic search.
func WithEmbedder(e ai.Embedder) Option {
	return func(s *Searcher) error {
		s.embedder = e
		return nil
	}
}

// WithVectorIndex sets the index semantic search queries.
func WithVectorIndex(index storage.VectorIndex) Option {
	return func(s *Searcher) error {
		s.index = index
		return nil
	}
}

// WithTextGenerator enables query expansion and AI relevance scoring.
func WithTextGenerator(g ai.TextGenerator) Option {
	return func(s *Searcher) error {
		s.generator = g
		return nil
	}
}

// WithReranker enables reranking.
func WithReranker(r ai.Reranker) Option {
	return func(s *Searcher) error {
		s.reranker = r
		return nil
	}
}

// WithProvider takes the embedder, text generator and reranker from p.
// Services p does not offer are left unset.
func WithProvider(p ai.AIProvider) Option {
	return func(s *Searcher) error {
		if p == nil {
			return nil
		}
		s.embedder = p.Embedder()
		s.generator = p.TextGenerator()
		s.reranker = p.Reranker()
		return nil
	}
}

// WithStateStore loads saved searches and history from store at
// construction and persists every change to them.
func WithStateStore(store storage.StateStore) Option {
	return func(s *Searcher) error {
		s.store = store
		return nil
	}
}

// WithCacheTTL sets how long a cached result list stays valid.
// Default is 5 minutes.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Searcher) error {
		if ttl <= 0 {
			return fmt.Errorf("%w: cache ttl must be positive", ErrInvalidOption)
		}
		s.cacheTTL = ttl
		return nil
	}
}

// WithCacheSize bounds the number of cached result lists.
// Default is 1000.
func WithCacheSize(n int) Option {
	return func(s *Searcher) error {
		if n <= 0 {
			return fmt.Errorf("%w: cache size must be positive", ErrInvalidOption)
		}
		s.cacheSize = n
		return nil
	}
}

// WithHistoryLimit bounds the number of retained history entries.
// Default is 100.
func WithHistoryLimit(n int) Option {
	return func(s *Searcher) error {
		if n <= 0 {
			return fmt.Errorf("%w: history limit must be positive", ErrInvalidOption)
		}
		s.historyLimit = n
		return nil
	}
}

// WithPoolSize bounds concurrent AI relevance scoring calls.
// Default is 8.
func WithPoolSize(n int) Option {
	return func(s *Searcher) error {
		if n <= 0 {
			return fmt.Errorf("%w: pool size must be positive", ErrInvalidOption)
		}
		s.poolSize = n
		return nil
	}
}

// WithMaxScoredResults bounds how many results ai_enhanced search sends
// for relevance scoring. Results beyond the bound keep their prior score.
// Default is 50.
func WithMaxScoredResults(n int) Option {
	return func(s *Searcher) error {
		if n < 0 {
			return fmt.Errorf("%w: max scored results must not be negative", ErrInvalidOption)
		}
		s.maxScored = n
		return nil
	}
}

// WithProviderTimeout bounds every individual provider call. Zero disables
// the bound. Default is 30 seconds.
func WithProviderTimeout(d time.Duration) Option {
	return func(s *Searcher) error {
		if d < 0 {
			return fmt.Errorf("%w: provider timeout must not be negative", ErrInvalidOption)
		}
		s.providerTimeout = d
		return nil
	}
}

// WithClock replaces time.Now for cache expiry and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now == nil {
			return fmt.Errorf("%w: clock is nil", ErrInvalidOption)
		}
		s.now = now
		return nil
	}
}

// WithMonitor sets the default monitor for Search.
func WithMonitor(m SearchMonitor) Option {
	return func(s *Searcher) error {
		if m == nil {
			m = &noopMonitor{}
		}
		s.monitor = m
		return nil
	}
}
