package indexing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/corpus"
	"github.com/poiesic/sift/storage"
)

// Stats summarizes one sync run.
type Stats struct {
	Documents int           // Documents listed by the corpus
	Embedded  int           // Documents embedded and written
	Refreshed int           // Entries whose metadata changed but content did not
	Unchanged int           // Documents already up to date
	Skipped   int           // Unreadable or empty documents
	Removed   int           // Entries deleted because their document is gone
	Elapsed   time.Duration // Wall time of the run
}

// Changed reports whether the run modified the index.
func (s Stats) Changed() bool {
	return s.Embedded+s.Refreshed+s.Removed > 0
}

// Indexer synchronizes a vector index with a corpus.
type Indexer struct {
	corpus   corpus.Corpus
	embedder ai.Embedder
	index    storage.VectorIndex
	config   *Config
	progress io.Writer
	logger   *slog.Logger

	// mu keeps sync runs from overlapping.
	mu sync.Mutex
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithConfig replaces the default Config.
func WithConfig(config *Config) Option {
	return func(ix *Indexer) error {
		if config == nil {
			config = DefaultConfig()
		}
		if err := config.Validate(); err != nil {
			return err
		}
		ix.config = config
		return nil
	}
}

// WithProgress sets where progress lines are written (typically os.Stderr).
// Default is to discard them.
func WithProgress(w io.Writer) Option {
	return func(ix *Indexer) error {
		if w == nil {
			w = io.Discard
		}
		ix.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexer that embeds documents from c into index.
func NewIndexer(c corpus.Corpus, embedder ai.Embedder, index storage.VectorIndex, opts ...Option) (*Indexer, error) {
	if c == nil {
		return nil, ErrCorpusRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}

	ix := &Indexer{
		corpus:   c,
		embedder: embedder,
		index:    index,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	ix.logger = ix.logger.With("component", "indexer")
	return ix, nil
}

// pending is a document waiting to be embedded.
type pending struct {
	id      string
	text    string
	payload core.NodePayload
}

// Sync brings the index in line with the corpus. Documents whose content
// hash matches their entry are left alone; unreadable documents keep
// whatever entry they already have. An embedding batch that still fails
// after retries aborts the run, leaving earlier batches written.
func (ix *Indexer) Sync(ctx context.Context) (Stats, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	start := time.Now()
	var stats Stats

	refs, err := ix.corpus.ListDocuments(ctx)
	if err != nil {
		return stats, fmt.Errorf("listing corpus: %w", err)
	}
	stats.Documents = len(refs)

	existing, err := ix.index.Payloads(ctx)
	if err != nil {
		return stats, fmt.Errorf("reading index payloads: %w", err)
	}

	seen := make(map[string]bool, len(refs))
	var todo []pending
	var refresh []core.VectorEntry
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		id := core.IDFromPath(ref.Path)
		seen[id] = true

		doc, err := ix.corpus.ReadDocument(ctx, ref)
		if err != nil {
			ix.logger.Warn("skipping unreadable document", "path", ref.Path, "err", err)
			stats.Skipped++
			continue
		}

		text := embeddingText(doc)
		if text == "" {
			stats.Skipped++
			delete(seen, id)
			continue
		}

		payload := payloadFor(doc)
		old, indexed := existing[id]
		switch {
		case indexed && old.ContentHash == payload.ContentHash && samePayload(old, payload):
			stats.Unchanged++
		case indexed && old.ContentHash == payload.ContentHash:
			entry, err := ix.index.Get(ctx, id)
			if err != nil {
				todo = append(todo, pending{id: id, text: text, payload: payload})
				continue
			}
			entry.Payload = payload
			refresh = append(refresh, *entry)
		default:
			todo = append(todo, pending{id: id, text: text, payload: payload})
		}
	}

	if len(refresh) > 0 {
		if err := ix.index.Upsert(ctx, refresh...); err != nil {
			return stats, fmt.Errorf("refreshing payloads: %w", err)
		}
		stats.Refreshed = len(refresh)
	}

	if err := ix.embedAll(ctx, todo, &stats); err != nil {
		return stats, err
	}

	var stale []string
	for id := range existing {
		if !seen[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		slices.Sort(stale)
		if err := ix.index.Delete(ctx, stale...); err != nil {
			return stats, fmt.Errorf("removing stale entries: %w", err)
		}
		stats.Removed = len(stale)
	}

	stats.Elapsed = time.Since(start)
	ix.logger.Info("sync complete",
		"documents", stats.Documents,
		"embedded", stats.Embedded,
		"refreshed", stats.Refreshed,
		"unchanged", stats.Unchanged,
		"skipped", stats.Skipped,
		"removed", stats.Removed,
		"elapsed", stats.Elapsed)
	return stats, nil
}

func (ix *Indexer) embedAll(ctx context.Context, todo []pending, stats *Stats) error {
	if len(todo) == 0 {
		return nil
	}

	fmt.Fprintf(ix.progress, "Embedding %d documents (batch size: %d)\n", len(todo), ix.config.BatchSize)
	tracker := NewProgressTracker(ix.progress, len(todo), ix.config.ReportInterval)
	tracker.Start()

	for batch := range slices.Chunk(todo, ix.config.BatchSize) {
		if err := ix.embedBatch(ctx, batch); err != nil {
			return err
		}
		stats.Embedded += len(batch)
		tracker.Add(len(batch))
	}

	tracker.Finish()
	return nil
}

// embedBatch embeds one batch with retry and writes it to the index.
// Vectors are normalized before they are stored.
func (ix *Indexer) embedBatch(ctx context.Context, batch []pending) error {
	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.text
	}

	var vectors [][]float32
	err := retryWithBackoff(ctx, ix.logger, ix.config.MaxRetries, ix.config.RetryDelay, func() error {
		var err error
		vectors, err = ix.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		return ai.CheckEmbeddings(vectors, len(texts))
	})
	if err != nil {
		return fmt.Errorf("embedding batch after %d attempts: %w", ix.config.MaxRetries, err)
	}

	entries := make([]core.VectorEntry, len(batch))
	for i, p := range batch {
		entries[i] = core.VectorEntry{
			ID:      p.id,
			Vector:  NormalizeVector(vectors[i]),
			Payload: p.payload,
		}
	}
	if err := ix.index.Upsert(ctx, entries...); err != nil {
		return fmt.Errorf("writing batch: %w", err)
	}
	return nil
}

// embeddingText is the text a document is embedded from. Empty documents
// are not embedded.
func embeddingText(doc *core.Document) string {
	return strings.TrimSpace(doc.Content)
}

func payloadFor(doc *core.Document) core.NodePayload {
	return core.NodePayload{
		Path:        doc.Path,
		Title:       doc.Title,
		Content:     doc.Content,
		Tags:        slices.Clone(doc.Tags),
		CreatedAt:   doc.CreatedAt,
		ModifiedAt:  doc.ModifiedAt,
		ContentHash: core.ContentHash(doc.Content),
	}
}

// samePayload compares the metadata stored with an entry. Times are
// compared at the microsecond precision the index stores.
func samePayload(a, b core.NodePayload) bool {
	return a.Path == b.Path &&
		a.Title == b.Title &&
		slices.Equal(a.Tags, b.Tags) &&
		a.CreatedAt.Truncate(time.Microsecond).Equal(b.CreatedAt.Truncate(time.Microsecond)) &&
		a.ModifiedAt.Truncate(time.Microsecond).Equal(b.ModifiedAt.Truncate(time.Microsecond))
}
