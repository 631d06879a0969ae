package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/corpus"
	"github.com/poiesic/sift/storage"
)

var errUnreadable = errors.New("unreadable")

// fakeIndex returns a fixed match list, ignoring the query vector.
type fakeIndex struct {
	matches []core.VectorMatch
	err     error
	calls   atomic.Int64
}

var _ storage.VectorIndex = (*fakeIndex)(nil)

func (f *fakeIndex) Upsert(context.Context, ...core.VectorEntry) error { return nil }

func (f *fakeIndex) Search(_ context.Context, _ []float32, k int) ([]core.VectorMatch, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if k < len(f.matches) {
		return append([]core.VectorMatch(nil), f.matches[:k]...), nil
	}
	return append([]core.VectorMatch(nil), f.matches...), nil
}

func (f *fakeIndex) Get(context.Context, string) (*core.VectorEntry, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeIndex) Delete(context.Context, ...string) error { return nil }

func (f *fakeIndex) IDs(context.Context) ([]string, error) { return nil, nil }

func (f *fakeIndex) Payloads(context.Context) (map[string]core.NodePayload, error) {
	return nil, nil
}

func (f *fakeIndex) Count(context.Context) (int, error) { return len(f.matches), nil }

// brokenCorpus fails to read the listed paths.
type brokenCorpus struct {
	*corpus.Static
	unreadable map[string]bool
	listErr    error
}

func (b *brokenCorpus) ListDocuments(ctx context.Context) ([]core.DocumentRef, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.Static.ListDocuments(ctx)
}

func (b *brokenCorpus) ReadDocument(ctx context.Context, ref core.DocumentRef) (*core.Document, error) {
	if b.unreadable[ref.Path] {
		return nil, errUnreadable
	}
	return b.Static.ReadDocument(ctx, ref)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingMonitor counts hook invocations.
type recordingMonitor struct {
	mu    sync.Mutex
	hooks []string
}

func (m *recordingMonitor) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, name)
}

func (m *recordingMonitor) Start(core.SearchOptions)                           { m.record("start") }
func (m *recordingMonitor) CacheHit([]core.SearchResult)                       { m.record("cache") }
func (m *recordingMonitor) AfterStrategy(core.SearchType, []core.SearchResult) { m.record("strategy") }
func (m *recordingMonitor) AfterRerank([]core.SearchResult)                    { m.record("rerank") }
func (m *recordingMonitor) AfterFilter([]core.SearchResult)                    { m.record("filter") }
func (m *recordingMonitor) Finish([]core.SearchResult)                         { m.record("finish") }

func (m *recordingMonitor) Hooks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.hooks...)
}

func doc(path, title, content string, tags ...string) core.Document {
	return core.Document{
		DocumentRef: core.DocumentRef{
			Path:       path,
			Title:      title,
			Tags:       tags,
			ModifiedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		Content: content,
	}
}

func newTestSearcher(t *testing.T, c corpus.Corpus, opts ...Option) *Searcher {
	t.Helper()
	s, err := NewSearcher(c, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func keywordOptions(query string) core.SearchOptions {
	opts := core.DefaultSearchOptions(query)
	opts.SearchType = core.SearchTypeKeyword
	return opts
}
