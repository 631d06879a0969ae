package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/sift/ai"
)

// MockReranker is a test double for ai.Reranker.
type MockReranker struct {
	// RerankFunc is called by Rerank if set.
	// If nil, Rerank scores documents by Scores, falling back to 0.5.
	RerankFunc func(ctx context.Context, query string, documents []string, topK int) (ai.RerankOutcome, error)

	// Scores maps document text to the relevance returned by default.
	Scores map[string]float64

	mu        sync.Mutex
	callCount atomic.Int64
}

// NewMockReranker creates a reranker returning scores keyed by document text.
func NewMockReranker(scores map[string]float64) *MockReranker {
	return &MockReranker{Scores: scores}
}

// Rerank returns the injected or default outcome, validated against documents.
func (m *MockReranker) Rerank(ctx context.Context, query string, documents []string, topK int) (ai.RerankOutcome, error) {
	m.callCount.Add(1)

	m.mu.Lock()
	fn := m.RerankFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, query, documents, topK)
	}

	outcome := ai.RerankOutcome{Model: "mock-reranker"}
	for i, doc := range documents {
		score, ok := m.Scores[doc]
		if !ok {
			score = 0.5
		}
		outcome.Scores = append(outcome.Scores, ai.RerankScore{Index: i, RelevanceScore: score})
	}
	outcome.Validate(len(documents))
	if topK > 0 && len(outcome.Scores) > topK {
		outcome.Scores = outcome.Scores[:topK]
	}
	return outcome, nil
}

// WithRerankFunc sets RerankFunc and returns m for chaining.
func (m *MockReranker) WithRerankFunc(fn func(ctx context.Context, query string, documents []string, topK int) (ai.RerankOutcome, error)) *MockReranker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RerankFunc = fn
	return m
}

// CallCount returns the number of Rerank calls.
func (m *MockReranker) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockReranker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount.Store(0)
	m.RerankFunc = nil
}
