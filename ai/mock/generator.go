package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/sift/ai"
)

// MockTextGenerator is a test double for ai.TextGenerator.
type MockTextGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, Generate returns Reply.
	GenerateFunc func(ctx context.Context, messages []ai.Message, maxTokens int) (string, error)

	// Reply is the default response.
	Reply string

	// NotReady makes Ready report false.
	NotReady bool

	mu        sync.Mutex
	calls     [][]ai.Message
	callCount atomic.Int64
}

// NewMockTextGenerator creates a ready generator that replies with reply.
func NewMockTextGenerator(reply string) *MockTextGenerator {
	return &MockTextGenerator{Reply: reply}
}

// Generate records the call and returns the injected or default reply.
func (m *MockTextGenerator) Generate(ctx context.Context, messages []ai.Message, maxTokens int) (string, error) {
	m.callCount.Add(1)

	m.mu.Lock()
	m.calls = append(m.calls, append([]ai.Message(nil), messages...))
	fn, reply := m.GenerateFunc, m.Reply
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages, maxTokens)
	}
	return reply, nil
}

// Ready reports whether the generator accepts requests.
func (m *MockTextGenerator) Ready() bool {
	return !m.NotReady
}

// WithGenerateFunc sets GenerateFunc and returns m for chaining.
func (m *MockTextGenerator) WithGenerateFunc(fn func(ctx context.Context, messages []ai.Message, maxTokens int) (string, error)) *MockTextGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = fn
	return m
}

// Calls returns a copy of the transcripts passed to Generate.
func (m *MockTextGenerator) Calls() [][]ai.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]ai.Message(nil), m.calls...)
}

// CallCount returns the number of Generate calls.
func (m *MockTextGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears recorded calls and injected behavior.
func (m *MockTextGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount.Store(0)
	m.calls = nil
	m.GenerateFunc = nil
}
