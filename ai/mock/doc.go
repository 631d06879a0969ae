// Package mock provides test double implementations of AI service interfaces.
//
// The mocks allow tests to run without external AI services and enable
// controlled, deterministic behavior. All of them are safe for concurrent
// use, since the search pipeline calls providers from several goroutines.
//
// # Usage in Tests
//
//	embedder := mock.NewMockEmbedder().
//	    WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
//	        return []float32{1, 0, 0}, nil
//	    })
//
//	generator := mock.NewMockTextGenerator("0.8")
//	reranker := mock.NewMockReranker(map[string]float64{"invoice text": 0.9})
//
//	count := embedder.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: unit vectors derived from an FNV hash of the text
//   - MockTextGenerator: returns Reply; Ready unless NotReady is set
//   - MockReranker: relevance from the Scores map, 0.5 for unknown documents
package mock
