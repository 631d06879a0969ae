package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// TextGenerator produces free-form completions from a chat transcript.
// Implementations must be thread-safe for concurrent use.
type TextGenerator interface {
	// Generate returns the model's reply to messages. A maxTokens of zero
	// leaves the limit to the backend.
	Generate(ctx context.Context, messages []Message, maxTokens int) (string, error)

	// Ready reports whether the generator is configured to serve requests.
	Ready() bool
}

// Reranker scores documents against a query with a cross-encoder.
// Implementations must be thread-safe for concurrent use.
type Reranker interface {
	// Rerank scores up to topK of documents against query. Indexes in the
	// outcome refer to positions in documents.
	Rerank(ctx context.Context, query string, documents []string, topK int) (RerankOutcome, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// Any of the services may be nil when the deployment does not provide it.
type AIProvider interface {
	Embedder() Embedder
	TextGenerator() TextGenerator
	Reranker() Reranker

	// Close releases resources held by the provider and its services.
	Close() error
}
