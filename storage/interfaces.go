package storage

import (
	"context"

	"github.com/poiesic/sift/core"
)

// VectorIndex stores embeddings with their typed payloads and answers
// nearest-neighbor queries. Implementations must be thread-safe.
type VectorIndex interface {
	// Upsert inserts or replaces entries by ID. Every vector must have the
	// dimensionality of the vectors already stored; otherwise
	// ErrDimensionMismatch is returned and nothing is written.
	Upsert(ctx context.Context, entries ...core.VectorEntry) error

	// Search returns up to k entries ordered by cosine similarity to
	// vector, highest first.
	Search(ctx context.Context, vector []float32, k int) ([]core.VectorMatch, error)

	// Get retrieves a single entry. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*core.VectorEntry, error)

	// Delete removes entries by ID. Missing IDs are ignored.
	Delete(ctx context.Context, ids ...string) error

	// IDs returns the IDs of all stored entries.
	IDs(ctx context.Context) ([]string, error)

	// Payloads returns the payload of every stored entry keyed by ID.
	Payloads(ctx context.Context) (map[string]core.NodePayload, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}

// StateStore persists the search engine's saved searches and history as
// one document.
type StateStore interface {
	// Load returns the stored state, or an empty state if nothing was saved.
	Load(ctx context.Context) (*core.EngineState, error)

	// Save replaces the stored state with state.
	Save(ctx context.Context, state *core.EngineState) error
}
