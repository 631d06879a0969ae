package ai

import "errors"

var (
	// ErrInvalidConfig indicates an incomplete or inconsistent Config.
	ErrInvalidConfig = errors.New("ai config")

	// ErrEmptyEmbedding indicates the backend returned no vector for an input.
	ErrEmptyEmbedding = errors.New("empty embedding")

	// ErrMalformedResponse indicates a provider reply that does not match
	// the expected shape.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrProviderUnavailable indicates a provider returned a non-success status.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
