package sift

import "errors"

var (
	// ErrCorpusRequired is returned when a corpus is not provided.
	ErrCorpusRequired = errors.New("corpus required")

	// ErrIndexingUnavailable is returned by Sync when no embedding service
	// is configured.
	ErrIndexingUnavailable = errors.New("indexing unavailable: no embedding service configured")

	// ErrWatchRootRequired is returned by Watch when no directory is given
	// and the corpus is not a directory corpus.
	ErrWatchRootRequired = errors.New("watch directory required")
)
