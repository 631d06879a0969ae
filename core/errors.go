package core

import "errors"

var (
	// ErrInvalidOptions indicates SearchOptions failed validation.
	ErrInvalidOptions = errors.New("invalid search options")

	// ErrEmptyQuery indicates the query text is empty after trimming.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidSearchType indicates an unknown search strategy selector.
	ErrInvalidSearchType = errors.New("invalid search type")

	// ErrInvalidSortBy indicates an unknown sort key.
	ErrInvalidSortBy = errors.New("invalid sort key")

	// ErrInvalidSortOrder indicates an unknown sort direction.
	ErrInvalidSortOrder = errors.New("invalid sort order")

	// ErrInvalidDateRange indicates a date range whose start is after its end.
	ErrInvalidDateRange = errors.New("date range start is after end")

	// ErrInvalidThreshold indicates a rerank threshold outside [0,1].
	ErrInvalidThreshold = errors.New("rerank threshold must be between 0 and 1")

	// ErrInvalidSavedSearch indicates a SavedSearch failed validation.
	ErrInvalidSavedSearch = errors.New("invalid saved search")

	// ErrEmptySavedSearchName indicates a saved search without a name.
	ErrEmptySavedSearchName = errors.New("saved search name cannot be empty")

	// ErrNegativeLength indicates a corrupt length prefix in serialized data.
	ErrNegativeLength = errors.New("negative length")

	// ErrTruncated indicates serialized data ended before a value was complete.
	ErrTruncated = errors.New("truncated data")
)
