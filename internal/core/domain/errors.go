package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Loading an index from a path with no persisted data returns this error.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates an invalid configuration value,
	// such as a chunk overlap that is not smaller than the chunk size.
	// It is returned at construction time, never from a call on a built value.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedFormat indicates the document source cannot produce text for the input type.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Vector Index Errors.

	// ErrNotInitialized indicates search or save on an index with no entries.
	ErrNotInitialized = errors.New("vector index not initialized")

	// ErrDimensionMismatch indicates a vector whose length disagrees with the
	// dimension established by the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCorruptData indicates persisted index data failed header or size validation.
	ErrCorruptData = errors.New("corrupt index data")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or cannot be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
