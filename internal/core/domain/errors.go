package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotBuilt indicates a search against an index that has not
	// been built. Queries surface this to the caller; it is never
	// silently degraded.
	ErrNotBuilt = errors.New("index not built")

	// ErrDimensionMismatch indicates an embedding whose length does
	// not match the vector index's configured dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptIndex indicates a persisted snapshot that failed
	// referential integrity checks or is otherwise malformed. Fatal
	// to the load call; the caller decides whether to rebuild.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Vector and hybrid search are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation service is not
	// configured. Answer generation is disabled without it.
	ErrGenerationUnavailable = errors.New("generation service unavailable")
)
