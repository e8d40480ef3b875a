package driven

import (
	"context"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// VectorIndex stores chunk vectors with their payloads and answers
// nearest-neighbour queries by dot product.
//
// The index starts uninitialized. The first non-empty Insert fixes its
// dimension and makes it ready; Clear is the only way back. Callers depend
// only on this contract, so an approximate index can replace the exact one.
type VectorIndex interface {
	// Insert appends records in order and returns their assigned IDs.
	// The batch is all-or-nothing: on ErrDimensionMismatch nothing is stored.
	Insert(ctx context.Context, records []domain.VectorRecord) ([]string, error)

	// Search returns up to k payloads ranked by descending similarity,
	// ties broken by insertion order. Returns ErrNotInitialized when empty.
	Search(ctx context.Context, query []float32, k int) ([]domain.Chunk, error)

	// SearchWithScores ranks like Search and pairs each payload with its score.
	SearchWithScores(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error)

	// Save persists all entries and the dimension to path.
	// Returns ErrNotInitialized when the index is empty.
	Save(ctx context.Context, path string) error

	// Load replaces the in-memory state with the data persisted at path.
	// Returns ErrNotFound when nothing is persisted there.
	Load(ctx context.Context, path string) error

	// Clear discards all entries and resets the dimension.
	Clear()

	// Len returns the number of stored entries.
	Len() int

	// Dimension returns the fixed vector length, or 0 when uninitialized.
	Dimension() int
}

// IndexStore encodes and decodes index snapshots at a filesystem path.
type IndexStore interface {
	// Write publishes snap at path, replacing anything already there.
	// A failed write leaves any previous data at path untouched.
	Write(ctx context.Context, path string, snap *domain.IndexSnapshot) error

	// Read decodes the snapshot at path.
	// Returns ErrNotFound when nothing is persisted and ErrCorruptData on validation failure.
	Read(ctx context.Context, path string) (*domain.IndexSnapshot, error)

	// Delete removes the persisted index at path.
	// Returns ErrNotFound when path holds no index of this format.
	Delete(ctx context.Context, path string) error

	// Format names the encoding.
	Format() domain.IndexFormat
}
