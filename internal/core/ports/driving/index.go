package driving

import (
	"context"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// IndexService builds and persists the vector index.
type IndexService interface {
	// Build embeds chunks and inserts them as one batch.
	// Returns the number of entries added.
	Build(ctx context.Context, chunks []domain.Chunk) (int, error)

	// Save persists the index to the configured path.
	Save(ctx context.Context) error

	// Load replaces the in-memory index with the persisted one.
	Load(ctx context.Context) error

	// Remove deletes the persisted index and empties the in-memory one.
	Remove(ctx context.Context) error

	// Clear empties the in-memory index.
	Clear()

	// Stats describes the in-memory index.
	Stats() domain.IndexStats
}
