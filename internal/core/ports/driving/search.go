package driving

import (
	"context"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// SearchService provides semantic search to external actors.
type SearchService interface {
	// Search returns the k most similar chunks with scores.
	// A k of zero or less uses the configured default.
	Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)

	// Retrieve returns the k most similar chunks without scores.
	Retrieve(ctx context.Context, query string, k int) ([]domain.Chunk, error)
}
