package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
	"github.com/custodia-labs/paperdex/internal/core/ports/driving"
	"github.com/custodia-labs/paperdex/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks indexed chunks against a text query.
type SearchService struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	topK     int
}

// NewSearchService creates a new search service.
// A topK below one uses domain.DefaultTopK.
func NewSearchService(index driven.VectorIndex, embedder driven.EmbeddingService, topK int) *SearchService {
	if topK < 1 {
		topK = domain.DefaultTopK
	}
	return &SearchService{
		index:    index,
		embedder: embedder,
		topK:     topK,
	}
}

// Search returns the k most similar chunks with their scores.
func (s *SearchService) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	vec, k, err := s.embedQuery(ctx, query, k)
	if err != nil {
		return nil, err
	}

	results, err := s.index.SearchWithScores(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	logger.Debug("query %q: %d results", query, len(results))
	return results, nil
}

// Retrieve returns the k most similar chunks without scores.
func (s *SearchService) Retrieve(ctx context.Context, query string, k int) ([]domain.Chunk, error) {
	vec, k, err := s.embedQuery(ctx, query, k)
	if err != nil {
		return nil, err
	}

	chunks, err := s.index.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	return chunks, nil
}

func (s *SearchService) embedQuery(ctx context.Context, query string, k int) ([]float32, int, error) {
	if strings.TrimSpace(query) == "" {
		return nil, 0, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = s.topK
	}
	if s.embedder == nil {
		return nil, 0, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: embed query: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return vec, k, nil
}
