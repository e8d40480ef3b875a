package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
	"github.com/custodia-labs/paperdex/internal/core/ports/driving"
	"github.com/custodia-labs/paperdex/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexConfig locates the persisted index.
type IndexConfig struct {
	Path      string
	Format    domain.IndexFormat
	BatchSize int

	// Store, when set, lets Remove delete the persisted index.
	Store driven.IndexStore
}

// IndexService embeds chunks into a vector index and persists it.
type IndexService struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	cfg      IndexConfig
}

// NewIndexService creates a new index service.
func NewIndexService(index driven.VectorIndex, embedder driven.EmbeddingService, cfg IndexConfig) *IndexService {
	if cfg.Path == "" {
		cfg.Path = domain.DefaultIndexPath
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = domain.DefaultBatchSize
	}
	if cfg.Format == "" && cfg.Store != nil {
		cfg.Format = cfg.Store.Format()
	}
	return &IndexService{
		index:    index,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Build embeds the chunks in batches and inserts them as one batch.
// Nothing is inserted if any embedding call fails.
func (s *IndexService) Build(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	if s.embedder == nil {
		return 0, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	logger.Section("Indexing")
	done := logger.Timed(fmt.Sprintf("embedding %d chunks", len(chunks)))
	records := make([]domain.VectorRecord, 0, len(chunks))
	for start := 0; start < len(chunks); start += s.cfg.BatchSize {
		end := min(start+s.cfg.BatchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			done()
			return 0, fmt.Errorf("%w: embed chunks %d-%d: %w", domain.ErrEmbeddingUnavailable, start, end-1, err)
		}
		if len(vectors) != len(texts) {
			done()
			return 0, fmt.Errorf("%w: provider returned %d vectors for %d chunks",
				domain.ErrEmbeddingUnavailable, len(vectors), len(texts))
		}
		for i, v := range vectors {
			records = append(records, domain.VectorRecord{Vector: v, Chunk: chunks[start+i]})
		}
		logger.Debug("embedded chunks %d-%d", start, end-1)
	}
	done()

	ids, err := s.index.Insert(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	logger.Debug("index holds %d entries of dimension %d", s.index.Len(), s.index.Dimension())
	return len(ids), nil
}

// Save persists the index to the configured path.
func (s *IndexService) Save(ctx context.Context) error {
	if err := s.index.Save(ctx, s.cfg.Path); err != nil {
		return fmt.Errorf("save index to %s: %w", s.cfg.Path, err)
	}
	logger.Debug("saved %d entries to %s", s.index.Len(), s.cfg.Path)
	return nil
}

// Load replaces the in-memory index with the one at the configured path.
func (s *IndexService) Load(ctx context.Context) error {
	if err := s.index.Load(ctx, s.cfg.Path); err != nil {
		return fmt.Errorf("load index from %s: %w", s.cfg.Path, err)
	}
	logger.Debug("loaded %d entries from %s", s.index.Len(), s.cfg.Path)
	return nil
}

// Remove deletes the persisted index and empties the in-memory one.
func (s *IndexService) Remove(ctx context.Context) error {
	if s.cfg.Store == nil {
		return fmt.Errorf("%w: no index store configured", domain.ErrConfiguration)
	}
	if err := s.cfg.Store.Delete(ctx, s.cfg.Path); err != nil {
		return fmt.Errorf("remove index at %s: %w", s.cfg.Path, err)
	}
	s.index.Clear()
	logger.Debug("removed index at %s", s.cfg.Path)
	return nil
}

// Clear empties the in-memory index.
func (s *IndexService) Clear() {
	s.index.Clear()
}

// Stats describes the in-memory index.
func (s *IndexService) Stats() domain.IndexStats {
	n := s.index.Len()
	return domain.IndexStats{
		Ready:     n > 0,
		Count:     n,
		Dimension: s.index.Dimension(),
		Path:      s.cfg.Path,
		Format:    s.cfg.Format.String(),
	}
}
