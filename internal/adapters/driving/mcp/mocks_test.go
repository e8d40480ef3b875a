package mcp

import (
	"context"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.ScoredChunk
	err     error
	lastK   int
}

func (m *mockSearchService) Search(_ context.Context, _ string, k int) ([]domain.ScoredChunk, error) {
	m.lastK = k
	return m.results, m.err
}

func (m *mockSearchService) Retrieve(ctx context.Context, query string, k int) ([]domain.Chunk, error) {
	scored, err := m.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Chunk, len(scored))
	for i := range scored {
		out[i] = scored[i].Chunk
	}
	return out, nil
}

// mockIndexService is a mock implementation of driving.IndexService.
// Load copies persisted into stats.
type mockIndexService struct {
	stats     domain.IndexStats
	persisted *domain.IndexStats
	loadErr   error
	loads     int
}

func (m *mockIndexService) Build(_ context.Context, chunks []domain.Chunk) (int, error) {
	return len(chunks), nil
}

func (m *mockIndexService) Save(_ context.Context) error {
	return nil
}

func (m *mockIndexService) Load(_ context.Context) error {
	m.loads++
	if m.loadErr != nil {
		return m.loadErr
	}
	if m.persisted == nil {
		return domain.ErrNotFound
	}
	m.stats = *m.persisted
	return nil
}

func (m *mockIndexService) Remove(_ context.Context) error {
	m.persisted = nil
	m.stats = domain.IndexStats{}
	return nil
}

func (m *mockIndexService) Clear() {
	m.stats = domain.IndexStats{Path: m.stats.Path, Format: m.stats.Format}
}

func (m *mockIndexService) Stats() domain.IndexStats {
	return m.stats
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	sections *domain.Sections
	err      error
}

func (m *mockIngestService) Process(
	_ context.Context,
	_ string,
	_ domain.IngestOptions,
) (*domain.IngestResult, error) {
	return &domain.IngestResult{Sections: m.sections}, m.err
}

func (m *mockIngestService) ProcessPages(
	_ context.Context,
	_ []domain.Page,
	_ domain.IngestOptions,
) (*domain.IngestResult, error) {
	return &domain.IngestResult{Sections: m.sections}, m.err
}

func (m *mockIngestService) Sections(_ context.Context, _ string) (*domain.Sections, error) {
	return m.sections, m.err
}
