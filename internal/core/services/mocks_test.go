package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

var errProvider = errors.New("provider down")

// mockSource implements driven.DocumentSource for testing.
type mockSource struct {
	pages []domain.Page
	err   error
	paths []string
}

func (m *mockSource) Load(_ context.Context, path string) ([]domain.Page, error) {
	m.paths = append(m.paths, path)
	if m.err != nil {
		return nil, m.err
	}
	return m.pages, nil
}

// mockChunker implements driven.Chunker and records its input.
type mockChunker struct {
	blocks []domain.Block
	err    error
}

func (m *mockChunker) Name() string { return "mock" }

func (m *mockChunker) Chunk(blocks []domain.Block) ([]domain.Chunk, error) {
	m.blocks = blocks
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Chunk, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, domain.Chunk{Content: b.Text, Metadata: domain.CloneMetadata(b.Metadata)})
	}
	return out, nil
}

// mockEmbeddingService implements driven.EmbeddingService with fixed vectors per text.
type mockEmbeddingService struct {
	vectors  map[string][]float32
	fallback []float32
	embedErr error
	short    bool
	batches  [][]string
	queries  []string
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return append([]float32(nil), v...)
	}
	return append([]float32(nil), m.fallback...)
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.queries = append(m.queries, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batches = append(m.batches, texts)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, m.vector(t))
	}
	if m.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.fallback)
}

func (m *mockEmbeddingService) ModelName() string { return "mock" }
func (m *mockEmbeddingService) Ping(context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error { return nil }

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err  error
	seen *domain.EmbeddingSettings
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.seen = config
	return m.err
}
