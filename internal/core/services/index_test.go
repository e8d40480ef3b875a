package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperdex/internal/adapters/driven/index/flat"
	"github.com/custodia-labs/paperdex/internal/adapters/driven/storage/bundle"
	"github.com/custodia-labs/paperdex/internal/core/domain"
)

func chunksN(n int) []domain.Chunk {
	out := make([]domain.Chunk, n)
	for i := range out {
		out[i] = domain.Chunk{
			Content:  fmt.Sprintf("chunk %d", i),
			Metadata: map[string]string{domain.MetaChunkIndex: fmt.Sprint(i)},
		}
	}
	return out
}

func newTestIndexService(t *testing.T, emb *mockEmbeddingService, batch int) (*IndexService, *flat.Index) {
	t.Helper()
	store := bundle.New()
	ix := flat.New(store)
	svc := NewIndexService(ix, emb, IndexConfig{
		Path:      filepath.Join(t.TempDir(), "paper_index"),
		BatchSize: batch,
		Store:     store,
	})
	return svc, ix
}

func TestNewIndexService_Defaults(t *testing.T) {
	svc := NewIndexService(flat.New(bundle.New()), nil, IndexConfig{})

	assert.Equal(t, domain.DefaultIndexPath, svc.cfg.Path)
	assert.Equal(t, domain.DefaultBatchSize, svc.cfg.BatchSize)
}

func TestIndexService_Build_Batches(t *testing.T) {
	emb := &mockEmbeddingService{fallback: []float32{1, 0}}
	svc, ix := newTestIndexService(t, emb, 2)

	n, err := svc.Build(context.Background(), chunksN(5))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, 5, ix.Len())
	require.Len(t, emb.batches, 3)
	assert.Equal(t, []string{"chunk 0", "chunk 1"}, emb.batches[0])
	assert.Equal(t, []string{"chunk 4"}, emb.batches[2])

	entries := ix.Entries()
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("chunk %d", i), e.Chunk.Content, "insertion order kept")
	}
}

func TestIndexService_Build_Appends(t *testing.T) {
	emb := &mockEmbeddingService{fallback: []float32{1, 0}}
	svc, ix := newTestIndexService(t, emb, 10)

	_, err := svc.Build(context.Background(), chunksN(2))
	require.NoError(t, err)
	_, err = svc.Build(context.Background(), chunksN(3))
	require.NoError(t, err)

	assert.Equal(t, 5, ix.Len())
}

func TestIndexService_Build_Empty(t *testing.T) {
	emb := &mockEmbeddingService{fallback: []float32{1}}
	svc, ix := newTestIndexService(t, emb, 10)

	n, err := svc.Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, ix.Len())
	assert.Empty(t, emb.batches)
}

func TestIndexService_Build_EmbedError(t *testing.T) {
	emb := &mockEmbeddingService{fallback: []float32{1}, embedErr: errProvider}
	svc, ix := newTestIndexService(t, emb, 10)

	_, err := svc.Build(context.Background(), chunksN(3))

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, errProvider)
	assert.Zero(t, ix.Len())
}

func TestIndexService_Build_ShortBatch(t *testing.T) {
	emb := &mockEmbeddingService{fallback: []float32{1}, short: true}
	svc, ix := newTestIndexService(t, emb, 10)

	_, err := svc.Build(context.Background(), chunksN(3))

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Zero(t, ix.Len())
}

func TestIndexService_Build_DimensionMismatch(t *testing.T) {
	emb := &mockEmbeddingService{fallback: []float32{1, 0}}
	svc, ix := newTestIndexService(t, emb, 10)
	_, err := svc.Build(context.Background(), chunksN(2))
	require.NoError(t, err)

	emb.fallback = []float32{1, 0, 0}
	_, err = svc.Build(context.Background(), chunksN(2))

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 2, ix.Len(), "failed batch leaves index unchanged")
}

func TestIndexService_Build_NoEmbedder(t *testing.T) {
	svc := NewIndexService(flat.New(bundle.New()), nil, IndexConfig{})

	_, err := svc.Build(context.Background(), chunksN(1))
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIndexService_SaveLoad(t *testing.T) {
	emb := &mockEmbeddingService{fallback: []float32{0.6, 0.8}}
	svc, ix := newTestIndexService(t, emb, 10)
	ctx := context.Background()

	_, err := svc.Build(ctx, chunksN(3))
	require.NoError(t, err)
	before := ix.Entries()
	require.NoError(t, svc.Save(ctx))

	svc.Clear()
	assert.False(t, svc.Stats().Ready)

	require.NoError(t, svc.Load(ctx))
	assert.Equal(t, before, ix.Entries())
}

func TestIndexService_Save_Empty(t *testing.T) {
	svc, _ := newTestIndexService(t, &mockEmbeddingService{}, 10)

	err := svc.Save(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestIndexService_Load_Missing(t *testing.T) {
	svc, _ := newTestIndexService(t, &mockEmbeddingService{}, 10)

	err := svc.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexService_Stats(t *testing.T) {
	emb := &mockEmbeddingService{fallback: []float32{1, 0, 0}}
	svc, _ := newTestIndexService(t, emb, 10)

	stats := svc.Stats()
	assert.False(t, stats.Ready)
	assert.Zero(t, stats.Count)
	assert.Equal(t, "bundle", stats.Format)

	_, err := svc.Build(context.Background(), chunksN(4))
	require.NoError(t, err)

	stats = svc.Stats()
	assert.True(t, stats.Ready)
	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 3, stats.Dimension)
	assert.Equal(t, svc.cfg.Path, stats.Path)
}

func TestIndexService_Remove(t *testing.T) {
	emb := &mockEmbeddingService{fallback: []float32{1, 0}}
	svc, ix := newTestIndexService(t, emb, 10)
	ctx := context.Background()

	_, err := svc.Build(ctx, chunksN(2))
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx))

	require.NoError(t, svc.Remove(ctx))
	assert.Zero(t, ix.Len())
	assert.NoDirExists(t, svc.cfg.Path)

	err = svc.Remove(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexService_Remove_NoStore(t *testing.T) {
	svc := NewIndexService(flat.New(bundle.New()), nil, IndexConfig{})

	err := svc.Remove(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
