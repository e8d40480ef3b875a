package sqlite

import (
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperdex/internal/adapters/driven/index/flat"
	"github.com/custodia-labs/paperdex/internal/core/domain"
)

func sampleSnapshot() *domain.IndexSnapshot {
	return &domain.IndexSnapshot{
		Dimension: 2,
		Entries: []domain.IndexEntry{
			{ID: "a", Vector: []float32{0.6, 0.8}, Chunk: domain.Chunk{
				Content: "first", Metadata: map[string]string{"source_section": "abstract"}}},
			{ID: "b", Vector: []float32{float32(math.Sqrt2) / 2, -float32(math.Sqrt2) / 2}, Chunk: domain.Chunk{
				Content: "second\nline", Metadata: map[string]string{"source_section": "results", "page": "2"}}},
			{ID: "c", Vector: []float32{0, 1}, Chunk: domain.Chunk{
				Content: "third", Metadata: map[string]string{}}},
		},
	}
}

// setupTestIndex writes the sample snapshot to a temporary directory.
func setupTestIndex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index")
	require.NoError(t, NewStore().Write(context.Background(), path, sampleSnapshot()))
	return path
}

func TestStore_Format(t *testing.T) {
	assert.Equal(t, domain.IndexFormatSQLite, NewStore().Format())
}

func TestStore_RoundTrip(t *testing.T) {
	path := setupTestIndex(t)

	got, err := NewStore().Read(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}

func TestStore_WriteRejectsInvalidUTF8(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index")

	snap := sampleSnapshot()
	snap.Entries[2].Chunk.Metadata["title"] = "x\xff"

	assert.ErrorIs(t, NewStore().Write(ctx, path, snap), domain.ErrInvalidInput)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_ReadMissing(t *testing.T) {
	_, err := NewStore().Read(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_OverwriteReplaces(t *testing.T) {
	ctx := context.Background()
	path := setupTestIndex(t)

	next := &domain.IndexSnapshot{
		Dimension: 3,
		Entries: []domain.IndexEntry{{ID: "z", Vector: []float32{1, 0, 0},
			Chunk: domain.Chunk{Content: "new", Metadata: map[string]string{}}}},
	}
	require.NoError(t, NewStore().Write(ctx, path, next))

	got, err := NewStore().Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, next, got)
}

func TestStore_CorruptData(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"count mismatch", "UPDATE index_meta SET value = '5' WHERE key = 'count'"},
		{"dimension mismatch", "UPDATE index_meta SET value = '3' WHERE key = 'dimension'"},
		{"unknown format", "UPDATE index_meta SET value = 'faiss' WHERE key = 'format'"},
		{"short vector", "UPDATE index_entries SET vector = X'0000' WHERE id = 'b'"},
		{"bad metadata", "UPDATE index_entries SET metadata = 'not json' WHERE id = 'a'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := setupTestIndex(t)

			db, err := sql.Open("sqlite", filepath.Join(path, DBFile))
			require.NoError(t, err)
			_, err = db.Exec(tt.sql)
			require.NoError(t, err)
			require.NoError(t, db.Close())

			_, err = NewStore().Read(context.Background(), path)
			assert.ErrorIs(t, err, domain.ErrCorruptData)
		})
	}
}

func TestStore_NotADatabase(t *testing.T) {
	path := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(path, DBFile), []byte("definitely not sqlite"), 0o644))

	_, err := NewStore().Read(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrCorruptData)
}

func TestStore_WithFlatIndex(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "idx")

	ix := flat.New(NewStore())
	_, err := ix.Insert(ctx, []domain.VectorRecord{
		{Vector: []float32{1, 0}, Chunk: domain.Chunk{Content: "x", Metadata: map[string]string{}}},
		{Vector: []float32{0, 1}, Chunk: domain.Chunk{Content: "y", Metadata: map[string]string{}}},
	})
	require.NoError(t, err)
	require.NoError(t, ix.Save(ctx, path))

	loaded := flat.New(NewStore())
	require.NoError(t, loaded.Load(ctx, path))
	assert.Equal(t, ix.Entries(), loaded.Entries())
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	path := setupTestIndex(t)

	require.NoError(t, NewStore().Delete(ctx, path))
	assert.NoDirExists(t, path)

	_, err := NewStore().Read(ctx, path)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DeleteIgnoresBundleDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "header.toml"), []byte("x"), 0o600))

	err := NewStore().Delete(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.DirExists(t, path)
}
