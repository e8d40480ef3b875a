// Package flat provides an exact, in-memory vector index.
//
// Every search scores the query against all stored vectors by dot product.
// At the scale of a single paper (hundreds of chunks) this is fast enough
// and gives exact rankings. Persistence is delegated to a driven.IndexStore.
package flat

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact k-NN vector index.
// It is safe for concurrent readers and a single writer.
type Index struct {
	mu        sync.RWMutex
	store     driven.IndexStore
	dimension int
	entries   []domain.IndexEntry
	newID     func() string
}

// Option configures an Index.
type Option func(*Index)

// WithIDGenerator replaces the UUID generator used for entry IDs.
func WithIDGenerator(fn func() string) Option {
	return func(ix *Index) {
		ix.newID = fn
	}
}

// New creates an empty, uninitialized index persisted through store.
func New(store driven.IndexStore, opts ...Option) *Index {
	ix := &Index{
		store: store,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Insert appends records in order and returns their IDs.
// The first record of the first non-empty batch fixes the dimension.
// Nothing is stored unless every vector in the batch has that dimension.
func (ix *Index) Insert(_ context.Context, records []domain.VectorRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	dim := ix.dimension
	if dim == 0 {
		dim = len(records[0].Vector)
	}
	if dim == 0 {
		return nil, fmt.Errorf("insert: %w: empty vector", domain.ErrInvalidInput)
	}
	for i := range records {
		if n := len(records[i].Vector); n != dim {
			return nil, fmt.Errorf("insert record %d: %w: got %d, want %d",
				i, domain.ErrDimensionMismatch, n, dim)
		}
		if !records[i].Chunk.ValidUTF8() {
			return nil, fmt.Errorf("insert record %d: %w: payload is not valid UTF-8",
				i, domain.ErrInvalidInput)
		}
	}

	ids := make([]string, len(records))
	added := make([]domain.IndexEntry, len(records))
	for i := range records {
		ids[i] = ix.newID()
		added[i] = domain.IndexEntry{
			ID:     ids[i],
			Vector: records[i].Vector,
			Chunk:  records[i].Chunk,
		}.Clone()
	}

	ix.dimension = dim
	ix.entries = append(ix.entries, added...)
	return ids, nil
}

// Search returns the k best payloads.
func (ix *Index) Search(ctx context.Context, query []float32, k int) ([]domain.Chunk, error) {
	hits, err := ix.SearchWithScores(ctx, query, k)
	if err != nil {
		return nil, err
	}
	chunks := make([]domain.Chunk, len(hits))
	for i := range hits {
		chunks[i] = hits[i].Chunk
	}
	return chunks, nil
}

// SearchWithScores returns the k best payloads with their dot-product scores.
// Equal scores keep insertion order. k larger than the entry count returns all entries.
func (ix *Index) SearchWithScores(_ context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.entries) == 0 {
		return nil, fmt.Errorf("search: %w", domain.ErrNotInitialized)
	}
	if k < 1 {
		return nil, fmt.Errorf("search: %w: k must be at least 1, got %d", domain.ErrInvalidInput, k)
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("search: %w: query has %d values, index has %d",
			domain.ErrDimensionMismatch, len(query), ix.dimension)
	}

	type scored struct {
		pos   int
		score float64
	}
	ranked := make([]scored, len(ix.entries))
	for i := range ix.entries {
		ranked[i] = scored{pos: i, score: dot(query, ix.entries[i].Vector)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	n := min(k, len(ranked))
	out := make([]domain.ScoredChunk, n)
	for i := 0; i < n; i++ {
		e := &ix.entries[ranked[i].pos]
		out[i] = domain.ScoredChunk{
			ID:    e.ID,
			Chunk: e.Chunk.Clone(),
			Score: ranked[i].score,
		}
	}
	return out, nil
}

// Save persists the index through the configured store.
func (ix *Index) Save(ctx context.Context, path string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.entries) == 0 {
		return fmt.Errorf("save: %w", domain.ErrNotInitialized)
	}

	snap := &domain.IndexSnapshot{
		Dimension: ix.dimension,
		Entries:   ix.entries,
	}
	if err := ix.store.Write(ctx, path, snap); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load replaces the in-memory state with the snapshot at path.
// On error the current state is left unchanged.
func (ix *Index) Load(ctx context.Context, path string) error {
	snap, err := ix.store.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.dimension = snap.Dimension
	ix.entries = snap.Entries
	return nil
}

// Clear discards all entries and resets the dimension.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = nil
	ix.dimension = 0
}

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Dimension returns the fixed vector length, or 0 when uninitialized.
func (ix *Index) Dimension() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dimension
}

// Ready reports whether the index holds at least one entry.
func (ix *Index) Ready() bool {
	return ix.Len() > 0
}

// Entries returns deep copies of all entries in insertion order.
func (ix *Index) Entries() []domain.IndexEntry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]domain.IndexEntry, len(ix.entries))
	for i := range ix.entries {
		out[i] = ix.entries[i].Clone()
	}
	return out
}

// Format names the persistence format of the underlying store.
func (ix *Index) Format() domain.IndexFormat {
	return ix.store.Format()
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
