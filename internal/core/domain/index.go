package domain

import "fmt"

// VectorRecord is one (vector, payload) pair handed to the vector index.
type VectorRecord struct {
	Vector []float32
	Chunk  Chunk
}

// IndexEntry is the unit stored inside the vector index.
// The index owns Vector and Chunk; neither aliases caller memory.
type IndexEntry struct {
	// ID is the opaque identifier assigned at insertion time.
	ID string

	// Vector has exactly the index dimension.
	Vector []float32

	// Chunk is the payload returned by search.
	Chunk Chunk
}

// Clone returns a deep copy of the entry.
func (e IndexEntry) Clone() IndexEntry {
	vec := make([]float32, len(e.Vector))
	copy(vec, e.Vector)
	return IndexEntry{ID: e.ID, Vector: vec, Chunk: e.Chunk.Clone()}
}

// IndexSnapshot is the full persisted state of a vector index.
type IndexSnapshot struct {
	// Dimension is the fixed vector length.
	Dimension int

	// Entries are in insertion order.
	Entries []IndexEntry
}

// Validate checks the snapshot is internally consistent.
func (s *IndexSnapshot) Validate() error {
	if s.Dimension < 1 || len(s.Entries) == 0 {
		return ErrCorruptData
	}
	for i := range s.Entries {
		if len(s.Entries[i].Vector) != s.Dimension {
			return ErrCorruptData
		}
	}
	return nil
}

// CheckPayloads returns ErrInvalidInput when a payload is not valid UTF-8.
// Only valid UTF-8 text round-trips unchanged through the persisted formats.
func (s *IndexSnapshot) CheckPayloads() error {
	for i := range s.Entries {
		if !s.Entries[i].Chunk.ValidUTF8() {
			return fmt.Errorf("entry %d: %w: payload is not valid UTF-8", i, ErrInvalidInput)
		}
	}
	return nil
}

// ScoredChunk is a search hit with its similarity score.
type ScoredChunk struct {
	// ID is the index entry identifier.
	ID string `json:"id"`

	// Chunk is the stored payload.
	Chunk Chunk `json:"chunk"`

	// Score is the dot product with the query, in [-1, 1] for unit vectors.
	Score float64 `json:"score"`
}

// IndexStats summarises the state of a vector index.
type IndexStats struct {
	Ready     bool   `json:"ready"`
	Count     int    `json:"count"`
	Dimension int    `json:"dimension"`
	Path      string `json:"path,omitempty"`
	Format    string `json:"format,omitempty"`
}
