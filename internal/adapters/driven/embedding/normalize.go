// Package embedding holds helpers shared by the embedding service adapters.
package embedding

import (
	"fmt"
	"math"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

// Normalize scales v in place to unit length and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}

// FromFloat64 converts and normalises a float64 vector.
func FromFloat64(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return Normalize(out)
}

// CheckBatch verifies a provider returned one vector per input, all of length dim.
// A dim of zero accepts any consistent length.
func CheckBatch(vectors [][]float32, inputs, dim int) error {
	if len(vectors) != inputs {
		return fmt.Errorf("provider returned %d embeddings for %d inputs", len(vectors), inputs)
	}
	for i, v := range vectors {
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return fmt.Errorf("embedding %d: %w: got %d, want %d", i, domain.ErrDimensionMismatch, len(v), dim)
		}
	}
	return nil
}
