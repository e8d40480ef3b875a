package embedding

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
	assert.InDelta(t, 1.0, norm(v), 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestFromFloat64(t *testing.T) {
	v := FromFloat64([]float64{0, 2, 0})
	assert.Equal(t, []float32{0, 1, 0}, v)
}

func TestCheckBatch(t *testing.T) {
	assert.NoError(t, CheckBatch([][]float32{{1, 0}, {0, 1}}, 2, 2))
	assert.NoError(t, CheckBatch([][]float32{{1, 0}, {0, 1}}, 2, 0))
	assert.Error(t, CheckBatch([][]float32{{1, 0}}, 2, 2))
	assert.ErrorIs(t, CheckBatch([][]float32{{1, 0}, {1}}, 2, 0), domain.ErrDimensionMismatch)
}

type countingService struct {
	calls int
}

func (c *countingService) Embed(context.Context, string) ([]float32, error) {
	c.calls++
	return []float32{1}, nil
}

func (c *countingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.calls++
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1}
	}
	return out, nil
}

func (c *countingService) Dimensions() int { return 1 }
func (c *countingService) ModelName() string { return "counting" }
func (c *countingService) Ping(context.Context) error { return nil }
func (c *countingService) Close() error { return nil }

func TestRateLimited_Delegates(t *testing.T) {
	inner := &countingService{}
	rl := NewRateLimited(inner, 1000, 5)

	_, err := rl.Embed(context.Background(), "a")
	require.NoError(t, err)
	vecs, err := rl.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	assert.Len(t, vecs, 2)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, "counting", rl.ModelName())
	assert.Equal(t, 1, rl.Dimensions())
}

func TestRateLimited_RespectsContext(t *testing.T) {
	inner := &countingService{}
	rl := NewRateLimited(inner, 0.001, 1)

	_, err := rl.Embed(context.Background(), "uses the only token")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = rl.Embed(ctx, "must wait")

	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
