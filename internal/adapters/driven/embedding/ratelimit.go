package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
)

// Ensure RateLimited implements the interface.
var _ driven.EmbeddingService = (*RateLimited)(nil)

// RateLimited wraps an embedding service with a token bucket limiter.
// Each Embed or EmbedBatch call consumes one token.
type RateLimited struct {
	driven.EmbeddingService
	limiter *rate.Limiter
}

// NewRateLimited limits svc to rps calls per second with the given burst.
// A burst below one is raised to one.
func NewRateLimited(svc driven.EmbeddingService, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		EmbeddingService: svc,
		limiter:          rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Embed waits for a token, then delegates.
func (r *RateLimited) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return r.EmbeddingService.Embed(ctx, text)
}

// EmbedBatch waits for a token, then delegates.
func (r *RateLimited) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return r.EmbeddingService.EmbedBatch(ctx, texts)
}
