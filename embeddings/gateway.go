// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package embeddings

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/semaphore"
)

// Gateway is the only path from the contest core to an embedding provider.
// Every failure it returns wraps ErrUnavailable.
type Gateway struct {
	embedder  Embedder
	dimension int
	timeout   time.Duration
	slots     *semaphore.Weighted
}

// NewGateway wraps embedder. dimension is the fixed vector length for the
// life of the contest; timeout bounds each call including the wait for a
// free slot; concurrency caps in-flight provider requests.
func NewGateway(embedder Embedder, dimension int, timeout time.Duration, concurrency int) *Gateway {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Gateway{
		embedder:  embedder,
		dimension: dimension,
		timeout:   timeout,
		slots:     semaphore.NewWeighted(int64(concurrency)),
	}
}

// OpenGateway builds the provider client named by cfg.Provider and wraps it
// with cfg's dimension, timeout, and concurrency.
func OpenGateway(ctx context.Context, cfg Config) (*Gateway, error) {
	embedder, err := NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewGateway(embedder, cfg.Dimension, cfg.Timeout, cfg.Concurrency), nil
}

// Embed issues exactly one provider request for text. No retries.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: waiting for %s: %w", ErrUnavailable, g.embedder.Name(), err)
	}
	defer g.slots.Release(1)

	vec, err := g.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, g.embedder.Name(), err)
	}

	if len(vec) != g.dimension {
		return nil, fmt.Errorf("%w: %s returned %d dimensions, want %d: %w",
			ErrUnavailable, g.embedder.Name(), len(vec), g.dimension, ErrDimensionMismatch)
	}

	for i, x := range vec {
		if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %s returned non-finite component at %d: %w",
				ErrUnavailable, g.embedder.Name(), i, ErrNonFinite)
		}
	}

	return vec, nil
}

// Name identifies the wrapped provider for logs
func (g *Gateway) Name() string {
	return g.embedder.Name()
}

// Dimension returns the configured vector length
func (g *Gateway) Dimension() int {
	return g.dimension
}
