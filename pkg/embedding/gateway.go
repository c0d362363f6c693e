package embedding

import (
	"context"
	"fmt"
	"sync"

	"docqa-be/pkg/vector"
)

// Gateway wraps a Provider with the guarantees the rest of the system
// relies on: one batched call per document, count parity between inputs and
// outputs, unit-normalized vectors, and a dimensionality that is locked for
// the lifetime of the process once observed. It never retries.
type Gateway struct {
	provider Provider

	mu  sync.Mutex
	dim int // 0 until configured or first observed
}

// NewGateway creates a gateway. dim 0 means the dimension is inferred from
// the first successful response and locked from then on.
func NewGateway(provider Provider, dim int) *Gateway {
	return &Gateway{provider: provider, dim: dim}
}

// Embed embeds all texts in one provider call and validates the result.
func (g *Gateway) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := g.provider.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding provider: got %d vectors for %d inputs", len(vectors), len(texts))
	}

	for i, v := range vectors {
		if err := g.checkDimension(len(v)); err != nil {
			return nil, err
		}
		vectors[i] = vector.Normalize(v)
	}
	return vectors, nil
}

// EmbedOne embeds a single query text.
func (g *Gateway) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimension returns the locked output dimension, 0 if nothing has been
// embedded yet.
func (g *Gateway) Dimension() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dim
}

func (g *Gateway) checkDimension(got int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if got == 0 {
		return fmt.Errorf("embedding provider: returned an empty vector")
	}
	if g.dim == 0 {
		g.dim = got
		return nil
	}
	if got != g.dim {
		return fmt.Errorf("embedding provider: dimension changed from %d to %d", g.dim, got)
	}
	return nil
}
