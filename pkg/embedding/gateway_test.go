package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
)

type fakeProvider struct {
	vectors [][]float32
	err     error
	calls   int
}

func (f *fakeProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}

func TestGatewayBatchesInOneCall(t *testing.T) {
	fake := &fakeProvider{vectors: [][]float32{{1, 0}, {0, 1}, {1, 1}}}
	g := NewGateway(fake, 0)

	vectors, err := g.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("provider called %d times, want 1", fake.calls)
	}
	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
}

func TestGatewayNormalizesVectors(t *testing.T) {
	fake := &fakeProvider{vectors: [][]float32{{3, 4}}}
	g := NewGateway(fake, 0)

	vectors, err := g.Embed(context.Background(), []string{"a"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	var mag float64
	for _, v := range vectors[0] {
		mag += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(mag)-1) > 1e-6 {
		t.Fatalf("vector magnitude = %v, want 1", math.Sqrt(mag))
	}
}

func TestGatewayCountMismatch(t *testing.T) {
	fake := &fakeProvider{vectors: [][]float32{{1, 0}}}
	g := NewGateway(fake, 0)

	if _, err := g.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected an error on input/output count mismatch")
	}
}

func TestGatewayProviderError(t *testing.T) {
	fake := &fakeProvider{err: errors.New("connection refused")}
	g := NewGateway(fake, 0)

	if _, err := g.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected the provider error to propagate")
	}
}

func TestGatewayLocksDimension(t *testing.T) {
	fake := &fakeProvider{vectors: [][]float32{{1, 0, 0}}}
	g := NewGateway(fake, 0)

	if _, err := g.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("first Embed: %v", err)
	}
	if g.Dimension() != 3 {
		t.Fatalf("Dimension = %d, want 3", g.Dimension())
	}

	fake.vectors = [][]float32{{1, 0}}
	if _, err := g.Embed(context.Background(), []string{"b"}); err == nil {
		t.Fatal("expected an error when the provider changes output width")
	}
}

func TestGatewayConfiguredDimension(t *testing.T) {
	fake := &fakeProvider{vectors: [][]float32{{1, 0}}}
	g := NewGateway(fake, 4)

	if _, err := g.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected an error for a vector narrower than the configured dimension")
	}
}

func TestGatewayEmptyInput(t *testing.T) {
	fake := &fakeProvider{}
	g := NewGateway(fake, 0)

	vectors, err := g.Embed(context.Background(), nil)
	if err != nil || vectors != nil {
		t.Fatalf("Embed(nil) = %v, %v; want nil, nil", vectors, err)
	}
	if fake.calls != 0 {
		t.Fatal("provider should not be called for empty input")
	}
}
