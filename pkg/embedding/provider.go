package embedding

import "context"

// Provider generates embeddings for a batch of texts: one vector per input,
// in input order. Providers do not retry; retry policy belongs to callers.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
