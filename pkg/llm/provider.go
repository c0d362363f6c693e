package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Token is one streamed fragment of a response. A non-nil Err means the
// stream failed upstream; no further tokens follow it.
type Token struct {
	Content string
	Err     error
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// GenerateStream sends a single prompt and yields the response token by
	// token. The returned channel is closed when the stream ends; cancelling
	// ctx stops it. Transport failures surface as a Token with Err set.
	GenerateStream(ctx context.Context, prompt string, options ...Option) (<-chan Token, error)
}

// ApplyOptions folds functional options over provider defaults.
func ApplyOptions(defaults Options, opts []Option) Options {
	options := defaults
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
