package ai

import "context"

// CompleteOptions tunes a single completion call. Factual gap-filling uses a
// low temperature; generative filler (descriptions, synthetic offers) a higher one.
type CompleteOptions struct {
	Temperature float32
	MaxTokens   int
}

// Client is the text-completion contract. It allows swapping providers
// (Gemini, OpenAI) behind the same call shape.
type Client interface {
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)
}
