// Package llm holds the chat-completion clients used by the explainer.
package llm

import "context"

// Provider sends a single completion request to a language model.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
