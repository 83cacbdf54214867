// Package llm defines the completion provider used for distillation.
package llm

import "context"

// Provider sends a single chat-style completion request.
// Implementations are swapped out in tests so no real API calls are made.
type Provider interface {
	Complete(ctx context.Context, request Request) (*Response, error)
}

// Request is one system instruction plus one user message.
type Request struct {
	Model  string
	System string
	Prompt string
}

type Response struct {
	Content      string
	FinishReason string
}
