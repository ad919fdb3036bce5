// Package ai is the boundary to the external text-generation service. Exactly
// one Provider is constructed per process and injected where it is needed.
package ai

import (
	"context"
	"errors"
)

var (
	ErrRateLimited     = errors.New("ai provider rate limited")
	ErrQuotaExceeded   = errors.New("ai provider quota exceeded")
	ErrEmptyResponse   = errors.New("ai provider returned no content")
	ErrBudgetExhausted = errors.New("ai token budget exhausted")
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to a completion.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Prompt wraps a single user prompt into a request.
func Prompt(text string) CompletionRequest {
	return CompletionRequest{
		Messages: []Message{{Role: "user", Content: text}},
	}
}

// CompletionResponse is the output of a completion.
type CompletionResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// TotalTokens returns the sum of input and output tokens.
func (r CompletionResponse) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// Provider is implemented by every text-generation backend. Complete makes a
// single attempt; callers decide what to show on failure.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	HealthCheck(ctx context.Context) error
}
