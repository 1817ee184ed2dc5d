package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned by providers when the model produced no text
var ErrEmptyResponse = errors.New("empty response from model")

// Request contains text generation parameters
type Request struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
}

// Response contains LLM generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate produces text for a prompt
	Generate(ctx context.Context, req Request, model string) (*Response, error)
}
