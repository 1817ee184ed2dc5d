package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Generator is the text-generation capability the tutor depends on
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RouterGenerator resolves a provider from the router on every call
type RouterGenerator struct {
	router   *Router
	provider string
	model    string
}

// NewRouterGenerator creates a generator bound to a provider name and model.
// Empty values select the router default provider and that provider's default model.
func NewRouterGenerator(router *Router, provider, model string) *RouterGenerator {
	return &RouterGenerator{router: router, provider: provider, model: model}
}

// Generate sends the prompt to the configured provider
func (g *RouterGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	provider, err := g.router.GetProvider(g.provider)
	if err != nil {
		return "", err
	}

	model := g.model
	if model == "" {
		model = provider.DefaultModel()
	}

	resp, err := provider.Generate(ctx, Request{
		SystemPrompt: TutorSystemPrompt,
		Prompt:       prompt,
	}, model)
	if err != nil {
		return "", fmt.Errorf("%s: %w", provider.Name(), err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyResponse
	}

	log.Debug().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("tokens_used", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("LLM response received")

	return text, nil
}

// GeneratorFunc adapts a plain function to Generator
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
