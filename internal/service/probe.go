package service

import (
	"context"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/llm"
)

// ProbeQuestion is the follow-up question produced by a knowledge probe
type ProbeQuestion struct {
	Kind     domain.ProbeKind
	Question string
	Raw      string
}

// KnowledgeProbe asks the next assessment question for a probe kind.
// Failures are *domain.ProbeError.
type KnowledgeProbe interface {
	Assess(ctx context.Context, input string, kind domain.ProbeKind, sess *domain.Session) (ProbeQuestion, error)
}

// LLMProbe builds probe questions with a text generator
type LLMProbe struct {
	generator llm.Generator
}

// NewLLMProbe creates a knowledge probe backed by generator
func NewLLMProbe(generator llm.Generator) *LLMProbe {
	return &LLMProbe{generator: generator}
}

// Assess generates a reply for the probe kind and extracts its question
func (p *LLMProbe) Assess(ctx context.Context, input string, kind domain.ProbeKind, _ *domain.Session) (ProbeQuestion, error) {
	text, err := p.generator.Generate(ctx, llm.BuildProbePrompt(kind, input))
	if err != nil {
		return ProbeQuestion{}, &domain.ProbeError{ProbeKind: string(kind), Err: err}
	}

	return ProbeQuestion{
		Kind:     kind,
		Question: llm.ExtractQuestion(text),
		Raw:      text,
	}, nil
}
