package llm_test

import (
	"strings"
	"testing"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/llm"
)

func TestBuildContentPrompt(t *testing.T) {
	tests := []struct {
		kind domain.ContentKind
		want string
	}{
		{domain.ContentExplanation, "educational explanation"},
		{domain.ContentExamples, "real-world examples"},
		{domain.ContentVisualSuggestion, "visual way"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			prompt := llm.BuildContentPrompt(tt.kind, "ocean acidification")
			if !strings.Contains(prompt, tt.want) {
				t.Errorf("prompt should contain %q", tt.want)
			}
			if !strings.Contains(prompt, "ocean acidification") {
				t.Error("prompt should contain the topic")
			}
		})
	}
}

func TestBuildProbePrompt(t *testing.T) {
	for _, kind := range domain.DefaultAssessmentFlow {
		prompt := llm.BuildProbePrompt(kind, "I recycle at home")
		if !strings.Contains(prompt, "I recycle at home") {
			t.Errorf("%s prompt should quote the learner", kind)
		}
	}

	unknown := llm.BuildProbePrompt("something_else", "hi")
	general := llm.BuildProbePrompt(domain.ProbeGeneralKnowledge, "hi")
	if unknown != general {
		t.Error("unknown probe kinds should use the general template")
	}
}

func TestExtractQuestion(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			"first question line",
			"You seem curious.\n\n  What do you know about carbon sinks?  \nAnother question?",
			"What do you know about carbon sinks?",
		},
		{
			"no question",
			"Great answer. Let's continue.",
			llm.DefaultProbeQuestion,
		},
		{
			"empty",
			"",
			llm.DefaultProbeQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := llm.ExtractQuestion(tt.content); got != tt.expected {
				t.Errorf("ExtractQuestion() = %q, want %q", got, tt.expected)
			}
		})
	}
}
