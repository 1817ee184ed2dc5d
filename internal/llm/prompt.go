package llm

import (
	"fmt"
	"strings"

	"github.com/Rrens/ecolearn/internal/domain"
)

// TutorSystemPrompt frames every generation request
const TutorSystemPrompt = "You are EcoLearn, a friendly tutor for environmental science. Answer concisely and accurately."

// DefaultProbeQuestion is used when a probe reply contains no question
const DefaultProbeQuestion = "What aspect of environmental science interests you most?"

// BuildContentPrompt creates the prompt for one slot of a content batch
func BuildContentPrompt(kind domain.ContentKind, topic string) string {
	switch kind {
	case domain.ContentExamples:
		return fmt.Sprintf(`Provide 2 practical, real-world examples for this environmental concept: %s

Make the examples:
- Easy to understand
- Relevant to everyday life
- Actionable for individuals`, topic)
	case domain.ContentVisualSuggestion:
		return fmt.Sprintf(`Suggest a visual way to understand this environmental concept: %s

Provide:
- A visualization idea (chart, diagram, etc.)
- Why it helps understanding
- Where to find or create it`, topic)
	default:
		return fmt.Sprintf(`Create a clear, educational explanation about this environmental topic: %s

Guidelines:
- Explain in simple, engaging terms
- Focus on practical environmental impact
- Keep it under 3 sentences
- Make it relevant to daily life`, topic)
	}
}

// BuildProbePrompt creates the assessment prompt for a probe kind
func BuildProbePrompt(kind domain.ProbeKind, input string) string {
	switch kind {
	case domain.ProbeSpecificInterests:
		return fmt.Sprintf(`User said: "%s"
Identify their specific interests in environmental topics like climate change, recycling, renewable energy, etc.
Suggest 2-3 relevant learning areas.
Ask which topic they'd like to explore first.`, input)
	case domain.ProbeCurrentUnderstanding:
		return fmt.Sprintf(`User said: "%s"
Gauge what they already understand about environmental science.
Ask one question that reveals the depth of their current understanding.`, input)
	case domain.ProbeMotivationLevel:
		return fmt.Sprintf(`User said: "%s"
Find out why they want to learn about the environment.
Ask one question about their motivation or goals.`, input)
	default:
		return fmt.Sprintf(`Based on the user's response: "%s"
Assess their general environmental knowledge level (beginner, intermediate, advanced).
Ask one follow-up question to clarify their understanding.
Keep it conversational and educational about environmental topics.`, input)
	}
}

// ExtractQuestion returns the first non-empty line containing a question mark
func ExtractQuestion(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && strings.Contains(line, "?") {
			return line
		}
	}
	return DefaultProbeQuestion
}
