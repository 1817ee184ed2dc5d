package security

import (
	"strings"
)

// DefaultTopic replaces input that looks like source code and names no known topic
const DefaultTopic = "environmental sustainability"

var codeIndicators = []string{
	"def ",
	"class ",
	"import ",
	"async ",
	"await ",
	"print(",
	"self.",
	"if ",
	"for ",
	"while ",
	"try:",
	"except:",
	"with ",
	"open(",
	"api_key",
	"GEMINI_API_KEY",
	"cat >",
	"EOF",
	"config.py",
	"func ",
	"package ",
	":= ",
}

// Checked in order, the first hit wins
var environmentalKeywords = []string{
	"environment",
	"climate",
	"sustainable",
	"green",
	"energy",
	"recycle",
	"planet",
	"earth",
	"eco",
	"conservation",
	"pollution",
	"biodiversity",
	"renewable",
	"carbon",
	"emissions",
	"warming",
}

// InputSanitizer keeps pasted code and secrets out of generation prompts
type InputSanitizer struct {
	indicators []string
	keywords   []string
}

// NewInputSanitizer creates a sanitizer with the built-in indicator and keyword lists
func NewInputSanitizer() *InputSanitizer {
	return &InputSanitizer{
		indicators: codeIndicators,
		keywords:   environmentalKeywords,
	}
}

// LooksLikeCode reports whether raw contains any code indicator
func (s *InputSanitizer) LooksLikeCode(raw string) bool {
	for _, indicator := range s.indicators {
		if strings.Contains(raw, indicator) {
			return true
		}
	}
	return false
}

// Clean returns the text that may be forwarded to a generation capability.
// Code-like input collapses to a known environmental keyword found in it,
// or to DefaultTopic; anything else is returned trimmed.
func (s *InputSanitizer) Clean(raw string) string {
	if !s.LooksLikeCode(raw) {
		return strings.TrimSpace(raw)
	}

	lower := strings.ToLower(raw)
	for _, keyword := range s.keywords {
		if strings.Contains(lower, keyword) {
			return keyword
		}
	}

	return DefaultTopic
}
