package deepseek

import (
	"github.com/Rrens/ecolearn/internal/llm/openai"
)

const baseURL = "https://api.deepseek.com/v1"

// NewProvider creates a DeepSeek provider. DeepSeek serves the OpenAI chat completions API.
func NewProvider(apiKey, defaultModel string) *openai.Provider {
	if defaultModel == "" {
		defaultModel = "deepseek-chat"
	}
	return openai.NewCompatible("deepseek", apiKey, defaultModel, baseURL, []string{
		"deepseek-chat",
		"deepseek-reasoner",
	})
}
