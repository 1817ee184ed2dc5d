package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/llm"
	"github.com/Rrens/ecolearn/internal/repository/memory"
	"github.com/Rrens/ecolearn/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMRouter_RegistersConfiguredProviders(t *testing.T) {
	router := NewLLMRouter(config.LLMConfig{
		DefaultProvider: "openai",
		OpenAI:          config.OpenAIConfig{APIKey: "sk-test"},
		DeepSeek:        config.DeepSeekConfig{APIKey: "ds-test"},
		Ollama:          config.OllamaConfig{Host: "http://localhost:11434"},
	})

	assert.Equal(t, []string{"deepseek", "ollama", "openai"}, router.ListProviders())
	assert.Equal(t, "openai", router.DefaultProvider())

	_, err := router.GetProvider("gemini")
	assert.Error(t, err)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Driver: "cassandra"},
	}

	_, err := New(context.Background(), cfg)

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "store.driver", cfgErr.Field)
}

func TestNew_MemoryBackend(t *testing.T) {
	cfg := &config.Config{
		Store: config.StoreConfig{Driver: config.DriverMemory},
		LLM: config.LLMConfig{
			DefaultProvider: "ollama",
			Ollama:          config.OllamaConfig{Host: "http://localhost:11434"},
		},
		Tutor: config.TutorConfig{SessionExpiry: time.Hour, MaxInteractions: 10},
	}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, []string{"ollama"}, a.LLMRouter.ListProviders())
	assert.NoError(t, a.Tutor.Ping(context.Background()))
}

func TestNewTutor_UsesConfiguredFlow(t *testing.T) {
	store := session.NewStore(memory.NewSessionRepository(), time.Hour)
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "What do you already know?", nil
	})

	tutor := NewTutor(config.TutorConfig{
		AssessmentFlow:  []string{string(domain.ProbeGeneralKnowledge)},
		LearningPath:    []string{"Composting"},
		MaxInteractions: 10,
	}, store, gen)

	assert.Equal(t, 1, tutor.AssessmentTotal())

	resp, err := tutor.ProcessTurn(context.Background(), "hi", "s1")
	require.NoError(t, err)

	start, ok := resp.(domain.LearningStart)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, []string{"Composting"}, start.LearningPath)
}
