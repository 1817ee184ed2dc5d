// Package app assembles the tutor from configuration.
package app

import (
	"context"

	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/llm"
	"github.com/Rrens/ecolearn/internal/llm/anthropic"
	"github.com/Rrens/ecolearn/internal/llm/deepseek"
	"github.com/Rrens/ecolearn/internal/llm/gemini"
	"github.com/Rrens/ecolearn/internal/llm/ollama"
	"github.com/Rrens/ecolearn/internal/llm/openai"
	"github.com/Rrens/ecolearn/internal/repository"
	"github.com/Rrens/ecolearn/internal/security"
	"github.com/Rrens/ecolearn/internal/service"
	"github.com/Rrens/ecolearn/internal/session"
	"github.com/rs/zerolog/log"
)

// App holds the wired tutor and the backend it runs on
type App struct {
	Backend   *repository.Backend
	Store     *session.Store
	LLMRouter *llm.Router
	Tutor     *service.Orchestrator
}

// NewLLMRouter registers every provider that has credentials
func NewLLMRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)

	if cfg.Ollama.Host != "" {
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel))
	}
	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model))
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model))
	}
	if cfg.DeepSeek.APIKey != "" {
		router.RegisterProvider(deepseek.NewProvider(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model))
	}
	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}

	log.Info().
		Strs("providers", router.ListProviders()).
		Str("default", router.DefaultProvider()).
		Msg("LLM providers registered")

	return router
}

// NewTutor builds the orchestrator over a store and a text generator
func NewTutor(cfg config.TutorConfig, store *session.Store, gen llm.Generator) *service.Orchestrator {
	sanitizer := security.NewInputSanitizer()
	progress := service.NewProgressController()

	assessment := service.NewAssessmentController(
		service.NewLLMProbe(gen),
		sanitizer,
		cfg.Flow(),
		cfg.Path(),
	)
	learning := service.NewLearningController(gen, sanitizer, progress, cfg.ProgressThreshold)

	return service.NewOrchestrator(
		store,
		sanitizer,
		assessment,
		learning,
		progress,
		service.WithMaxInteractions(cfg.MaxInteractions),
	)
}

// New validates cfg, opens the session backend and wires the tutor
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	router := NewLLMRouter(cfg.LLM)
	store := session.NewStore(backend.Sessions, cfg.Tutor.SessionExpiry)
	gen := llm.NewRouterGenerator(router, "", "")

	return &App{
		Backend:   backend,
		Store:     store,
		LLMRouter: router,
		Tutor:     NewTutor(cfg.Tutor, store, gen),
	}, nil
}

// Close releases the backend connections
func (a *App) Close() error {
	return a.Backend.Close()
}
