package api

import (
	"net/http"

	"github.com/Rrens/ecolearn/internal/api/handler"
	customMiddleware "github.com/Rrens/ecolearn/internal/api/middleware"
	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/llm"
	"github.com/Rrens/ecolearn/internal/metrics"
	"github.com/Rrens/ecolearn/internal/security"
	"github.com/Rrens/ecolearn/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Dependencies are the components the HTTP layer serves
type Dependencies struct {
	Tutor       *service.Orchestrator
	Auth        *service.AuthService
	JWT         *security.JWTManager
	RateLimiter customMiddleware.Limiter
	LLMRouter   *llm.Router
}

// NewRouter creates and configures the HTTP router.
// Token routes and auth are mounted only when JWT is set; rate limiting only when RateLimiter is set.
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.Server.MiddlewareTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, metrics.Handler())
	}

	sessionHandler := handler.NewSessionHandler(deps.Tutor)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Tutor))

		if deps.LLMRouter != nil {
			r.Get("/llm-providers", handler.ListLLMProviders(deps.LLMRouter))
		}

		if deps.JWT != nil && deps.Auth != nil {
			authHandler := handler.NewAuthHandler(deps.Auth)
			r.Post("/auth/token", authHandler.IssueToken)
		}

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			if deps.JWT != nil {
				r.Use(customMiddleware.NewAuthMiddleware(deps.JWT).Authenticate)
			}
			if deps.RateLimiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
			}

			r.Get("/", sessionHandler.Get)
			r.Delete("/", sessionHandler.Delete)
			r.Post("/turns", sessionHandler.Turn)
		})
	})

	return r
}
