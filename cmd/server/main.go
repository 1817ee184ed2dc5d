package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/ecolearn/internal/api"
	"github.com/Rrens/ecolearn/internal/app"
	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/logger"
	"github.com/Rrens/ecolearn/internal/repository/redis"
	"github.com/Rrens/ecolearn/internal/security"
	"github.com/Rrens/ecolearn/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if _, err := logger.Setup(cfg.Logging); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Store.Driver).
		Msg("Starting EcoLearn tutor server")

	tutor, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tutor")
	}
	defer func() {
		if err := tutor.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close session backend")
		}
	}()

	deps := api.Dependencies{
		Tutor:     tutor.Tutor,
		LLMRouter: tutor.LLMRouter,
	}

	if cfg.Auth.Enabled() {
		deps.JWT = security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		deps.Auth = service.NewAuthService(tutor.Store, deps.JWT)
	} else {
		log.Warn().Msg("auth.jwt_secret is empty, session routes are open")
	}

	if cfg.RateLimit.Enabled && tutor.Backend.Redis != nil {
		deps.RateLimiter = redis.NewRateLimiter(tutor.Backend.Redis, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
