// Package repository opens the configured session backend.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/repository/memory"
	"github.com/Rrens/ecolearn/internal/repository/mongo"
	"github.com/Rrens/ecolearn/internal/repository/mysql"
	"github.com/Rrens/ecolearn/internal/repository/postgres"
	"github.com/Rrens/ecolearn/internal/repository/redis"
	"github.com/Rrens/ecolearn/internal/repository/sqlite"
	"github.com/rs/zerolog/log"
)

// Backend holds the session repository and the connections behind it
type Backend struct {
	Sessions domain.SessionRepository

	// Redis is set when the driver is redis or rate limiting is enabled
	Redis *redis.Client

	closers []func() error
}

// Open connects the session repository selected by cfg.Store.Driver
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{}

	if cfg.Store.Driver == config.DriverRedis || cfg.RateLimit.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.Redis = client
		b.closers = append(b.closers, client.Close)
	}

	repo, err := b.openSessions(ctx, cfg)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Sessions = repo

	log.Info().Str("driver", cfg.Store.Driver).Msg("session store ready")
	return b, nil
}

func (b *Backend) openSessions(ctx context.Context, cfg *config.Config) (domain.SessionRepository, error) {
	expiry := cfg.Tutor.SessionExpiry

	switch cfg.Store.Driver {
	case config.DriverMemory, "":
		return memory.NewSessionRepository(), nil

	case config.DriverRedis:
		return redis.NewSessionRepository(b.Redis, expiry), nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() error { db.Close(); return nil })
		return postgres.NewSessionRepository(db.Pool), nil

	case config.DriverSQLite:
		repo, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, repo.Close)
		return repo, nil

	case config.DriverMySQL:
		repo, err := mysql.Open(ctx, cfg.MySQL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, repo.Close)
		return repo, nil

	case config.DriverMongo:
		repo, err := mongo.Open(ctx, cfg.Mongo, expiry)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, repo.Close)
		return repo, nil
	}

	return nil, &domain.ConfigurationError{
		Field:   "store.driver",
		Message: fmt.Sprintf("unsupported driver %q", cfg.Store.Driver),
	}
}

// Close releases every connection in reverse order of opening
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
