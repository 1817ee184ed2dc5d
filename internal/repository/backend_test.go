package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/repository/memory"
	"github.com/Rrens/ecolearn/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}

	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	assert.IsType(t, &memory.SessionRepository{}, b.Sessions)
	assert.Nil(t, b.Redis)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Store:  config.StoreConfig{Driver: config.DriverSQLite},
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "tutor.db")},
	}

	b, err := Open(ctx, cfg)
	require.NoError(t, err)

	assert.IsType(t, &sqlite.SessionRepository{}, b.Sessions)
	require.NoError(t, b.Sessions.Save(ctx, domain.NewSession("s1", time.Now())))
	require.NoError(t, b.Close())
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "cassandra"}}

	_, err := Open(context.Background(), cfg)

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "store.driver", cfgErr.Field)
}
