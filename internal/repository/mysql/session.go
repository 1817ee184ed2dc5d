// Package mysql stores sessions in a MySQL table.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/domain"
	_ "github.com/go-sql-driver/mysql"
)

const schema = `
CREATE TABLE IF NOT EXISTS tutor_sessions (
	id         VARCHAR(128) NOT NULL PRIMARY KEY,
	phase      VARCHAR(32)  NOT NULL,
	data       JSON         NOT NULL,
	created_at DATETIME(6)  NOT NULL,
	updated_at DATETIME(6)  NOT NULL,
	INDEX idx_tutor_sessions_created_at (created_at)
)`

// SessionRepository implements domain.SessionRepository on MySQL
type SessionRepository struct {
	db *sql.DB
}

// Open connects to MySQL and ensures the sessions table exists
func Open(ctx context.Context, cfg config.MySQLConfig) (*SessionRepository, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SessionRepository{db: db}, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, "SELECT data FROM tutor_sessions WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	query := `
		INSERT INTO tutor_sessions (id, phase, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			phase = VALUES(phase),
			data = VALUES(data),
			created_at = VALUES(created_at),
			updated_at = VALUES(updated_at)`

	_, err = r.db.ExecContext(ctx, query,
		session.ID,
		string(session.Phase),
		data,
		session.CreatedAt.UTC(),
		session.LastUpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tutor_sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the connection pool
func (r *SessionRepository) Close() error {
	return r.db.Close()
}
