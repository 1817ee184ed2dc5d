package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "ecolearn:session:"

	// minSessionTTL is the floor for a session key TTL
	minSessionTTL = time.Second
)

// SessionRepository stores sessions as JSON documents that Redis expires
// when their lifetime ends
type SessionRepository struct {
	client *Client
	expiry time.Duration
	now    func() time.Time
}

// NewSessionRepository creates a Redis session repository
func NewSessionRepository(client *Client, expiry time.Duration) *SessionRepository {
	return &SessionRepository{client: client, expiry: expiry, now: time.Now}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := sessionTTL(session.CreatedAt, r.expiry, r.now())
	if err := r.client.rdb.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

func sessionKey(id string) string {
	return sessionPrefix + id
}

// sessionTTL is the time left until createdAt+expiry. Saves never extend it.
// A zero expiry keeps the key forever.
func sessionTTL(createdAt time.Time, expiry time.Duration, now time.Time) time.Duration {
	if expiry <= 0 {
		return 0
	}
	ttl := createdAt.Add(expiry).Sub(now)
	if ttl < minSessionTTL {
		return minSessionTTL
	}
	return ttl
}
