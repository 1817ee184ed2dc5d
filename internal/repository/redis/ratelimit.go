package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ecolearn:ratelimit:"

// RateLimitResult is the outcome of one rate limit check
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter caps turns per session in fixed one-minute windows
type RateLimiter struct {
	client            *Client
	requestsPerMinute int
	burst             int
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client:            client,
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
	}
}

// Allow counts a turn for sessionID in the current window
func (r *RateLimiter) Allow(ctx context.Context, sessionID string) (RateLimitResult, error) {
	now := time.Now()
	key := rateLimitKey(sessionID, now)
	windowEnd := now.Truncate(time.Minute).Add(time.Minute)

	pipe := r.client.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, time.Minute)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return RateLimitResult{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incr.Val()
	limit := r.Limit()

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		ResetAt:   windowEnd,
	}, nil
}

// Limit returns the number of turns allowed per window
func (r *RateLimiter) Limit() int {
	return r.requestsPerMinute + r.burst
}

// Reset clears the current window for sessionID
func (r *RateLimiter) Reset(ctx context.Context, sessionID string) error {
	return r.client.rdb.Del(ctx, rateLimitKey(sessionID, time.Now())).Err()
}

func rateLimitKey(sessionID string, now time.Time) string {
	return fmt.Sprintf("%s%s:%d", rateLimitPrefix, sessionID, now.Truncate(time.Minute).Unix())
}
