package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/metrics"
	"github.com/rs/zerolog/log"
)

// RecentInteractions is how many records survive a compaction verbatim
const RecentInteractions = 5

// Store is the keyed session store. Expiry is measured from creation,
// so an expired session is replaced wholesale rather than renewed.
type Store struct {
	repo   domain.SessionRepository
	expiry time.Duration
	now    func() time.Time
	locks  KeyedMutex
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a session store over a repository
func NewStore(repo domain.SessionRepository, expiry time.Duration, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		expiry: expiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns a copy of the live session for id, creating a default
// one when none exists and replacing it when it has expired
func (s *Store) GetOrCreate(ctx context.Context, id string) (*domain.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	now := s.now()

	switch {
	case sess == nil:
		sess = domain.NewSession(id, now)
		log.Debug().Str("session_id", id).Msg("session created")
		metrics.SessionResets.WithLabelValues("created").Inc()
	case s.expired(sess, now):
		log.Info().
			Str("session_id", id).
			Time("created_at", sess.CreatedAt).
			Int("interactions", len(sess.Interactions)).
			Msg("session expired, starting fresh")
		sess = domain.NewSession(id, now)
		metrics.SessionResets.WithLabelValues("expired").Inc()
	default:
		return sess.Clone(), nil
	}

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return sess.Clone(), nil
}

// Get returns a copy of a live session without creating one.
// Missing and expired sessions report domain.ErrUnknownSession.
func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil || s.expired(sess, s.now()) {
		return nil, domain.ErrUnknownSession
	}
	return sess, nil
}

// Update merges fields into an existing session and stamps LastUpdatedAt.
// Unknown ids are logged and ignored.
func (s *Store) Update(ctx context.Context, id string, update domain.SessionUpdate) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		log.Warn().Err(domain.ErrUnknownSession).Str("session_id", id).Msg("update ignored")
		return nil
	}

	update.Apply(sess)
	sess.LastUpdatedAt = s.now()

	if err := s.repo.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete drops the session so the next access starts fresh
func (s *Store) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	metrics.SessionResets.WithLabelValues("deleted").Inc()
	return nil
}

// Compact collapses old history of sess in place. See Compact.
func (s *Store) Compact(sess *domain.Session, maxInteractions int) *domain.Session {
	return Compact(sess, maxInteractions, s.now())
}

// Ping checks the backing repository
func (s *Store) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Expiry returns the configured session lifetime
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

func (s *Store) expired(sess *domain.Session, now time.Time) bool {
	return s.expiry > 0 && now.Sub(sess.CreatedAt) > s.expiry
}

// Compact keeps the RecentInteractions newest records of sess once it holds
// more than maxInteractions, and replaces the rest with one summary record
// that only states how many were dropped
func Compact(sess *domain.Session, maxInteractions int, now time.Time) *domain.Session {
	if len(sess.Interactions) <= maxInteractions || len(sess.Interactions) <= RecentInteractions {
		return sess
	}

	cut := len(sess.Interactions) - RecentInteractions

	collapsed := 0
	for _, i := range sess.Interactions[:cut] {
		collapsed += i.LearningWeight()
	}

	compacted := make([]domain.Interaction, 0, RecentInteractions+1)
	compacted = append(compacted, domain.Interaction{
		Kind:      domain.InteractionSummary,
		Content:   fmt.Sprintf("Previous %d interactions about environmental learning", cut),
		Timestamp: now,
		Collapsed: collapsed,
	})
	compacted = append(compacted, sess.Interactions[cut:]...)

	sess.Interactions = compacted
	return sess
}
