package service

import (
	"context"
	"fmt"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/security"
	"github.com/Rrens/ecolearn/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuthService issues learner tokens
type AuthService struct {
	store      *session.Store
	jwtManager *security.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(store *session.Store, jwtManager *security.JWTManager) *AuthService {
	return &AuthService{
		store:      store,
		jwtManager: jwtManager,
	}
}

// IssueToken opens a new session and returns a token bound to it
func (s *AuthService) IssueToken(ctx context.Context) (*domain.LearnerToken, error) {
	sessionID := uuid.NewString()

	if _, err := s.store.GetOrCreate(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.jwtManager.GenerateToken(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info().Str("session_id", sessionID).Msg("learner token issued")

	return &domain.LearnerToken{
		SessionID: sessionID,
		Token:     token,
		ExpiresIn: int64(s.jwtManager.TokenTTL().Seconds()),
	}, nil
}
