package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Rrens/ecolearn/internal/api/response"
	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Tutor is the turn processing boundary the session routes depend on
type Tutor interface {
	ProcessTurn(ctx context.Context, raw, sessionID string) (domain.Response, error)
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
	Reset(ctx context.Context, sessionID string) error
}

// SessionHandler handles tutoring session endpoints
type SessionHandler struct {
	tutor Tutor
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(tutor Tutor) *SessionHandler {
	return &SessionHandler{tutor: tutor}
}

// Turn processes one learner message
func (h *SessionHandler) Turn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var input domain.TurnRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	resp, err := h.tutor.ProcessTurn(r.Context(), input.Message, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("turn failed")
		response.InternalError(w, "failed to process turn")
		return
	}

	body, err := domain.EncodeResponse(resp)
	if err != nil {
		response.InternalError(w, "failed to encode response")
		return
	}

	response.OK(w, body)
}

// Get returns a snapshot of the session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.tutor.Session(r.Context(), sessionID)
	if errors.Is(err, domain.ErrUnknownSession) {
		response.NotFound(w, "session not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session")
		response.InternalError(w, "failed to load session")
		return
	}

	response.OK(w, sess)
}

// Delete resets the session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.tutor.Reset(r.Context(), sessionID); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to reset session")
		response.InternalError(w, "failed to reset session")
		return
	}

	response.NoContent(w)
}
