package handler

import (
	"net/http"

	"github.com/Rrens/ecolearn/internal/api/response"
	"github.com/Rrens/ecolearn/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles learner token endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// IssueToken opens a session and returns a token bound to it
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.authService.IssueToken(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to issue learner token")
		response.InternalError(w, "failed to issue token")
		return
	}

	response.Created(w, token)
}
