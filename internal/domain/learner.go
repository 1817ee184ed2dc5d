package domain

// TurnRequest is a learner message sent to a session
type TurnRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// LearnerToken is a bearer token bound to one session
type LearnerToken struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
