package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Phase is the tutoring phase that decides which controller handles a turn
type Phase string

const (
	PhaseAssessment Phase = "assessment"
	PhaseLearning   Phase = "learning"
	PhaseProgress   Phase = "progress"
)

// Valid reports whether p is one of the known phases
func (p Phase) Valid() bool {
	switch p {
	case PhaseAssessment, PhaseLearning, PhaseProgress:
		return true
	}
	return false
}

// KnowledgeLevel is the learner's estimated level. Not inferred by the tutor itself.
type KnowledgeLevel string

const (
	LevelBeginner     KnowledgeLevel = "beginner"
	LevelIntermediate KnowledgeLevel = "intermediate"
	LevelAdvanced     KnowledgeLevel = "advanced"
)

// InteractionKind tags a record in the session history
type InteractionKind string

const (
	InteractionUser      InteractionKind = "user"
	InteractionAssistant InteractionKind = "assistant"
	InteractionSummary   InteractionKind = "summary"
)

// Interaction is a single entry of the session history.
// Phase is the phase the session was in when a user record was added.
// Collapsed is set on summary records to the number of learning
// interactions they replaced.
type Interaction struct {
	Kind      InteractionKind `json:"kind"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Phase     Phase           `json:"phase,omitempty"`
	Collapsed int             `json:"collapsed,omitempty"`
}

// LearningWeight is how many learning interactions the record stands for
func (i Interaction) LearningWeight() int {
	switch i.Kind {
	case InteractionSummary:
		return i.Collapsed
	case InteractionUser:
		if i.Phase != PhaseAssessment {
			return 1
		}
	}
	return 0
}

// Session holds the per-conversation tutoring state
type Session struct {
	ID              string          `json:"id"`
	Phase           Phase           `json:"phase"`
	CreatedAt       time.Time       `json:"created_at"`
	LastUpdatedAt   time.Time       `json:"last_updated_at"`
	AssessmentStep  int             `json:"assessment_step"`
	Interactions    []Interaction   `json:"interactions"`
	LearningPath    []string        `json:"learning_path"`
	KnowledgeLevel  KnowledgeLevel  `json:"knowledge_level"`
	Preferences     map[string]any  `json:"preferences"`
	LastInteraction string          `json:"last_interaction,omitempty"`
	LastResponse    json.RawMessage `json:"last_response,omitempty"`
}

// NewSession returns a session in its initial state
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:             id,
		Phase:          PhaseAssessment,
		CreatedAt:      now,
		LastUpdatedAt:  now,
		Interactions:   []Interaction{},
		LearningPath:   []string{},
		KnowledgeLevel: LevelBeginner,
		Preferences:    map[string]any{},
	}
}

// Clone returns a deep copy so callers never share slices with the store
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Interactions = append([]Interaction(nil), s.Interactions...)
	c.LearningPath = append([]string(nil), s.LearningPath...)
	c.Preferences = make(map[string]any, len(s.Preferences))
	for k, v := range s.Preferences {
		c.Preferences[k] = v
	}
	if s.LastResponse != nil {
		c.LastResponse = append(json.RawMessage(nil), s.LastResponse...)
	}
	return &c
}

// InteractionCount returns the number of history records
func (s *Session) InteractionCount() int {
	return len(s.Interactions)
}

// LearningInteractions counts user turns taken after assessment,
// including those folded into summary records
func (s *Session) LearningInteractions() int {
	n := 0
	for _, i := range s.Interactions {
		n += i.LearningWeight()
	}
	return n
}

// SessionUpdate carries the fields to merge into a stored session.
// Nil fields are left unchanged.
type SessionUpdate struct {
	Phase           *Phase
	AssessmentStep  *int
	Interactions    []Interaction
	LearningPath    []string
	KnowledgeLevel  *KnowledgeLevel
	Preferences     map[string]any
	LastInteraction *string
	LastResponse    json.RawMessage
}

// Apply merges the update into s
func (u SessionUpdate) Apply(s *Session) {
	if u.Phase != nil {
		s.Phase = *u.Phase
	}
	if u.AssessmentStep != nil && *u.AssessmentStep > s.AssessmentStep {
		s.AssessmentStep = *u.AssessmentStep
	}
	if u.Interactions != nil {
		s.Interactions = append([]Interaction(nil), u.Interactions...)
	}
	if u.LearningPath != nil {
		s.LearningPath = append([]string(nil), u.LearningPath...)
	}
	if u.KnowledgeLevel != nil {
		s.KnowledgeLevel = *u.KnowledgeLevel
	}
	if u.Preferences != nil {
		if s.Preferences == nil {
			s.Preferences = map[string]any{}
		}
		for k, v := range u.Preferences {
			s.Preferences[k] = v
		}
	}
	if u.LastInteraction != nil {
		s.LastInteraction = *u.LastInteraction
	}
	if u.LastResponse != nil {
		s.LastResponse = append(json.RawMessage(nil), u.LastResponse...)
	}
}

// SessionRepository persists whole sessions by id.
// Get returns (nil, nil) when the id is unknown.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
