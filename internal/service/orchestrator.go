package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/metrics"
	"github.com/Rrens/ecolearn/internal/security"
	"github.com/Rrens/ecolearn/internal/session"
	"github.com/rs/zerolog/log"
)

// DefaultMaxInteractions is the history size that triggers compaction
const DefaultMaxInteractions = 10

// Orchestrator runs the assessment, learning and progress state machine.
// Turns for one session id are serialized; different ids run in parallel.
type Orchestrator struct {
	store           *session.Store
	sanitizer       *security.InputSanitizer
	assessment      *AssessmentController
	learning        *LearningController
	progress        *ProgressController
	maxInteractions int
	turns           session.KeyedMutex
	now             func() time.Time
}

// OrchestratorOption configures an Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithMaxInteractions sets the compaction threshold
func WithMaxInteractions(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxInteractions = n
		}
	}
}

// WithOrchestratorClock overrides the clock used for interaction timestamps
func WithOrchestratorClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator wires the phase controllers around a session store
func NewOrchestrator(
	store *session.Store,
	sanitizer *security.InputSanitizer,
	assessment *AssessmentController,
	learning *LearningController,
	progress *ProgressController,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		store:           store,
		sanitizer:       sanitizer,
		assessment:      assessment,
		learning:        learning,
		progress:        progress,
		maxInteractions: DefaultMaxInteractions,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessTurn handles one learner message for sessionID and returns the reply.
// Generation failures never surface here; errors come from the session backend.
func (o *Orchestrator) ProcessTurn(ctx context.Context, raw, sessionID string) (domain.Response, error) {
	unlock := o.turns.Lock(sessionID)
	defer unlock()

	sess, err := o.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.Phase.Valid() {
		log.Warn().Str("session_id", sessionID).Str("phase", string(sess.Phase)).Msg("unknown phase, restarting assessment")
		sess.Phase = domain.PhaseAssessment
	}

	clean := o.sanitizer.Clean(raw)
	sess.Interactions = append(sess.Interactions, domain.Interaction{
		Kind:      domain.InteractionUser,
		Content:   clean,
		Timestamp: o.now(),
		Phase:     sess.Phase,
	})

	from := sess.Phase
	resp, next := o.dispatch(ctx, clean, sess)

	o.store.Compact(sess, o.maxInteractions)

	encoded, err := domain.EncodeResponse(resp)
	if err != nil {
		return nil, err
	}

	update := domain.SessionUpdate{
		Phase:           &next,
		AssessmentStep:  &sess.AssessmentStep,
		Interactions:    sess.Interactions,
		LearningPath:    sess.LearningPath,
		LastInteraction: &raw,
		LastResponse:    encoded,
	}
	if err := o.store.Update(ctx, sessionID, update); err != nil {
		return nil, fmt.Errorf("failed to persist turn: %w", err)
	}

	metrics.TurnsTotal.WithLabelValues(string(from)).Inc()
	if next != from {
		metrics.PhaseTransitions.WithLabelValues(string(from), string(next)).Inc()
		log.Info().Str("session_id", sessionID).Str("from", string(from)).Str("to", string(next)).Msg("phase transition")
	}

	log.Debug().
		Str("session_id", sessionID).
		Str("phase", string(from)).
		Str("response", string(resp.Kind())).
		Int("interactions", len(sess.Interactions)).
		Msg("turn processed")

	return resp, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, input string, sess *domain.Session) (domain.Response, domain.Phase) {
	switch sess.Phase {
	case domain.PhaseLearning:
		out := o.learning.Deliver(ctx, input, sess)
		if out.EnterProgress {
			return out.Content, domain.PhaseProgress
		}
		return out.Content, domain.PhaseLearning

	case domain.PhaseProgress:
		eval := o.progress.EvaluateProgress(sess)
		if eval.NeedsMoreLearning {
			eval.NextStep = domain.NextStepContinueLearning
			return eval, domain.PhaseLearning
		}
		return eval, domain.PhaseProgress

	default:
		result := o.assessment.Advance(ctx, input, sess)
		if result.Complete {
			sess.LearningPath = result.LearningPath
			return domain.LearningStart{
				Message:      AssessmentCompleteMessage,
				LearningPath: result.LearningPath,
			}, domain.PhaseLearning
		}
		return domain.AssessmentQuestion{
			Question: result.Question,
			Progress: result.Progress(),
			Complete: result.Complete,
		}, domain.PhaseAssessment
	}
}

// Session returns a snapshot of a live session
func (o *Orchestrator) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	unlock := o.turns.Lock(sessionID)
	defer unlock()
	return o.store.Get(ctx, sessionID)
}

// Reset discards the session so the next turn starts a new assessment
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	unlock := o.turns.Lock(sessionID)
	defer unlock()
	return o.store.Delete(ctx, sessionID)
}

// Ping checks the session backend
func (o *Orchestrator) Ping(ctx context.Context) error {
	return o.store.Ping(ctx)
}

// AssessmentTotal returns the number of assessment steps
func (o *Orchestrator) AssessmentTotal() int {
	return o.assessment.Total()
}
