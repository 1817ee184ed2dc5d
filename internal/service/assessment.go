package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/metrics"
	"github.com/Rrens/ecolearn/internal/security"
	"github.com/rs/zerolog/log"
)

// AssessmentCompleteMessage greets the learner when the learning phase starts
const AssessmentCompleteMessage = "Assessment complete! Let's start learning about environmental topics."

const genericFallbackQuestion = "Tell me about your interest in environmental topics."

var fallbackQuestions = map[domain.ProbeKind]string{
	domain.ProbeGeneralKnowledge:     "How would you describe your current understanding of environmental issues?",
	domain.ProbeSpecificInterests:    "What environmental topics are you most curious about?",
	domain.ProbeCurrentUnderstanding: "What do you already know about environmental science?",
	domain.ProbeMotivationLevel:      "Why are you interested in learning about environmental topics?",
}

// FallbackQuestion returns the fixed question used when probing kind fails
func FallbackQuestion(kind domain.ProbeKind) string {
	if q, ok := fallbackQuestions[kind]; ok {
		return q
	}
	return genericFallbackQuestion
}

// ProbeResult is the outcome of one assessment step
type ProbeResult struct {
	Question     string
	Step         int
	Total        int
	Complete     bool
	Fallback     bool
	LearningPath []string
}

// Progress renders the step counter as "step/total"
func (r ProbeResult) Progress() string {
	return fmt.Sprintf("%d/%d", r.Step, r.Total)
}

// AssessmentController walks a session through the probe flow.
// The step counter lives on the session, so one controller serves every session.
type AssessmentController struct {
	probe        KnowledgeProbe
	sanitizer    *security.InputSanitizer
	flow         []domain.ProbeKind
	learningPath []string
}

// NewAssessmentController creates an assessment controller.
// Empty flow or path fall back to the defaults.
func NewAssessmentController(probe KnowledgeProbe, sanitizer *security.InputSanitizer, flow []domain.ProbeKind, learningPath []string) *AssessmentController {
	if len(flow) == 0 {
		flow = domain.DefaultAssessmentFlow
	}
	if len(learningPath) == 0 {
		learningPath = domain.DefaultLearningPath
	}
	return &AssessmentController{
		probe:        probe,
		sanitizer:    sanitizer,
		flow:         flow,
		learningPath: learningPath,
	}
}

// Total returns the number of probe steps
func (c *AssessmentController) Total() int {
	return len(c.flow)
}

// Advance runs the probe for the session's current step and moves the step
// forward. It never fails: probe errors degrade to a fixed question.
func (c *AssessmentController) Advance(ctx context.Context, input string, sess *domain.Session) ProbeResult {
	total := len(c.flow)

	if sess.AssessmentStep >= total {
		sess.AssessmentStep = total
		return c.complete(total)
	}

	kind := c.flow[sess.AssessmentStep]
	clean := c.sanitizer.Clean(input)

	result := ProbeResult{Total: total}

	q, err := c.probe.Assess(ctx, clean, kind, sess)
	var probeErr *domain.ProbeError
	switch {
	case err == nil:
		result.Question = q.Question
	case errors.As(err, &probeErr):
		log.Warn().Err(probeErr.Err).Str("session_id", sess.ID).Str("kind", probeErr.ProbeKind).Msg("probe failed, using fallback question")
		metrics.GenerationFailures.WithLabelValues(probeErr.ProbeKind).Inc()
		result.Question = FallbackQuestion(domain.ProbeKind(probeErr.ProbeKind))
		result.Fallback = true
	default:
		log.Warn().Err(err).Str("session_id", sess.ID).Str("kind", string(kind)).Msg("probe failed, using fallback question")
		metrics.GenerationFailures.WithLabelValues(string(kind)).Inc()
		result.Question = FallbackQuestion(kind)
		result.Fallback = true
	}

	sess.AssessmentStep++
	result.Step = sess.AssessmentStep

	if result.Step >= total {
		result.Complete = true
		result.LearningPath = c.path()
	}

	return result
}

func (c *AssessmentController) complete(total int) ProbeResult {
	return ProbeResult{
		Step:         total,
		Total:        total,
		Complete:     true,
		LearningPath: c.path(),
	}
}

func (c *AssessmentController) path() []string {
	return append([]string(nil), c.learningPath...)
}
