package service

import (
	"fmt"
	"math"

	"github.com/Rrens/ecolearn/internal/domain"
)

const (
	// FullSessionInteractions is the interaction count reported as 100%
	FullSessionInteractions = 10

	// ReadyInteractions is the count at which a learner stops looping back to learning
	ReadyInteractions = 5
)

const (
	RecommendContinue = "Continue learning"
	RecommendReady    = "Ready for assessment"
)

// ProgressController scores a session. It holds no state.
type ProgressController struct{}

// NewProgressController creates a progress controller
func NewProgressController() *ProgressController {
	return &ProgressController{}
}

// CheckProgress reports how far the session is, capped at 100%
func (c *ProgressController) CheckProgress(sess *domain.Session) domain.ProgressCheck {
	n := sess.LearningInteractions()
	pct := math.Min(100, float64(n)/FullSessionInteractions*100)

	return domain.ProgressCheck{
		Percentage:        pct,
		InteractionsCount: n,
		Message:           fmt.Sprintf("You've completed %.0f%% of this learning session.", pct),
	}
}

// EvaluateProgress decides whether the learner needs more learning
func (c *ProgressController) EvaluateProgress(sess *domain.Session) domain.ProgressEvaluation {
	n := sess.LearningInteractions()
	needsMore := n < ReadyInteractions

	rec := RecommendReady
	if needsMore {
		rec = RecommendContinue
	}

	return domain.ProgressEvaluation{
		NeedsMoreLearning: needsMore,
		TotalInteractions: n,
		Recommendation:    rec,
	}
}
