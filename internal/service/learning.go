package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/llm"
	"github.com/Rrens/ecolearn/internal/metrics"
	"github.com/Rrens/ecolearn/internal/security"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultProgressThreshold is the learning interaction count that triggers a progress check
const DefaultProgressThreshold = 3

// FallbackContent returns the fixed text used when generating kind for topic fails
func FallbackContent(kind domain.ContentKind, topic string) string {
	switch kind {
	case domain.ContentExamples:
		return fmt.Sprintf("Here are practical examples for %s: 1) Simple daily actions, 2) Community involvement opportunities.", topic)
	case domain.ContentVisualSuggestion:
		return fmt.Sprintf("To visualize %s, consider looking at environmental impact charts or sustainable practice infographics online.", topic)
	default:
		return fmt.Sprintf("Let me explain %s in simple terms. This environmental topic relates to sustainable practices that help protect our planet.", topic)
	}
}

// LearningOutcome is a delivered batch plus the phase signal for the orchestrator
type LearningOutcome struct {
	Content       domain.LearningContent
	EnterProgress bool
}

// LearningController generates the content batch of a learning turn
type LearningController struct {
	generator llm.Generator
	sanitizer *security.InputSanitizer
	progress  *ProgressController
	threshold int
}

// NewLearningController creates a learning controller.
// A non-positive threshold selects DefaultProgressThreshold.
func NewLearningController(generator llm.Generator, sanitizer *security.InputSanitizer, progress *ProgressController, threshold int) *LearningController {
	if threshold <= 0 {
		threshold = DefaultProgressThreshold
	}
	return &LearningController{
		generator: generator,
		sanitizer: sanitizer,
		progress:  progress,
		threshold: threshold,
	}
}

// Deliver generates explanation, examples and a visual suggestion concurrently
// and waits for all three. A failed slot carries its fallback text and the
// error; the batch itself always succeeds.
func (c *LearningController) Deliver(ctx context.Context, input string, sess *domain.Session) LearningOutcome {
	topic := c.sanitizer.Clean(input)
	items := c.generateBatch(ctx, topic, sess.ID)

	n := sess.LearningInteractions()
	out := LearningOutcome{
		Content: domain.LearningContent{
			Content:         items,
			SessionProgress: n,
		},
	}

	if n >= c.threshold {
		check := c.progress.CheckProgress(sess)
		out.Content.ProgressCheck = &check
		out.EnterProgress = true
	}

	return out
}

func (c *LearningController) generateBatch(ctx context.Context, topic, sessionID string) []domain.ContentItem {
	start := time.Now()
	defer func() {
		metrics.ContentBatchDuration.Observe(time.Since(start).Seconds())
	}()

	items := make([]domain.ContentItem, len(domain.ContentKinds))

	// Slots never return an error so a failure cannot cancel its siblings.
	var g errgroup.Group
	for i, kind := range domain.ContentKinds {
		g.Go(func() error {
			items[i] = c.generateItem(ctx, kind, topic, sessionID)
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func (c *LearningController) generateItem(ctx context.Context, kind domain.ContentKind, topic, sessionID string) domain.ContentItem {
	text, err := c.generate(ctx, kind, topic)
	if err == nil {
		return domain.ContentItem{Kind: kind, Content: text}
	}

	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		genErr = &domain.GenerationError{Kind: string(kind), Err: err}
	}

	log.Warn().Err(genErr.Err).Str("session_id", sessionID).Str("kind", genErr.Kind).Msg("content generation failed, using fallback")
	metrics.GenerationFailures.WithLabelValues(genErr.Kind).Inc()

	return domain.ContentItem{
		Kind:    kind,
		Content: FallbackContent(kind, topic),
		Error:   genErr.Error(),
	}
}

func (c *LearningController) generate(ctx context.Context, kind domain.ContentKind, topic string) (string, error) {
	text, err := c.generator.Generate(ctx, llm.BuildContentPrompt(kind, topic))
	if err != nil {
		return "", &domain.GenerationError{Kind: string(kind), Err: err}
	}
	return text, nil
}
