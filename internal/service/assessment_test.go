package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var threeStepFlow = []domain.ProbeKind{
	domain.ProbeGeneralKnowledge,
	domain.ProbeSpecificInterests,
	domain.ProbeMotivationLevel,
}

func TestAssessmentController_Advance(t *testing.T) {
	ctx := context.Background()
	probe := new(MockKnowledgeProbe)
	c := NewAssessmentController(probe, security.NewInputSanitizer(), threeStepFlow, nil)
	sess := domain.NewSession("s1", time.Now())

	probe.On("Assess", ctx, "I know a little", domain.ProbeGeneralKnowledge, sess).
		Return(ProbeQuestion{Question: "What do you know about climate?"}, nil).Once()
	probe.On("Assess", ctx, "oceans", domain.ProbeSpecificInterests, sess).
		Return(ProbeQuestion{Question: "Which ocean topic first?"}, nil).Once()
	probe.On("Assess", ctx, "to help", domain.ProbeMotivationLevel, sess).
		Return(ProbeQuestion{Question: "What is your goal?"}, nil).Once()

	r := c.Advance(ctx, "  I know a little  ", sess)
	assert.Equal(t, "What do you know about climate?", r.Question)
	assert.Equal(t, "1/3", r.Progress())
	assert.False(t, r.Complete)
	assert.Equal(t, 1, sess.AssessmentStep)

	r = c.Advance(ctx, "oceans", sess)
	assert.Equal(t, "2/3", r.Progress())
	assert.False(t, r.Complete)

	r = c.Advance(ctx, "to help", sess)
	assert.Equal(t, "3/3", r.Progress())
	assert.True(t, r.Complete)
	assert.Equal(t, domain.DefaultLearningPath, r.LearningPath)

	r = c.Advance(ctx, "anything", sess)
	assert.True(t, r.Complete)
	assert.Equal(t, 3, sess.AssessmentStep)
	assert.NotEmpty(t, r.LearningPath)

	probe.AssertExpectations(t)
}

func TestAssessmentController_StepIsPerSession(t *testing.T) {
	ctx := context.Background()
	probe := new(MockKnowledgeProbe)
	probe.On("Assess", ctx, mock.Anything, mock.Anything, mock.Anything).Return(ProbeQuestion{Question: "Q?"}, nil)

	c := NewAssessmentController(probe, security.NewInputSanitizer(), threeStepFlow, nil)
	a := domain.NewSession("a", time.Now())
	b := domain.NewSession("b", time.Now())

	c.Advance(ctx, "x", a)
	c.Advance(ctx, "x", a)
	r := c.Advance(ctx, "x", b)

	assert.Equal(t, 2, a.AssessmentStep)
	assert.Equal(t, 1, b.AssessmentStep)
	assert.Equal(t, "1/3", r.Progress())
	probe.AssertCalled(t, "Assess", ctx, "x", domain.ProbeGeneralKnowledge, b)
}

func TestAssessmentController_StepBounds(t *testing.T) {
	ctx := context.Background()
	probe := new(MockKnowledgeProbe)
	probe.On("Assess", ctx, mock.Anything, mock.Anything, mock.Anything).Return(ProbeQuestion{Question: "Q?"}, nil)

	c := NewAssessmentController(probe, security.NewInputSanitizer(), nil, nil)
	sess := domain.NewSession("s1", time.Now())

	prev := sess.AssessmentStep
	for i := 0; i < 10; i++ {
		c.Advance(ctx, "x", sess)
		assert.GreaterOrEqual(t, sess.AssessmentStep, prev)
		assert.LessOrEqual(t, sess.AssessmentStep, len(domain.DefaultAssessmentFlow))
		prev = sess.AssessmentStep
	}
	assert.Equal(t, len(domain.DefaultAssessmentFlow), sess.AssessmentStep)
}

func TestAssessmentController_ProbeFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("probe error selects the kind fallback", func(t *testing.T) {
		probe := new(MockKnowledgeProbe)
		probe.On("Assess", ctx, mock.Anything, domain.ProbeGeneralKnowledge, mock.Anything).
			Return(ProbeQuestion{}, &domain.ProbeError{ProbeKind: string(domain.ProbeGeneralKnowledge), Err: errors.New("timeout")})

		c := NewAssessmentController(probe, security.NewInputSanitizer(), threeStepFlow, nil)
		sess := domain.NewSession("s1", time.Now())

		r := c.Advance(ctx, "hello", sess)
		assert.True(t, r.Fallback)
		assert.Equal(t, "How would you describe your current understanding of environmental issues?", r.Question)
		assert.Equal(t, 1, sess.AssessmentStep)
	})

	t.Run("untyped error still falls back", func(t *testing.T) {
		probe := new(MockKnowledgeProbe)
		probe.On("Assess", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(ProbeQuestion{}, errors.New("boom"))

		c := NewAssessmentController(probe, security.NewInputSanitizer(), []domain.ProbeKind{"custom_kind"}, nil)
		sess := domain.NewSession("s1", time.Now())

		r := c.Advance(ctx, "hello", sess)
		assert.True(t, r.Fallback)
		assert.Equal(t, "Tell me about your interest in environmental topics.", r.Question)
		assert.True(t, r.Complete)
	})
}

func TestAssessmentController_SanitizesInput(t *testing.T) {
	ctx := context.Background()
	probe := new(MockKnowledgeProbe)
	probe.On("Assess", ctx, "climate", domain.ProbeGeneralKnowledge, mock.Anything).
		Return(ProbeQuestion{Question: "Q?"}, nil).Once()

	c := NewAssessmentController(probe, security.NewInputSanitizer(), threeStepFlow, nil)
	c.Advance(ctx, "import os\nprint('climate data')", domain.NewSession("s1", time.Now()))

	probe.AssertExpectations(t)
}

func TestFallbackQuestion(t *testing.T) {
	for _, kind := range domain.DefaultAssessmentFlow {
		require.NotEqual(t, genericFallbackQuestion, FallbackQuestion(kind), kind)
	}
	assert.Equal(t, genericFallbackQuestion, FallbackQuestion("unknown"))
}
