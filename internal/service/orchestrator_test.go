package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/Rrens/ecolearn/internal/repository/memory"
	"github.com/Rrens/ecolearn/internal/security"
	"github.com/Rrens/ecolearn/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type orchestratorFixture struct {
	orch  *Orchestrator
	store *session.Store
	repo  *memory.SessionRepository
	clock *testClock
	gen   *MockGenerator
	probe *MockKnowledgeProbe
}

func newOrchestratorFixture(repo domain.SessionRepository) *orchestratorFixture {
	clock := &testClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	mem, _ := repo.(*memory.SessionRepository)
	store := session.NewStore(repo, 24*time.Hour, session.WithClock(clock.Now))

	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("generated content", nil)
	probe := new(MockKnowledgeProbe)
	probe.On("Assess", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(ProbeQuestion{Question: "What interests you?"}, nil)

	sanitizer := security.NewInputSanitizer()
	progress := NewProgressController()
	orch := NewOrchestrator(
		store,
		sanitizer,
		NewAssessmentController(probe, sanitizer, threeStepFlow, nil),
		NewLearningController(gen, sanitizer, progress, DefaultProgressThreshold),
		progress,
		WithMaxInteractions(10),
		WithOrchestratorClock(clock.Now),
	)

	return &orchestratorFixture{orch: orch, store: store, repo: mem, clock: clock, gen: gen, probe: probe}
}

func (f *orchestratorFixture) turn(t *testing.T, msg string) domain.Response {
	t.Helper()
	resp, err := f.orch.ProcessTurn(context.Background(), msg, "learner-1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func (f *orchestratorFixture) session(t *testing.T) *domain.Session {
	t.Helper()
	sess, err := f.store.Get(context.Background(), "learner-1")
	require.NoError(t, err)
	return sess
}

func TestOrchestrator_FullScenario(t *testing.T) {
	f := newOrchestratorFixture(memory.NewSessionRepository())

	// Assessment: three probe steps.
	resp := f.turn(t, "I know a bit about recycling")
	q, ok := resp.(domain.AssessmentQuestion)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, "What interests you?", q.Question)
	assert.Equal(t, "1/3", q.Progress)
	assert.False(t, q.Complete)
	assert.Equal(t, domain.PhaseAssessment, f.session(t).Phase)

	resp = f.turn(t, "oceans")
	assert.Equal(t, "2/3", resp.(domain.AssessmentQuestion).Progress)

	resp = f.turn(t, "I want to help")
	start, ok := resp.(domain.LearningStart)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, AssessmentCompleteMessage, start.Message)
	assert.NotEmpty(t, start.LearningPath)

	sess := f.session(t)
	assert.Equal(t, domain.PhaseLearning, sess.Phase)
	assert.Equal(t, 3, sess.AssessmentStep)
	assert.Equal(t, domain.DefaultLearningPath, sess.LearningPath)

	// Learning: the third learning turn reaches the threshold.
	for i := 1; i <= 2; i++ {
		resp = f.turn(t, "tell me about solar energy")
		content, ok := resp.(domain.LearningContent)
		require.True(t, ok, "got %T", resp)
		assert.Len(t, content.Content, 3)
		assert.Nil(t, content.ProgressCheck)
		assert.Equal(t, i, content.SessionProgress)
		assert.Equal(t, domain.PhaseLearning, f.session(t).Phase)
	}

	resp = f.turn(t, "and wind power")
	content := resp.(domain.LearningContent)
	require.NotNil(t, content.ProgressCheck)
	assert.Equal(t, 3, content.ProgressCheck.InteractionsCount)
	assert.Equal(t, domain.PhaseProgress, f.session(t).Phase)

	// Progress: four learning interactions, loop back.
	resp = f.turn(t, "what next?")
	eval, ok := resp.(domain.ProgressEvaluation)
	require.True(t, ok, "got %T", resp)
	assert.True(t, eval.NeedsMoreLearning)
	assert.Equal(t, 4, eval.TotalInteractions)
	assert.Equal(t, domain.NextStepContinueLearning, eval.NextStep)
	assert.Equal(t, domain.PhaseLearning, f.session(t).Phase)

	resp = f.turn(t, "biodiversity")
	content = resp.(domain.LearningContent)
	require.NotNil(t, content.ProgressCheck)
	assert.Equal(t, domain.PhaseProgress, f.session(t).Phase)

	resp = f.turn(t, "am I done?")
	eval = resp.(domain.ProgressEvaluation)
	assert.False(t, eval.NeedsMoreLearning)
	assert.Equal(t, 6, eval.TotalInteractions)
	assert.Empty(t, eval.NextStep)
	assert.Equal(t, domain.PhaseProgress, f.session(t).Phase)

	sess = f.session(t)
	assert.Equal(t, "am I done?", sess.LastInteraction)
	stored, err := domain.DecodeResponse(sess.LastResponse)
	require.NoError(t, err)
	assert.Equal(t, eval, stored)

	f.probe.AssertNumberOfCalls(t, "Assess", 3)
	f.gen.AssertNumberOfCalls(t, "Generate", 12)
}

func TestOrchestrator_CompactsHistory(t *testing.T) {
	f := newOrchestratorFixture(memory.NewSessionRepository())

	for i := 0; i < 11; i++ {
		f.turn(t, fmt.Sprintf("turn %d", i+1))
	}

	sess := f.session(t)
	require.Len(t, sess.Interactions, 6)
	assert.Equal(t, domain.InteractionSummary, sess.Interactions[0].Kind)
	assert.Equal(t, "Previous 6 interactions about environmental learning", sess.Interactions[0].Content)
	assert.Equal(t, "turn 11", sess.Interactions[5].Content)
	assert.Equal(t, 8, sess.LearningInteractions())
}

func TestOrchestrator_ExpiryStartsOver(t *testing.T) {
	f := newOrchestratorFixture(memory.NewSessionRepository())

	for i := 0; i < 4; i++ {
		f.turn(t, "hello")
	}
	require.Equal(t, domain.PhaseLearning, f.session(t).Phase)

	f.clock.Advance(25 * time.Hour)

	resp := f.turn(t, "back again")
	q, ok := resp.(domain.AssessmentQuestion)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, "1/3", q.Progress)

	sess := f.session(t)
	assert.Empty(t, sess.LearningPath)
	assert.Len(t, sess.Interactions, 1)
	assert.Equal(t, 1, sess.AssessmentStep)
}

func TestOrchestrator_SanitizesHistory(t *testing.T) {
	f := newOrchestratorFixture(memory.NewSessionRepository())

	f.turn(t, "GEMINI_API_KEY=abc123 tell me about pollution")

	sess := f.session(t)
	require.Len(t, sess.Interactions, 1)
	assert.Equal(t, "pollution", sess.Interactions[0].Content)
	assert.Equal(t, domain.PhaseAssessment, sess.Interactions[0].Phase)
}

func TestOrchestrator_ConcurrentTurnsSameSession(t *testing.T) {
	f := newOrchestratorFixture(memory.NewSessionRepository())

	const turns = 12
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orch.ProcessTurn(context.Background(), "hello", "learner-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess := f.session(t)
	assert.Equal(t, 3, sess.AssessmentStep)
	assert.Equal(t, turns-3, sess.LearningInteractions())
	f.probe.AssertNumberOfCalls(t, "Assess", 3)
}

func TestOrchestrator_IndependentSessions(t *testing.T) {
	f := newOrchestratorFixture(memory.NewSessionRepository())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 3; j++ {
				_, err := f.orch.ProcessTurn(ctx, "hi", id)
				assert.NoError(t, err)
			}
		}(fmt.Sprintf("learner-%d", i))
	}
	wg.Wait()

	assert.Equal(t, 5, f.repo.Len())
	for i := 0; i < 5; i++ {
		sess, err := f.store.Get(ctx, fmt.Sprintf("learner-%d", i))
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseLearning, sess.Phase)
	}
}

func TestOrchestrator_Reset(t *testing.T) {
	f := newOrchestratorFixture(memory.NewSessionRepository())
	ctx := context.Background()

	f.turn(t, "hello")
	require.NoError(t, f.orch.Reset(ctx, "learner-1"))

	_, err := f.orch.Session(ctx, "learner-1")
	assert.ErrorIs(t, err, domain.ErrUnknownSession)

	resp := f.turn(t, "hello again")
	assert.Equal(t, "1/3", resp.(domain.AssessmentQuestion).Progress)
}

type brokenRepo struct{}

func (brokenRepo) Get(context.Context, string) (*domain.Session, error) {
	return nil, errors.New("redis: connection refused")
}
func (brokenRepo) Save(context.Context, *domain.Session) error { return nil }
func (brokenRepo) Delete(context.Context, string) error        { return nil }
func (brokenRepo) Ping(context.Context) error                  { return errors.New("down") }

func TestOrchestrator_StoreFailure(t *testing.T) {
	f := newOrchestratorFixture(brokenRepo{})

	_, err := f.orch.ProcessTurn(context.Background(), "hello", "learner-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Error(t, f.orch.Ping(context.Background()))
}
