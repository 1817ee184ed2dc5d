package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	got, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	sess := domain.NewSession("s1", time.Now())
	require.NoError(t, repo.Save(ctx, sess))

	sess.LearningPath = append(sess.LearningPath, "mutated after save")

	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.LearningPath)

	got.Phase = domain.PhaseLearning
	again, _ := repo.Get(ctx, "s1")
	assert.Equal(t, domain.PhaseAssessment, again.Phase)

	require.NoError(t, repo.Delete(ctx, "s1"))
	assert.Equal(t, 0, repo.Len())
	assert.NoError(t, repo.Ping(ctx))
}
