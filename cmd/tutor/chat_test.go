package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedTutor struct {
	replies []domain.Response
	err     error
	inputs  []string
	ids     []string
}

func (s *scriptedTutor) ProcessTurn(_ context.Context, raw, sessionID string) (domain.Response, error) {
	s.inputs = append(s.inputs, raw)
	s.ids = append(s.ids, sessionID)
	if s.err != nil {
		return nil, s.err
	}
	resp := s.replies[0]
	s.replies = s.replies[1:]
	return resp, nil
}

func TestRunChat_RendersEachKind(t *testing.T) {
	tutor := &scriptedTutor{replies: []domain.Response{
		domain.AssessmentQuestion{Question: "What do you know about carbon?", Progress: "1/4"},
		domain.LearningStart{Message: "Let's go", LearningPath: []string{"Climate", "Oceans"}},
		domain.LearningContent{
			Content: []domain.ContentItem{
				{Kind: domain.ContentExplanation, Content: "It warms."},
				{Kind: domain.ContentExamples, Content: "Cars."},
				{Kind: domain.ContentVisualSuggestion, Content: "A chart."},
			},
			ProgressCheck: &domain.ProgressCheck{Message: "Halfway there"},
		},
		domain.ProgressEvaluation{Recommendation: "Keep going", TotalInteractions: 4},
	}}

	in := strings.NewReader("hello\nyes\nwhat is co2\nhow am I doing\nbye\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), tutor, "s1", in, &out))

	text := out.String()
	assert.Contains(t, text, "EcoLearn: What do you know about carbon?")
	assert.Contains(t, text, "Assessment Progress: 1/4")
	assert.Contains(t, text, "  2. Oceans")
	assert.Contains(t, text, "EXPLANATION: It warms.")
	assert.Contains(t, text, "EXAMPLES: Cars.")
	assert.Contains(t, text, "VISUAL AID: A chart.")
	assert.Contains(t, text, "PROGRESS: Halfway there")
	assert.Contains(t, text, "EcoLearn: Keep going")
	assert.Contains(t, text, "Goodbye!")

	assert.Equal(t, []string{"hello", "yes", "what is co2", "how am I doing"}, tutor.inputs)
	assert.Equal(t, []string{"s1", "s1", "s1", "s1"}, tutor.ids)
}

func TestRunChat_EmptyInputReprompts(t *testing.T) {
	tutor := &scriptedTutor{}
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), tutor, "s1", strings.NewReader("\n   \nEXIT\n"), &out))

	assert.Equal(t, 2, strings.Count(out.String(), "Please type something to continue..."))
	assert.Empty(t, tutor.inputs)
}

func TestRunChat_ErrorsDoNotEndTheChat(t *testing.T) {
	tutor := &scriptedTutor{err: errors.New("store offline")}
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), tutor, "s1", strings.NewReader("hi\nagain\n"), &out))

	assert.Equal(t, 2, strings.Count(out.String(), "Error: store offline"))
	assert.Contains(t, out.String(), "Session ended.")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
		assert.NotEmpty(t, cmd.Short)
		assert.NotEmpty(t, cmd.Long)
	}
	assert.True(t, names["chat"])
	assert.True(t, names["reset"])

	flag := rootCmd.PersistentFlags().Lookup("session")
	require.NotNil(t, flag)
	assert.Equal(t, "default_session", flag.DefValue)
}
