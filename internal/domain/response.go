package domain

import (
	"encoding/json"
	"fmt"
)

// ResponseKind is the wire tag of a tutor response
type ResponseKind string

const (
	KindAssessmentQuestion ResponseKind = "assessment_question"
	KindLearningStart      ResponseKind = "learning_start"
	KindLearningContent    ResponseKind = "learning_content"
	KindProgressCheck      ResponseKind = "progress_check"
	KindProgressEvaluation ResponseKind = "progress_evaluation"
)

// Response is the closed set of replies a turn can produce
type Response interface {
	Kind() ResponseKind
	isResponse()
}

// AssessmentQuestion is the next probe question of the assessment phase
type AssessmentQuestion struct {
	Question string `json:"question"`
	Progress string `json:"progress"`
	Complete bool   `json:"assessment_complete"`
}

// LearningStart announces the end of assessment and the assigned path
type LearningStart struct {
	Message      string   `json:"message"`
	LearningPath []string `json:"learning_path"`
}

// ContentKind identifies a slot of the content batch
type ContentKind string

const (
	ContentExplanation      ContentKind = "explanation"
	ContentExamples         ContentKind = "examples"
	ContentVisualSuggestion ContentKind = "visual_suggestion"
)

// ContentKinds is the fixed slot order of a content batch
var ContentKinds = []ContentKind{ContentExplanation, ContentExamples, ContentVisualSuggestion}

// ContentItem is one slot of a content batch. Error is set when generation
// failed and Content holds the fallback text.
type ContentItem struct {
	Kind    ContentKind `json:"kind"`
	Content string      `json:"content"`
	Error   string      `json:"error,omitempty"`
}

// Failed reports whether the slot degraded to its fallback
func (c ContentItem) Failed() bool {
	return c.Error != ""
}

// LearningContent is the result of a learning turn
type LearningContent struct {
	Content         []ContentItem  `json:"content"`
	ProgressCheck   *ProgressCheck `json:"progress_check,omitempty"`
	SessionProgress int            `json:"session_progress"`
}

// ProgressCheck is an informational progress snapshot
type ProgressCheck struct {
	Percentage        float64 `json:"progress_percentage"`
	InteractionsCount int     `json:"interactions_count"`
	Message           string  `json:"message"`
}

// ProgressEvaluation decides whether the learner keeps learning
type ProgressEvaluation struct {
	NeedsMoreLearning bool   `json:"needs_more_learning"`
	TotalInteractions int    `json:"total_interactions"`
	Recommendation    string `json:"recommendation"`
	NextStep          string `json:"next_step,omitempty"`
}

// NextStepContinueLearning marks an evaluation that loops back to learning
const NextStepContinueLearning = "continuing_learning"

func (AssessmentQuestion) Kind() ResponseKind { return KindAssessmentQuestion }
func (LearningStart) Kind() ResponseKind      { return KindLearningStart }
func (LearningContent) Kind() ResponseKind    { return KindLearningContent }
func (ProgressCheck) Kind() ResponseKind      { return KindProgressCheck }
func (ProgressEvaluation) Kind() ResponseKind { return KindProgressEvaluation }

func (AssessmentQuestion) isResponse() {}
func (LearningStart) isResponse()      {}
func (LearningContent) isResponse()    {}
func (ProgressCheck) isResponse()      {}
func (ProgressEvaluation) isResponse() {}

// EncodeResponse renders r as a JSON object with a "type" discriminator
func EncodeResponse(r Response) (json.RawMessage, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode response fields: %w", err)
	}

	tag, _ := json.Marshal(r.Kind())
	fields["type"] = tag

	return json.Marshal(fields)
}

// DecodeResponse is the inverse of EncodeResponse
func DecodeResponse(data json.RawMessage) (Response, error) {
	var envelope struct {
		Type ResponseKind `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response type: %w", err)
	}

	var (
		r   Response
		err error
	)
	switch envelope.Type {
	case KindAssessmentQuestion:
		var v AssessmentQuestion
		err = json.Unmarshal(data, &v)
		r = v
	case KindLearningStart:
		var v LearningStart
		err = json.Unmarshal(data, &v)
		r = v
	case KindLearningContent:
		var v LearningContent
		err = json.Unmarshal(data, &v)
		r = v
	case KindProgressCheck:
		var v ProgressCheck
		err = json.Unmarshal(data, &v)
		r = v
	case KindProgressEvaluation:
		var v ProgressEvaluation
		err = json.Unmarshal(data, &v)
		r = v
	default:
		return nil, fmt.Errorf("unknown response type: %q", envelope.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", envelope.Type, err)
	}
	return r, nil
}
