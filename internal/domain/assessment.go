package domain

// ProbeKind names one step of the assessment flow
type ProbeKind string

const (
	ProbeGeneralKnowledge     ProbeKind = "general_environmental_knowledge"
	ProbeSpecificInterests    ProbeKind = "specific_interests"
	ProbeCurrentUnderstanding ProbeKind = "current_understanding"
	ProbeMotivationLevel      ProbeKind = "motivation_level"
)

// DefaultAssessmentFlow is the probe order used when none is configured
var DefaultAssessmentFlow = []ProbeKind{
	ProbeGeneralKnowledge,
	ProbeSpecificInterests,
	ProbeCurrentUnderstanding,
	ProbeMotivationLevel,
}

// DefaultLearningPath is assigned when assessment completes
var DefaultLearningPath = []string{
	"Introduction to Environmental Science",
	"Climate Change Fundamentals",
	"Sustainable Living Practices",
	"Conservation and Biodiversity",
	"Environmental Policy and Action",
}
