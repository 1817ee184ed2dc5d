// Package metrics exposes Prometheus collectors for the tutor.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecolearn"

var (
	// TurnsTotal counts processed turns.
	// Labels: phase (the phase that handled the turn)
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of processed tutoring turns by phase",
		},
		[]string{"phase"},
	)

	// PhaseTransitions counts phase changes.
	// Labels: from, to
	PhaseTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_transitions_total",
			Help:      "Total number of session phase transitions",
		},
		[]string{"from", "to"},
	)

	// GenerationFailures counts generation and probe failures that fell back.
	// Labels: kind (content kind or probe kind)
	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Total number of generation failures replaced by fallback text",
		},
		[]string{"kind"},
	)

	// ContentBatchDuration tracks the wall time of a learning content batch.
	ContentBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "content_batch_duration_seconds",
			Help:      "Duration of learning content batch generation in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// SessionResets counts sessions started from scratch.
	// Labels: reason (created, expired, deleted)
	SessionResets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_resets_total",
			Help:      "Total number of sessions created, expired or deleted",
		},
		[]string{"reason"},
	)
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
