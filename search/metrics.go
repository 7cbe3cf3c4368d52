package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobwizard_searches_total",
			Help: "Total number of searches by the source that produced the result",
		},
		[]string{"origin"},
	)

	VariantAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobwizard_variant_attempts_total",
			Help: "Total number of primary feed queries by ladder rung and outcome",
		},
		[]string{"variant", "outcome"},
	)

	SourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobwizard_source_failures_total",
			Help: "Total number of failed source calls",
		},
		[]string{"source"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobwizard_search_duration_seconds",
			Help:    "Duration of a full search in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 60, 120},
		},
	)
)

// Variant attempt outcomes.
const (
	outcomeHit   = "hit"
	outcomeEmpty = "empty"
	outcomeError = "error"
)
