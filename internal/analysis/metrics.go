package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chronicled_analysis_total",
		Help: "Total conversations analyzed.",
	})

	analysisRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chronicled_analysis_recovered_total",
		Help: "Analyses that panicked and were converted to empty results.",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chronicled_analysis_duration_seconds",
		Help:    "Time spent analyzing one conversation.",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	})

	suggestionsEmitted = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chronicled_analysis_suggestions",
		Help:    "Suggestions emitted per analysis after ranking and truncation.",
		Buckets: []float64{0, 1, 2, 3},
	})
)
