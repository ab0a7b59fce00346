package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// classesAnalyzedTotal counts class visits completed by the engine.
	classesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fraglint",
		Subsystem: "engine",
		Name:      "classes_analyzed_total",
		Help:      "Total classes visited by all rules",
	})

	// diagnosticsTotal counts reported diagnostics.
	// Labels: rule, severity (info, warning, error, fatal)
	diagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraglint",
		Subsystem: "engine",
		Name:      "diagnostics_total",
		Help:      "Total diagnostics by rule and severity",
	}, []string{"rule", "severity"})

	// rulePanicsTotal counts rule visits aborted by a panic.
	// Labels: rule
	rulePanicsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraglint",
		Subsystem: "engine",
		Name:      "rule_panics_total",
		Help:      "Rule visits that panicked and were skipped",
	}, []string{"rule"})

	// runDurationSeconds measures complete engine runs.
	runDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fraglint",
		Subsystem: "engine",
		Name:      "run_duration_seconds",
		Help:      "Wall time of one analysis run",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	})
)
