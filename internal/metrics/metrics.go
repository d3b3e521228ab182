package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumind_files_processed_total",
			Help: "Uploaded files by outcome status",
		},
		[]string{"status"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resumind_extraction_duration_seconds",
			Help:    "Time spent turning a raw document into text",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	RecomputePasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resumind_recompute_passes_total",
			Help: "Full report recompute passes",
		},
	)

	RecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resumind_recompute_duration_seconds",
			Help:    "Duration of a full report recompute pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	CommandsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumind_commands_total",
			Help: "Transport commands by type and outcome",
		},
		[]string{"type", "outcome"},
	)
)
