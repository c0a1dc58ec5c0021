package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credit_approval_web",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome",
		},
		[]string{"outcome"},
	)

	PredictionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "credit_approval_web",
			Name:      "prediction_request_duration_seconds",
			Help:      "Round trip to the prediction service",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	BatchRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credit_approval_web",
			Name:      "batch_rows_total",
			Help:      "CSV rows sent for prediction by outcome",
		},
		[]string{"outcome"},
	)

	DisplayRegionWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credit_approval_web",
			Name:      "display_region_writes_total",
			Help:      "Times the shared result region was overwritten",
		},
		[]string{"kind"},
	)
)

const (
	OutcomeSuccess     = "success"
	OutcomeFailed      = "failed"
	OutcomeRateLimited = "rate_limited"
)
