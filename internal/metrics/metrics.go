package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Finalize outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeAlreadyFinalized = "already_finalized"
	OutcomeError            = "error"
)

// Ranking sources.
const (
	SourceCache = "cache"
	SourceStore = "store"
	SourceEmpty = "empty"
)

var (
	finalizeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbt_finalize_total",
			Help: "Finalize attempts by outcome",
		},
		[]string{"outcome"},
	)

	finalizeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cbt_finalize_duration_seconds",
			Help:    "Time spent finalizing an attempt",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	scoreStatusTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbt_score_status_total",
			Help: "Finalized attempts by proficiency band",
		},
		[]string{"status"},
	)

	rankingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbt_ranking_requests_total",
			Help: "Ranking requests by where the answer came from",
		},
		[]string{"source"},
	)
)

func ObserveFinalize(outcome string, elapsed time.Duration) {
	finalizeTotal.WithLabelValues(outcome).Inc()
	finalizeDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func ObserveScoreStatus(status string) {
	scoreStatusTotal.WithLabelValues(status).Inc()
}

func ObserveRanking(source string) {
	rankingRequests.WithLabelValues(source).Inc()
}
