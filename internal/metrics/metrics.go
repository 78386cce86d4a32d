package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specialist_queries_total",
			Help: "Symptom queries sent to the model, by outcome",
		},
		[]string{"outcome"},
	)

	QueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specialist_query_failures_total",
			Help: "Failed symptom queries, by failure kind",
		},
		[]string{"kind"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "specialist_query_duration_seconds",
			Help:    "Latency of the model call for a symptom query",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"provider"},
	)

	UrgentRecommendations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "specialist_urgent_recommendations_total",
			Help: "Recommendations carrying an urgency warning",
		},
	)

	StaleCompletions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "specialist_stale_completions_total",
			Help: "Query completions discarded because a newer query was started",
		},
	)
)
