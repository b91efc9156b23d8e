package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dogsearch_upstream_requests_total",
			Help: "Requests sent to the dog API, by status code and method",
		},
		[]string{"code", "method"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dogsearch_upstream_request_duration_seconds",
			Help:    "Latency of requests sent to the dog API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	Searches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dogsearch_searches_total",
			Help: "Search refreshes by outcome (ok, search_failed, details_failed, stale)",
		},
		[]string{"outcome"},
	)

	MatchesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dogsearch_matches_total",
			Help: "Match generations by outcome",
		},
		[]string{"outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dogsearch_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)
)
