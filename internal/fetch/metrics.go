package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perp_stats",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total number of upstream requests by result.",
	}, []string{"upstream", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "perp_stats",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Upstream request latency in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"upstream"})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perp_stats",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Response cache lookups by result.",
	}, []string{"upstream", "result"})
)
