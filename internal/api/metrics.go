package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perp_stats",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status_code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "perp_stats",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	datasetNoDataTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perp_stats",
		Subsystem: "http",
		Name:      "dataset_no_data_total",
		Help:      "Dataset requests answered without data in the window.",
	}, []string{"chain", "dataset"})
)
