package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP API instrumentation.
var (
	HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainsight",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route and status code",
	}, []string{"route", "code"})

	HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainsight",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by route",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16),
	}, []string{"route"})
)
