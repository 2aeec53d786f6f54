package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session store instrumentation.
var (
	SessionsActive = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "chainsight",
		Subsystem: "session",
		Name:      "active",
		Help:      "Sessions currently held in memory",
	})

	SessionsCreated = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "chainsight",
		Subsystem: "session",
		Name:      "created_total",
		Help:      "Sessions created",
	})

	SessionsExpired = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "chainsight",
		Subsystem: "session",
		Name:      "expired_total",
		Help:      "Sessions removed after idle TTL expiry",
	})

	SessionsEvicted = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "chainsight",
		Subsystem: "session",
		Name:      "evicted_total",
		Help:      "Sessions evicted to stay under the capacity cap",
	})

	SessionBuildsInFlight = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "chainsight",
		Subsystem: "session",
		Name:      "builds_in_flight",
		Help:      "Graph builds currently holding a build slot",
	})
)
