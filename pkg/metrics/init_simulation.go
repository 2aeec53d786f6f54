package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Monte Carlo simulation instrumentation.
var (
	SimulationsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainsight",
		Subsystem: "simulation",
		Name:      "runs_total",
		Help:      "Monte Carlo simulations executed, by scenario",
	}, []string{"scenario"})

	SimulationIterations = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "chainsight",
		Subsystem: "simulation",
		Name:      "iterations_total",
		Help:      "Total Monte Carlo iterations executed",
	})

	SimulationDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: "chainsight",
		Subsystem: "simulation",
		Name:      "duration_seconds",
		Help:      "Wall-clock duration of a full simulation run",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	SimulationErrors = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "chainsight",
		Subsystem: "simulation",
		Name:      "errors_total",
		Help:      "Simulation requests rejected for invalid parameters",
	})
)
