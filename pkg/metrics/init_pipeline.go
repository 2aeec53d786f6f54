package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stage instrumentation.
var (
	PipelineRunsTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "chainsight",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Completed analysis pipeline runs",
	})

	PipelineRunErrors = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: "chainsight",
		Subsystem: "pipeline",
		Name:      "run_errors_total",
		Help:      "Pipeline runs rejected during graph construction or scoring",
	})

	PipelineStageDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainsight",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Wall-clock duration per pipeline stage",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"stage"})

	GraphNodes = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "chainsight",
		Subsystem: "pipeline",
		Name:      "graph_nodes",
		Help:      "Supplier count of the most recently built graph",
	})

	GraphEdges = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "chainsight",
		Subsystem: "pipeline",
		Name:      "graph_edges",
		Help:      "Dependency count of the most recently built graph",
	})

	SPOFsDetected = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "chainsight",
		Subsystem: "pipeline",
		Name:      "spofs_detected",
		Help:      "Single points of failure flagged in the most recent run",
	})
)
