// Package metrics exposes Prometheus instrumentation for the analytics
// service. All collectors register against a dedicated registry so tests can
// gather without touching the global default.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every ChainSight collector.
var Registry = prometheus.NewRegistry()

// Handler returns an HTTP handler serving the ChainSight registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
