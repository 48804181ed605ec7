// Package metrics exposes Prometheus collectors of the booking engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// Module provides the registry, the transition recorder and the scrape handler.
var Module = fx.Provide(New)

// Metrics owns a private registry so tests and multiple apps do not collide.
type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
}

// New registers collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guidee_order_transitions_total",
		Help: "Order operations by outcome.",
	}, []string{"operation", "result"})
	registry.MustRegister(transitions)

	return &Metrics{registry: registry, transitions: transitions}
}

// Record counts one attempt of operation with result.
func (m *Metrics) Record(operation, result string) {
	m.transitions.WithLabelValues(operation, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
