// Package metrics exposes Prometheus collectors for provider lookups.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the lookup service.
type Metrics struct {
	LookupsTotal   *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates and registers the lookup metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the lookup metrics on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credentialguard_lookups_total",
			Help: "Total number of NPI lookups by outcome",
		}, []string{"outcome"}),
		LookupDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credentialguard_lookup_duration_seconds",
			Help:    "End-to-end NPI lookup latency by outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		gatherer: g,
	}
}

// ObserveLookup records one completed lookup.
func (m *Metrics) ObserveLookup(outcome string, elapsed time.Duration) {
	m.LookupsTotal.WithLabelValues(outcome).Inc()
	m.LookupDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
