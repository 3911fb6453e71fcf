// Package telemetry exposes prometheus metrics for provider resolution
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "bgg"

// Metrics records resolution activity on a private registry
// a nil *Metrics is valid and records nothing
type Metrics struct {
	resolutions      *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	providerResults  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New builds the collectors and registers them, plus the go and process collectors
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Resolutions by engine, kind (one|group) and outcome (ok|error)",
			},
			[]string{"engine", "kind", "outcome"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Cache lookups by engine, level (entry|group) and result (hit|miss|error)",
			},
			[]string{"engine", "level", "result"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_duration_seconds",
				Help:      "Wall time of provider calls",
				Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"engine", "provider"},
		),
		providerResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_results_total",
				Help:      "Status results by provider and status",
			},
			[]string{"engine", "provider", "status"},
		),
	}

	registry.MustRegister(
		m.resolutions,
		m.cacheLookups,
		m.providerDuration,
		m.providerResults,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Resolution counts one finished resolution
func (m *Metrics) Resolution(engine, kind string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.resolutions.WithLabelValues(engine, kind, outcome).Inc()
}

// CacheLookup counts one cache lookup
func (m *Metrics) CacheLookup(engine, level, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(engine, level, result).Inc()
}

// ProviderDone observes the duration of one provider call
func (m *Metrics) ProviderDone(engine, provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(engine, provider).Observe(d.Seconds())
}

// ProviderResult counts one status result
func (m *Metrics) ProviderResult(engine, provider, status string) {
	if m == nil {
		return
	}
	m.providerResults.WithLabelValues(engine, provider, status).Inc()
}
