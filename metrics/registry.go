package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ComponentRegistry scopes metrics to one component via a shared namespace
// and per-component subsystem, backed by its own prometheus registry so
// components (and tests) never collide on metric names.
type ComponentRegistry struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry
}

// NewComponentRegistry creates a registry for a component.
func NewComponentRegistry(namespace, subsystem string) *ComponentRegistry {
	return &ComponentRegistry{
		namespace: namespace,
		subsystem: subsystem,
		registry:  prometheus.NewRegistry(),
	}
}

// Registry exposes the underlying prometheus registry for gathering.
func (r *ComponentRegistry) Registry() *prometheus.Registry {
	return r.registry
}

// NewCounter creates and registers a counter.
func (r *ComponentRegistry) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	c := prometheus.NewCounter(opts)
	r.registry.MustRegister(c)
	return c
}

// NewCounterVec creates and registers a counter vector.
func (r *ComponentRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	c := prometheus.NewCounterVec(opts, labels)
	r.registry.MustRegister(c)
	return c
}

// NewGauge creates and registers a gauge.
func (r *ComponentRegistry) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	g := prometheus.NewGauge(opts)
	r.registry.MustRegister(g)
	return g
}

// NewGaugeVec creates and registers a gauge vector.
func (r *ComponentRegistry) NewGaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	g := prometheus.NewGaugeVec(opts, labels)
	r.registry.MustRegister(g)
	return g
}

// NewHistogram creates and registers a histogram.
func (r *ComponentRegistry) NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	h := prometheus.NewHistogram(opts)
	r.registry.MustRegister(h)
	return h
}

// NewHistogramVec creates and registers a histogram vector.
func (r *ComponentRegistry) NewHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	opts.Namespace = r.namespace
	opts.Subsystem = r.subsystem
	h := prometheus.NewHistogramVec(opts, labels)
	r.registry.MustRegister(h)
	return h
}

// Handler serves all given component registries on one /metrics endpoint.
func Handler(registries ...*ComponentRegistry) http.Handler {
	gatherers := make(prometheus.Gatherers, 0, len(registries))
	for _, r := range registries {
		gatherers = append(gatherers, r.registry)
	}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}
