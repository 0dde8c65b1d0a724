package client

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/remoteview/renderer/metrics"
)

// Metrics holds dispatch-level metrics.
type Metrics struct {
	registry *metrics.ComponentRegistry

	CommandsTotal      *prometheus.CounterVec
	UnknownCommands    prometheus.Counter
	UnknownSurfaces    prometheus.Counter
	SurfacesRegistered prometheus.Gauge
}

// NewMetrics creates dispatch metrics.
func NewMetrics() *Metrics {
	reg := metrics.NewComponentRegistry("renderer", "client")

	return &Metrics{
		registry: reg,

		CommandsTotal: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "commands_total",
			Help: "Total inbound commands, by kind",
		}, []string{"kind"}),

		UnknownCommands: reg.NewCounter(prometheus.CounterOpts{
			Name: "unknown_commands_total",
			Help: "Total commands dropped for an unrecognized kind",
		}),

		UnknownSurfaces: reg.NewCounter(prometheus.CounterOpts{
			Name: "unknown_surfaces_total",
			Help: "Total commands referencing an unregistered surface id",
		}),

		SurfacesRegistered: reg.NewGauge(prometheus.GaugeOpts{
			Name: "surfaces_registered",
			Help: "Surfaces currently in the registry",
		}),
	}
}

// Registry exposes the component registry for the metrics endpoint.
func (m *Metrics) Registry() *metrics.ComponentRegistry {
	return m.registry
}
