package decoder

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/remoteview/renderer/metrics"
)

// Metrics holds decode-pipeline metrics. One instance is shared by every
// surface decoder of a client.
type Metrics struct {
	registry *metrics.ComponentRegistry

	PacketsDecoded *prometheus.CounterVec
	PacketsPainted *prometheus.CounterVec
	DecodeErrors   *prometheus.CounterVec
	DecodeDuration *prometheus.HistogramVec
	PayloadBytes   *prometheus.HistogramVec
	QueueDepth     *prometheus.GaugeVec
	SurfacesActive prometheus.Gauge
}

// NewMetrics creates decode-pipeline metrics.
func NewMetrics() *Metrics {
	reg := metrics.NewComponentRegistry("renderer", "decoder")

	return &Metrics{
		registry: reg,

		PacketsDecoded: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "packets_decoded_total",
			Help: "Total packets decoded, by source encoding",
		}, []string{"encoding"}),

		PacketsPainted: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "packets_painted_total",
			Help: "Total packets painted, by paint kind",
		}, []string{"kind"}),

		DecodeErrors: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "decode_errors_total",
			Help: "Total per-packet decode errors, by reason",
		}, []string{"reason"}),

		DecodeDuration: reg.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "decode_duration_seconds",
			Help:    "Time from decode start to paint completion",
			Buckets: metrics.DurationBuckets,
		}, []string{"encoding"}),

		PayloadBytes: reg.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payload_size_bytes",
			Help:    "Encoded payload sizes, by source encoding",
			Buckets: metrics.SizeBuckets,
		}, []string{"encoding"}),

		QueueDepth: reg.NewGaugeVec(prometheus.GaugeOpts{
			Name: "queue_depth",
			Help: "Packets queued per surface",
		}, []string{"surface_id"}),

		SurfacesActive: reg.NewGauge(prometheus.GaugeOpts{
			Name: "surfaces_active",
			Help: "Surface decoders not yet closed",
		}),
	}
}

// Registry exposes the component registry for the metrics endpoint.
func (m *Metrics) Registry() *metrics.ComponentRegistry {
	return m.registry
}
