package client

import (
	"context"
	"time"

	"github.com/remoteview/renderer/metrics"
	"github.com/remoteview/renderer/x/decoder"
)

// Client is the command-dispatch entry point of the rendering pipeline: it
// owns the surface registry and routes inbound commands to the per-surface
// decoders.
type Client interface {
	// HandleCommand routes one inbound command.
	HandleCommand(ctx context.Context, cmd any) error

	// Check returns the subset of requested encodings this client decodes.
	Check(requested []string) []string

	// SurfaceIDs lists the currently registered surface ids.
	SurfaceIDs() []string

	// GetStats returns current statistics.
	GetStats() map[string]any

	// MetricsRegistries exposes the component registries for the metrics
	// endpoint.
	MetricsRegistries() []*metrics.ComponentRegistry

	// Stop gracefully closes every registered surface and deregisters it.
	Stop(ctx context.Context) error
}

// CompletionReport is emitted once per painted packet. The packet has been
// mutated by the paint engine: tag overwritten, payload cleared, decode time
// recorded in its options.
type CompletionReport struct {
	Packet      *decoder.Packet
	DecodeStart time.Time
}

// ErrorReport is emitted once per failed packet. The packet's payload is
// cleared before the report is built, so reports never carry raw payload
// bytes.
type ErrorReport struct {
	Packet  *decoder.Packet
	Message string
}

// Reporter receives outbound reports destined for the protocol layer.
type Reporter interface {
	Completed(report CompletionReport)
	Failed(report ErrorReport)
}
