package decoder

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/remoteview/renderer/x/frametick"
	"github.com/remoteview/renderer/x/surface"
)

// Config contains all dependencies for one SurfaceDecoder.
type Config struct {
	Logger zerolog.Logger

	// SurfaceID identifies the surface in logs, metrics and reports.
	SurfaceID string

	// Live is the rendering surface paints land on. Required.
	Live surface.Canvas

	// ImageDecoder handles the image encoding set. Required.
	ImageDecoder ImageDecoder

	// VideoDecoderFactory lazily creates the video backend on the first
	// video packet. Nil disables video decoding.
	VideoDecoderFactory VideoDecoderFactory

	// Scheduler defers paints and snapshot refreshes to the next rendering
	// opportunity.
	Scheduler frametick.Scheduler

	// Debug enables the diagnostic overlay around painted regions.
	Debug bool

	// Context bounds decode backend calls.
	Context context.Context

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time

	Metrics *Metrics

	// OnCompletion is called once per painted packet, after the paint has
	// been applied and the packet mutated.
	OnCompletion CompletionHook

	// OnError is called once per failed packet with the payload cleared.
	OnError ErrorHook
}

// DefaultConfig returns a config with sensible defaults for optional fields.
func DefaultConfig(logger zerolog.Logger, surfaceID string, live surface.Canvas) Config {
	return Config{
		Logger:       logger.With().Str("component", "surface-decoder").Str("surface_id", surfaceID).Logger(),
		SurfaceID:    surfaceID,
		Live:         live,
		ImageDecoder: NewStdImageDecoder(),
		Scheduler:    frametick.Immediate{},
		Context:      context.Background(),
		Now:          time.Now,
		Metrics:      NewMetrics(),
	}
}
