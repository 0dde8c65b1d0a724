package client

import (
	"time"

	"github.com/remoteview/renderer/x/decoder"
	"github.com/remoteview/renderer/x/frametick"
)

// Option configures the client.
type Option func(*Config)

// Config holds client configuration.
type Config struct {
	ImageDecoder        decoder.ImageDecoder
	VideoDecoderFactory decoder.VideoDecoderFactory
	Scheduler           frametick.Scheduler
	Reporter            Reporter
	DebugOverlay        bool
	Now                 func() time.Time
}

// WithImageDecoder sets the image decode backend.
func WithImageDecoder(dec decoder.ImageDecoder) Option {
	return func(c *Config) {
		c.ImageDecoder = dec
	}
}

// WithVideoDecoderFactory enables the native video decode path. Without it
// the capability set carries no video encodings.
func WithVideoDecoderFactory(factory decoder.VideoDecoderFactory) Option {
	return func(c *Config) {
		c.VideoDecoderFactory = factory
	}
}

// WithScheduler sets the deferred-paint scheduler.
func WithScheduler(sched frametick.Scheduler) Option {
	return func(c *Config) {
		c.Scheduler = sched
	}
}

// WithReporter sets the outbound report sink.
func WithReporter(reporter Reporter) Option {
	return func(c *Config) {
		c.Reporter = reporter
	}
}

// WithDebugOverlay enables the diagnostic overlay on every bound surface.
func WithDebugOverlay(enabled bool) Option {
	return func(c *Config) {
		c.DebugOverlay = enabled
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}
