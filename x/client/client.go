// Package client implements the surface registry and command dispatch of the
// rendering pipeline: inbound commands are routed to per-surface decoders,
// completed paints and per-packet errors flow back out as reports.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/remoteview/renderer/metrics"
	"github.com/remoteview/renderer/x/decoder"
	"github.com/remoteview/renderer/x/encoding"
	"github.com/remoteview/renderer/x/frametick"
)

type client struct {
	log    zerolog.Logger
	router CommandRouter
	caps   *encoding.Capabilities

	imageDec     decoder.ImageDecoder
	videoFactory decoder.VideoDecoderFactory
	sched        frametick.Scheduler
	reporter     Reporter
	debugDefault bool
	now          func() time.Time

	mu       sync.RWMutex
	surfaces map[string]*decoder.SurfaceDecoder

	metrics    *Metrics
	decMetrics *decoder.Metrics
	cmdCount   atomic.Uint64
	started    time.Time
}

// New creates a client. The capability set is computed here, once, from the
// configured backends and never changes afterwards.
func New(log zerolog.Logger, opts ...Option) (Client, error) {
	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}

	if config.ImageDecoder == nil {
		config.ImageDecoder = decoder.NewStdImageDecoder()
	}
	if config.Scheduler == nil {
		config.Scheduler = frametick.Immediate{}
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	c := &client{
		log:          log.With().Str("component", "client").Logger(),
		router:       NewCommandRouter(),
		caps:         encoding.NewCapabilities(config.VideoDecoderFactory != nil),
		imageDec:     config.ImageDecoder,
		videoFactory: config.VideoDecoderFactory,
		sched:        config.Scheduler,
		reporter:     config.Reporter,
		debugDefault: config.DebugOverlay,
		now:          config.Now,
		surfaces:     make(map[string]*decoder.SurfaceDecoder),
		metrics:      NewMetrics(),
		decMetrics:   decoder.NewMetrics(),
		started:      time.Now(),
	}

	c.router.Register(CheckCommandType, c.handleCheck)
	c.router.Register(BindCommandType, c.handleBind)
	c.router.Register(DecodeCommandType, c.handleDecode)
	c.router.Register(EndOfStreamCommandType, c.handleEndOfStream)
	c.router.Register(RedrawCommandType, c.handleRedraw)
	c.router.Register(ResizeCommandType, c.handleResize)
	c.router.Register(RemoveCommandType, c.handleRemove)

	return c, nil
}

// HandleCommand routes one inbound command. Unrecognized command kinds are
// logged and dropped, never fatal.
func (c *client) HandleCommand(ctx context.Context, cmd any) error {
	c.cmdCount.Add(1)
	c.metrics.CommandsTotal.WithLabelValues(commandName(cmd)).Inc()

	err := c.router.Route(ctx, cmd)
	if errors.Is(err, ErrUnknownCommand) {
		c.metrics.UnknownCommands.Inc()
		c.log.Warn().Str("command", fmt.Sprintf("%T", cmd)).Msg("Unknown command dropped")
		return nil
	}
	return err
}

// Check returns the intersection of the requested encodings with the
// capability set.
func (c *client) Check(requested []string) []string {
	return c.caps.Check(requested)
}

func (c *client) handleCheck(_ context.Context, cmd any) error {
	check := cmd.(CheckCommand)
	supported := c.caps.Check(check.Requested)

	c.log.Debug().
		Strs("requested", check.Requested).
		Strs("supported", supported).
		Msg("Capability check")

	if check.Reply != nil {
		check.Reply(supported)
	}
	return nil
}

func (c *client) handleBind(_ context.Context, cmd any) error {
	bind := cmd.(BindCommand)
	if bind.Surface == nil {
		return fmt.Errorf("client: bind %q without a rendering surface", bind.SurfaceID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.surfaces[bind.SurfaceID]; exists {
		return fmt.Errorf("%w: %q", ErrSurfaceExists, bind.SurfaceID)
	}

	cfg := decoder.DefaultConfig(c.log, bind.SurfaceID, bind.Surface)
	cfg.ImageDecoder = c.imageDec
	cfg.VideoDecoderFactory = c.videoFactory
	cfg.Scheduler = c.sched
	cfg.Debug = bind.Debug || c.debugDefault
	cfg.Now = c.now
	cfg.Metrics = c.decMetrics
	cfg.OnCompletion = c.packetCompleted
	cfg.OnError = c.packetFailed

	dec, err := decoder.NewSurfaceDecoder(cfg)
	if err != nil {
		return fmt.Errorf("client: bind %q: %w", bind.SurfaceID, err)
	}

	c.surfaces[bind.SurfaceID] = dec
	c.metrics.SurfacesRegistered.Set(float64(len(c.surfaces)))

	w, h := dec.Size()
	c.log.Info().
		Str("surface_id", bind.SurfaceID).
		Int("width", w).
		Int("height", h).
		Bool("debug", cfg.Debug).
		Msg("Surface bound")
	return nil
}

func (c *client) handleDecode(_ context.Context, cmd any) error {
	pkt := cmd.(DecodeCommand).Packet
	if pkt == nil {
		return errors.New("client: decode command without packet")
	}
	pkt.ResolveKind()

	dec, err := c.lookup(pkt.SurfaceID)
	if err != nil {
		pkt.Payload = nil
		c.failPacket(pkt, err)
		return err
	}

	dec.Enqueue(pkt)
	return nil
}

func (c *client) handleEndOfStream(_ context.Context, cmd any) error {
	eos := cmd.(EndOfStreamCommand)
	dec, err := c.lookup(eos.SurfaceID)
	if err != nil {
		return err
	}
	dec.RequestClose()
	return nil
}

func (c *client) handleRedraw(_ context.Context, cmd any) error {
	redraw := cmd.(RedrawCommand)
	dec, err := c.lookup(redraw.SurfaceID)
	if err != nil {
		return err
	}
	return dec.Redraw()
}

func (c *client) handleResize(_ context.Context, cmd any) error {
	resize := cmd.(ResizeCommand)
	dec, err := c.lookup(resize.SurfaceID)
	if err != nil {
		return err
	}
	dec.Resize(resize.Width, resize.Height)
	return nil
}

func (c *client) handleRemove(_ context.Context, cmd any) error {
	remove := cmd.(RemoveCommand)

	c.mu.Lock()
	dec, exists := c.surfaces[remove.SurfaceID]
	if exists {
		delete(c.surfaces, remove.SurfaceID)
		c.metrics.SurfacesRegistered.Set(float64(len(c.surfaces)))
	}
	known := c.surfaceIDsLocked()
	c.mu.Unlock()

	if !exists {
		return unknownSurface(remove.SurfaceID, known)
	}

	// Removal is immediate; the decoder drains and closes on its own.
	dec.RequestClose()
	c.log.Info().Str("surface_id", remove.SurfaceID).Msg("Surface removed")
	return nil
}

// lookup resolves a surface id, counting and describing misses.
func (c *client) lookup(surfaceID string) (*decoder.SurfaceDecoder, error) {
	c.mu.RLock()
	dec, exists := c.surfaces[surfaceID]
	known := c.surfaceIDsLocked()
	c.mu.RUnlock()

	if !exists {
		c.metrics.UnknownSurfaces.Inc()
		return nil, unknownSurface(surfaceID, known)
	}
	return dec, nil
}

func unknownSurface(surfaceID string, known []string) error {
	return fmt.Errorf("%w: %q (known: %v)", ErrUnknownSurface, surfaceID, known)
}

func (c *client) packetCompleted(pkt *decoder.Packet, decodeStart time.Time) {
	if c.reporter == nil {
		return
	}
	c.reporter.Completed(CompletionReport{Packet: pkt, DecodeStart: decodeStart})
}

func (c *client) failPacket(pkt *decoder.Packet, err error) {
	if c.reporter == nil {
		return
	}
	c.reporter.Failed(ErrorReport{Packet: pkt, Message: err.Error()})
}

func (c *client) packetFailed(pkt *decoder.Packet, err error) {
	c.failPacket(pkt, err)
}

// SurfaceIDs lists the registered surface ids.
func (c *client) SurfaceIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.surfaceIDsLocked()
}

func (c *client) surfaceIDsLocked() []string {
	ids := make([]string, 0, len(c.surfaces))
	for id := range c.surfaces {
		ids = append(ids, id)
	}
	return ids
}

// GetStats returns current statistics.
func (c *client) GetStats() map[string]any {
	c.mu.RLock()
	ids := c.surfaceIDsLocked()
	c.mu.RUnlock()

	return map[string]any{
		"uptime_seconds":     time.Since(c.started).Seconds(),
		"commands_processed": c.cmdCount.Load(),
		"surfaces_count":     len(ids),
		"surface_ids":        ids,
		"encodings":          c.caps.List(),
	}
}

// MetricsRegistries exposes the dispatch and decode registries.
func (c *client) MetricsRegistries() []*metrics.ComponentRegistry {
	return []*metrics.ComponentRegistry{
		c.metrics.Registry(),
		c.decMetrics.Registry(),
	}
}

// Stop requests a graceful close on every registered surface and empties
// the registry. In-flight and queued work still drains per surface.
func (c *client) Stop(_ context.Context) error {
	c.mu.Lock()
	surfaces := c.surfaces
	c.surfaces = make(map[string]*decoder.SurfaceDecoder)
	c.metrics.SurfacesRegistered.Set(0)
	c.mu.Unlock()

	for id, dec := range surfaces {
		dec.RequestClose()
		c.log.Debug().Str("surface_id", id).Msg("Surface close requested")
	}

	c.log.Info().
		Uint64("commands_processed", c.cmdCount.Load()).
		Int("surfaces_closed", len(surfaces)).
		Msg("Client stopped")
	return nil
}
