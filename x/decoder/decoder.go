// Package decoder implements the per-surface decode/paint pipeline: an
// ordered queue with at-most-one decode in flight per surface, dispatch to
// the image or video backend by encoding tag, and the paint protocol that
// applies decoded results to the rendering surface.
package decoder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/remoteview/renderer/x/encoding"
	"github.com/remoteview/renderer/x/frametick"
	"github.com/remoteview/renderer/x/surface"
)

// State is the surface decoder lifecycle state.
type State int

const (
	// StateActive accepts and processes packets.
	StateActive State = iota
	// StateClosing drains packets queued before the close request.
	StateClosing
	// StateClosed is terminal; late packets are silently dropped.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// SurfaceDecoder owns all state of one display surface: the live rendering
// surface, a snapshot for redraw-on-demand, the packet queue and the decode
// backend handles. It is safe for concurrent use; the queue serializes all
// decode and paint work.
type SurfaceDecoder struct {
	log zerolog.Logger
	id  string
	ctx context.Context

	mu       sync.Mutex
	state    State
	queue    []*Packet
	draining bool
	live     surface.Canvas
	snap     surface.Canvas
	width    int
	height   int

	// Video backend, lazily initialized on the first video packet and
	// touched only by the drain goroutine thereafter.
	videoDec      VideoDecoder
	videoEncoding string
	cscApplied    bool

	imageDec     ImageDecoder
	videoFactory VideoDecoderFactory
	sched        frametick.Scheduler
	debug        bool
	now          func() time.Time
	metrics      *Metrics
	onCompletion CompletionHook
	onError      ErrorHook
}

// NewSurfaceDecoder binds a decoder to a rendering surface, allocating a
// snapshot surface of matching dimensions.
func NewSurfaceDecoder(cfg Config) (*SurfaceDecoder, error) {
	if cfg.Live == nil {
		return nil, errors.New("decoder: live surface is required")
	}
	if cfg.ImageDecoder == nil {
		return nil, errors.New("decoder: image decoder is required")
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = frametick.Immediate{}
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}

	w, h := cfg.Live.Size()
	d := &SurfaceDecoder{
		log:          cfg.Logger,
		id:           cfg.SurfaceID,
		ctx:          cfg.Context,
		state:        StateActive,
		live:         cfg.Live,
		snap:         surface.NewImageCanvas(w, h),
		width:        w,
		height:       h,
		imageDec:     cfg.ImageDecoder,
		videoFactory: cfg.VideoDecoderFactory,
		sched:        cfg.Scheduler,
		debug:        cfg.Debug,
		now:          cfg.Now,
		metrics:      cfg.Metrics,
		onCompletion: cfg.OnCompletion,
		onError:      cfg.OnError,
	}
	d.metrics.SurfacesActive.Inc()
	return d, nil
}

// ID returns the surface identifier.
func (d *SurfaceDecoder) ID() string { return d.id }

// State returns the current lifecycle state.
func (d *SurfaceDecoder) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Size returns the current surface dimensions.
func (d *SurfaceDecoder) Size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// Enqueue appends a packet to the queue and starts the drain loop if idle.
// After the decoder has closed, the packet is silently dropped: late
// arrivals racing a teardown are tolerated, not errors.
func (d *SurfaceDecoder) Enqueue(pkt *Packet) {
	d.mu.Lock()
	if d.state == StateClosed {
		d.mu.Unlock()
		d.log.Debug().Uint64("seq", pkt.Seq).Str("encoding", pkt.Encoding).Msg("dropping packet for closed surface")
		return
	}
	// During Closing the end-of-stream marker stays at the tail: packets
	// arriving before the marker is processed are still painted.
	if n := len(d.queue); d.state == StateClosing && n > 0 && d.queue[n-1].Kind == encoding.KindControl {
		marker := d.queue[n-1]
		d.queue[n-1] = pkt
		d.queue = append(d.queue, marker)
	} else {
		d.queue = append(d.queue, pkt)
	}
	d.metrics.QueueDepth.WithLabelValues(d.id).Set(float64(len(d.queue)))
	if !d.draining {
		d.draining = true
		go d.drain()
	}
	d.mu.Unlock()
}

// Resize changes the live and snapshot surface dimensions. It is a no-op
// when the dimensions are unchanged or a close has been requested. Queued
// packets keep their coordinates; they are interpreted at decode time.
func (d *SurfaceDecoder) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateActive {
		return
	}
	if width == d.width && height == d.height {
		return
	}
	d.live.Resize(width, height)
	d.snap.Resize(width, height)
	d.width = width
	d.height = height
	d.log.Debug().Int("width", width).Int("height", height).Msg("surface resized")
}

// RequestClose transitions the decoder to Closing and enqueues the
// synthetic end-of-stream marker. Everything enqueued before the request is
// still fully processed; close never discards queued work.
func (d *SurfaceDecoder) RequestClose() {
	d.mu.Lock()
	if d.state != StateActive {
		d.mu.Unlock()
		return
	}
	d.state = StateClosing
	d.queue = append(d.queue, eosPacket(d.id))
	d.metrics.QueueDepth.WithLabelValues(d.id).Set(float64(len(d.queue)))
	if !d.draining {
		d.draining = true
		go d.drain()
	}
	d.mu.Unlock()
	d.log.Debug().Msg("close requested")
}

// Redraw blits the snapshot surface onto the live surface, restoring the
// last settled contents. Valid in any non-closed state.
func (d *SurfaceDecoder) Redraw() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateClosed {
		return ErrClosed
	}
	w, h := d.snap.Size()
	d.live.DrawImage(d.snap.Contents(), 0, 0, w, h)
	return nil
}

// drain pops and processes queue heads until the queue empties. At most one
// drain loop runs per decoder, so at most one decode is in flight.
func (d *SurfaceDecoder) drain() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.draining = false
			d.mu.Unlock()
			return
		}
		pkt := d.queue[0]
		d.queue = d.queue[1:]
		if d.state != StateClosed {
			d.metrics.QueueDepth.WithLabelValues(d.id).Set(float64(len(d.queue)))
		}
		d.mu.Unlock()

		d.process(pkt)
	}
}

// process runs one packet through decode and paint. A failed decode reports
// the error for that packet only; the loop continues with the next head.
func (d *SurfaceDecoder) process(pkt *Packet) {
	start := d.now()

	if pkt.Kind == encoding.KindControl {
		d.endOfStream()
		return
	}

	d.mu.Lock()
	closed := d.state == StateClosed
	d.mu.Unlock()
	if closed {
		// Queued behind the close marker.
		pkt.Payload = nil
		d.log.Debug().Uint64("seq", pkt.Seq).Msg("dropping packet queued behind close marker")
		return
	}

	switch pkt.Kind {
	case encoding.KindPseudo:
		// Scroll and void need no decode step; they still flow through
		// paint to record timing and report completion.
		if pkt.Encoding == encoding.TagScroll {
			if _, ok := pkt.Payload.([]ScrollRect); !ok {
				d.fail(pkt, fmt.Errorf("%w: scroll payload must be shift records", ErrBadPayload))
				return
			}
		}
	case encoding.KindImage:
		if err := d.decodeImage(pkt); err != nil {
			d.fail(pkt, err)
			return
		}
	case encoding.KindVideo:
		if err := d.decodeVideo(pkt); err != nil {
			d.fail(pkt, err)
			return
		}
	default:
		d.fail(pkt, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, pkt.Encoding))
		return
	}

	done := make(chan struct{})
	d.sched.Schedule(func() {
		defer close(done)
		d.paint(pkt, start)
	})
	<-done
}

func (d *SurfaceDecoder) decodeImage(pkt *Packet) error {
	src := encoding.Base(pkt.Encoding)
	if data, ok := pkt.Payload.([]byte); ok {
		d.metrics.PayloadBytes.WithLabelValues(src).Observe(float64(len(data)))
	}

	img, err := d.imageDec.Decode(d.ctx, pkt)
	if err != nil {
		return fmt.Errorf("decoder: %s decode failed: %w", src, err)
	}

	pkt.Payload = img
	pkt.Encoding = encoding.Composite(encoding.BitmapPrefix, src)
	d.metrics.PacketsDecoded.WithLabelValues(src).Inc()
	return nil
}

func (d *SurfaceDecoder) decodeVideo(pkt *Packet) error {
	src := encoding.Base(pkt.Encoding)
	if d.videoFactory == nil {
		return fmt.Errorf("%w: %q (no native video decode path)", ErrUnsupportedEncoding, pkt.Encoding)
	}
	if data, ok := pkt.Payload.([]byte); ok {
		d.metrics.PayloadBytes.WithLabelValues(src).Observe(float64(len(data)))
	}

	if d.videoDec == nil {
		dec, err := d.videoFactory(src)
		if err != nil {
			return fmt.Errorf("decoder: init %s backend: %w", src, err)
		}
		d.videoDec = dec
		d.videoEncoding = src
		d.log.Debug().Str("encoding", src).Msg("video backend initialized")
	}

	if src == encoding.TagH264 && !d.cscApplied {
		if params, ok := pkt.Options[OptionCSC]; ok {
			if err := d.videoDec.Configure(params); err != nil {
				return fmt.Errorf("decoder: csc configuration failed: %w", err)
			}
			d.cscApplied = true
		}
	}

	frame, err := d.videoDec.DecodeFrame(d.ctx, pkt)
	if err != nil {
		return fmt.Errorf("decoder: %s frame decode failed: %w", src, err)
	}

	pkt.Payload = frame
	pkt.Encoding = encoding.Composite(encoding.FramePrefix, src)
	d.metrics.PacketsDecoded.WithLabelValues(src).Inc()
	return nil
}

// fail reports a per-packet error with the payload cleared, so reports
// never retain undecodable buffers.
func (d *SurfaceDecoder) fail(pkt *Packet, err error) {
	pkt.Payload = nil

	reason := "decode"
	switch {
	case errors.Is(err, ErrUnsupportedEncoding):
		reason = "unsupported"
	case errors.Is(err, ErrBadPayload):
		reason = "bad_payload"
	}
	d.metrics.DecodeErrors.WithLabelValues(reason).Inc()

	d.log.Warn().
		Err(err).
		Uint64("seq", pkt.Seq).
		Str("encoding", pkt.Encoding).
		Msg("packet decode failed")

	if d.onError != nil {
		d.onError(pkt, err)
	}
}

// endOfStream handles the dequeued close marker: the video backend is
// released and the decoder reaches its terminal state.
func (d *SurfaceDecoder) endOfStream() {
	d.mu.Lock()
	if d.state == StateClosed {
		d.mu.Unlock()
		return
	}
	d.state = StateClosed
	dec := d.videoDec
	d.videoDec = nil
	d.mu.Unlock()

	if dec != nil {
		dec.Close()
	}
	d.metrics.SurfacesActive.Dec()
	d.metrics.QueueDepth.DeleteLabelValues(d.id)
	d.log.Debug().Msg("end of stream reached")
}
