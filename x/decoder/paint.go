package decoder

import (
	"image"
	"time"

	"github.com/remoteview/renderer/x/encoding"
)

// paint applies a processed packet to the live surface, performs the
// post-paint bookkeeping and emits the completion report. It runs at most
// once per packet, after the packet's own decode completed, and never
// concurrently with another paint for the same surface.
func (d *SurfaceDecoder) paint(pkt *Packet, decodeStart time.Time) {
	// The histogram label and the overlay key are derived from the source
	// encoding before the tag is overwritten below.
	source := encoding.SubTag(pkt.Encoding)
	if source == "" {
		source = encoding.Base(pkt.Encoding)
	}

	d.mu.Lock()
	kind := d.applyLocked(pkt)
	if d.debug {
		d.overlayLocked(pkt)
	}
	d.mu.Unlock()

	elapsed := d.now().Sub(decodeStart)
	if elapsed < 0 {
		elapsed = 0
	}
	pkt.SetOption(OptionDecodeTime, elapsed.Milliseconds())
	pkt.Encoding = encoding.TagPainted
	pkt.Payload = nil

	d.metrics.DecodeDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	d.metrics.PacketsPainted.WithLabelValues(kind).Inc()

	if d.onCompletion != nil {
		d.onCompletion(pkt, decodeStart)
	}

	// The snapshot refresh is deferred so it neither blocks the completion
	// report nor reads the surface mid-draw.
	d.sched.Schedule(d.refreshSnapshot)
}

// applyLocked draws the packet onto the live surface and returns the paint
// kind for metrics. Caller holds d.mu.
func (d *SurfaceDecoder) applyLocked(pkt *Packet) string {
	switch encoding.Base(pkt.Encoding) {
	case encoding.BitmapPrefix:
		img, ok := pkt.Payload.(image.Image)
		if !ok {
			d.log.Warn().Uint64("seq", pkt.Seq).Msg("bitmap paint without decoded image")
			return "bitmap"
		}
		d.live.ClearRect(pkt.X, pkt.Y, pkt.Width, pkt.Height)
		d.live.DrawImage(img, pkt.X, pkt.Y, pkt.Width, pkt.Height)
		return "bitmap"

	case encoding.FramePrefix:
		frame, ok := pkt.Payload.(Frame)
		if !ok {
			d.log.Warn().Uint64("seq", pkt.Seq).Msg("frame paint without decoded frame")
			return "frame"
		}
		d.live.DrawImage(frame.Image(), pkt.X, pkt.Y, pkt.Width, pkt.Height)
		frame.Release()
		return "frame"

	case encoding.TagScroll:
		// Records are applied strictly in order: later records may read
		// pixels written by earlier ones in the same batch.
		rects, _ := pkt.Payload.([]ScrollRect)
		for _, r := range rects {
			d.live.CopyOffset(r.SrcX, r.SrcY, r.SrcW, r.SrcH, r.DX, r.DY)
		}
		return "scroll"

	default:
		return "void"
	}
}

// refreshSnapshot copies the settled live contents into the snapshot
// surface, scheduled after every paint.
func (d *SurfaceDecoder) refreshSnapshot() {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, h := d.live.Size()
	d.snap.DrawImage(d.live.Contents(), 0, 0, w, h)
}
