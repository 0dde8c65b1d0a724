package decoder

import (
	"github.com/remoteview/renderer/x/encoding"
)

// Option keys recognized in Packet.Options.
const (
	// OptionCSC carries color-space-conversion parameters for the video
	// backend, applied once before the first h264 decode.
	OptionCSC = "csc"

	// OptionDecodeTime is written by the paint engine: elapsed milliseconds
	// between decode start and paint completion, clamped to non-negative.
	OptionDecodeTime = "decode_time"
)

// Packet is one encoded screen update for a single surface.
//
// Payload is write-once per pipeline stage: the wire bytes (or scroll
// records) on arrival, the decoded bitmap or frame after decode, and nil
// after paint. It must never be read after the paint stage clears it.
type Packet struct {
	SurfaceID string
	X         int
	Y         int
	Width     int
	Height    int

	// Encoding is the tag this packet currently carries. The decode stage
	// rewrites it to "<kind>:<source>" (e.g. "bitmap:png") and the paint
	// stage overwrites it with encoding.TagPainted.
	Encoding string

	// Kind is resolved once at ingress from the original encoding tag.
	Kind encoding.Kind

	Payload any
	Seq     uint64
	Options map[string]any
}

// ResolveKind classifies the packet's encoding tag. Dispatch calls it once
// at ingress so nothing downstream compares tag strings again.
func (p *Packet) ResolveKind() {
	p.Kind = encoding.KindOf(p.Encoding)
}

// SetOption writes a key into the options mapping, allocating it on first
// use.
func (p *Packet) SetOption(key string, value any) {
	if p.Options == nil {
		p.Options = make(map[string]any, 2)
	}
	p.Options[key] = value
}

// ScrollRect is one shift record of a scroll payload: copy the source
// rectangle onto the surface itself offset by (DX, DY). Records are applied
// strictly in order; later records may read pixels written by earlier ones.
type ScrollRect struct {
	SrcX int
	SrcY int
	SrcW int
	SrcH int
	DX   int
	DY   int
}

// eosPacket builds the synthetic end-of-stream marker enqueued on close.
func eosPacket(surfaceID string) *Packet {
	return &Packet{
		SurfaceID: surfaceID,
		Encoding:  encoding.TagEOS,
		Kind:      encoding.KindControl,
	}
}
