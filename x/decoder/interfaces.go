package decoder

import (
	"context"
	"image"
	"time"
)

// ImageDecoder decodes a still-image packet payload into a bitmap. The call
// blocks until the backend finishes; a stalled backend stalls only the
// owning surface's queue.
type ImageDecoder interface {
	Decode(ctx context.Context, pkt *Packet) (image.Image, error)
}

// VideoDecoder decodes a stream of frames for one video encoding. A surface
// decoder creates at most one, lazily, on the first video packet.
type VideoDecoder interface {
	// Configure applies color-space-conversion parameters. Called at most
	// once per decoder, before the first decode that carries them.
	Configure(params any) error

	// DecodeFrame decodes one frame.
	DecodeFrame(ctx context.Context, pkt *Packet) (Frame, error)

	// Close releases the backend. No calls may follow.
	Close()
}

// VideoDecoderFactory creates a video decoder for the given encoding. A nil
// factory means no native video decode path exists.
type VideoDecoderFactory func(encoding string) (VideoDecoder, error)

// Frame is one decoded video frame. Release must be called exactly once,
// after the frame has been painted.
type Frame interface {
	Image() image.Image
	Release()
}

// CompletionHook receives the mutated packet after its paint has landed,
// together with the decode start timestamp.
type CompletionHook func(pkt *Packet, decodeStart time.Time)

// ErrorHook receives a per-packet decode error. The packet's payload is
// already cleared; hooks must not retain or re-read it.
type ErrorHook func(pkt *Packet, err error)
