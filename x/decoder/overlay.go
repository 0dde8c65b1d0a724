package decoder

import (
	"image/color"

	"github.com/remoteview/renderer/x/encoding"
)

// overlayColors keys the diagnostic outline color on the source encoding
// carried in the sub-tag of a decoded packet. Tags without an entry draw no
// overlay.
var overlayColors = map[string]color.RGBA{
	encoding.TagRGB:   {R: 0x00, G: 0xff, B: 0x00, A: 0xff},
	encoding.TagRGB32: {R: 0x00, G: 0xc0, B: 0x40, A: 0xff},
	encoding.TagPNG:   {R: 0x00, G: 0x80, B: 0xff, A: 0xff},
	encoding.TagJPEG:  {R: 0xff, G: 0x80, B: 0x00, A: 0xff},
	encoding.TagWebP:  {R: 0x80, G: 0x00, B: 0xff, A: 0xff},
	encoding.TagH264:  {R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	encoding.TagVP8:   {R: 0xff, G: 0x00, B: 0x80, A: 0xff},
	encoding.TagVP9:   {R: 0xc0, G: 0x00, B: 0x40, A: 0xff},
}

// overlayLocked draws the diagnostic rectangle around the painted region.
// Caller holds d.mu.
func (d *SurfaceDecoder) overlayLocked(pkt *Packet) {
	col, ok := overlayColors[encoding.SubTag(pkt.Encoding)]
	if !ok {
		return
	}
	d.live.StrokeRect(pkt.X, pkt.Y, pkt.Width, pkt.Height, col)
}
