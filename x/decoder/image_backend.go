package decoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/webp"

	"github.com/remoteview/renderer/x/encoding"
)

// StdImageDecoder decodes the built-in image encoding set in-process: raw
// rgb/rgb32 pixel data plus png, jpeg and webp.
type StdImageDecoder struct{}

var _ ImageDecoder = (*StdImageDecoder)(nil)

// NewStdImageDecoder creates the default image backend.
func NewStdImageDecoder() *StdImageDecoder {
	return &StdImageDecoder{}
}

// Decode decodes the packet payload into a bitmap of the packet's declared
// dimensions.
func (s *StdImageDecoder) Decode(ctx context.Context, pkt *Packet) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := pkt.Payload.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: image payload must be raw bytes", ErrBadPayload)
	}

	switch encoding.Base(pkt.Encoding) {
	case encoding.TagRGB:
		return decodeRaw(data, pkt.Width, pkt.Height, 3)
	case encoding.TagRGB32:
		return decodeRaw(data, pkt.Width, pkt.Height, 4)
	case encoding.TagPNG:
		return png.Decode(bytes.NewReader(data))
	case encoding.TagJPEG:
		return jpeg.Decode(bytes.NewReader(data))
	case encoding.TagWebP:
		return webp.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, pkt.Encoding)
	}
}

// decodeRaw converts packed rgb (3 bytes/pixel) or rgb32 (4 bytes/pixel)
// data into an RGBA bitmap.
func decodeRaw(data []byte, width, height, bpp int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrBadPayload, width, height)
	}
	need := width * height * bpp
	if len(data) < need {
		return nil, fmt.Errorf("%w: raw payload is %d bytes, need %d", ErrBadPayload, len(data), need)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if bpp == 4 {
		copy(img.Pix, data[:need])
		return img, nil
	}

	si := 0
	for di := 0; di < len(img.Pix); di += 4 {
		img.Pix[di] = data[si]
		img.Pix[di+1] = data[si+1]
		img.Pix[di+2] = data[si+2]
		img.Pix[di+3] = 0xff
		si += 3
	}
	return img, nil
}
