package surface

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ImageCanvas is a CPU-backed Canvas rendering into an *image.RGBA.
type ImageCanvas struct {
	img *image.RGBA
}

var _ Canvas = (*ImageCanvas)(nil)

// NewImageCanvas creates a canvas with the given dimensions. Dimensions are
// clamped to at least 1x1.
func NewImageCanvas(width, height int) *ImageCanvas {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &ImageCanvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Size returns the canvas dimensions.
func (c *ImageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the backing image, keeping the overlapping region.
func (c *ImageCanvas) Resize(width, height int) {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	if w, h := c.Size(); w == width && h == height {
		return
	}
	next := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(next, next.Bounds().Intersect(c.img.Bounds()), c.img, image.Point{}, draw.Src)
	c.img = next
}

// ClearRect resets the rectangle to transparent black.
func (c *ImageCanvas) ClearRect(x, y, width, height int) {
	r := c.clip(image.Rect(x, y, x+width, y+height))
	draw.Draw(c.img, r, image.Transparent, image.Point{}, draw.Src)
}

// DrawImage blits img into the destination rectangle, nearest-neighbor
// scaled when the source dimensions differ.
func (c *ImageCanvas) DrawImage(img image.Image, x, y, width, height int) {
	if img == nil {
		return
	}
	dst := image.Rect(x, y, x+width, y+height)
	src := img.Bounds()
	if src.Dx() == width && src.Dy() == height {
		clipped := c.clip(dst)
		draw.Draw(c.img, clipped, img, src.Min.Add(clipped.Min.Sub(dst.Min)), draw.Src)
		return
	}
	xdraw.NearestNeighbor.Scale(c.img, dst, img, src, xdraw.Src, nil)
}

// CopyOffset copies the source rectangle shifted by (dx, dy). The source is
// staged into a scratch image so overlapping copies read pre-copy pixels.
func (c *ImageCanvas) CopyOffset(x, y, width, height, dx, dy int) {
	src := c.clip(image.Rect(x, y, x+width, y+height))
	if src.Empty() {
		return
	}
	scratch := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(scratch, scratch.Bounds(), c.img, src.Min, draw.Src)

	dst := c.clip(src.Add(image.Pt(dx, dy)))
	if dst.Empty() {
		return
	}
	offset := dst.Min.Sub(src.Min.Add(image.Pt(dx, dy)))
	draw.Draw(c.img, dst, scratch, scratch.Bounds().Min.Add(offset), draw.Src)
}

// StrokeRect draws a one-pixel outline around the rectangle.
func (c *ImageCanvas) StrokeRect(x, y, width, height int, col color.RGBA) {
	edges := []image.Rectangle{
		image.Rect(x, y, x+width, y+1),
		image.Rect(x, y+height-1, x+width, y+height),
		image.Rect(x, y, x+1, y+height),
		image.Rect(x+width-1, y, x+width, y+height),
	}
	u := &image.Uniform{C: col}
	for _, e := range edges {
		draw.Draw(c.img, c.clip(e), u, image.Point{}, draw.Src)
	}
}

// Contents returns the backing image. Valid until the next mutation.
func (c *ImageCanvas) Contents() image.Image {
	return c.img
}

func (c *ImageCanvas) clip(r image.Rectangle) image.Rectangle {
	return r.Intersect(c.img.Bounds())
}
