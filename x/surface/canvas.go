// Package surface provides the rendering-surface primitive the decode
// pipeline paints onto: rectangle clear, image blit, self-copy with offset
// and stroke outline, plus an in-memory implementation backed by image.RGBA.
package surface

import (
	"image"
	"image/color"
)

// Canvas is one destination pixel buffer. Implementations are not safe for
// concurrent use; the owning surface decoder serializes access.
type Canvas interface {
	// Size returns the current width and height in pixels.
	Size() (width, height int)

	// Resize changes the canvas dimensions, preserving the overlapping
	// region of the existing contents.
	Resize(width, height int)

	// ClearRect resets the given rectangle to fully transparent black.
	ClearRect(x, y, width, height int)

	// DrawImage blits img into the destination rectangle. Scaling, when the
	// source dimensions differ, uses nearest-neighbor (no smoothing).
	DrawImage(img image.Image, x, y, width, height int)

	// CopyOffset copies the source rectangle onto the canvas itself shifted
	// by (dx, dy). The copy reads the pre-copy pixels of the source
	// rectangle even when source and destination overlap.
	CopyOffset(x, y, width, height, dx, dy int)

	// StrokeRect draws a one-pixel outline around the given rectangle.
	StrokeRect(x, y, width, height int, c color.RGBA)

	// Contents returns a direct view of the current pixels. The returned
	// image is valid until the next mutation of the canvas.
	Contents() image.Image
}
