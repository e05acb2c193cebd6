package renderer

import (
	"image"
	"image/color"
)

// ImageWriter adapts an *image.RGBA to core.PixelWriter.
// Writes outside the image bounds are silently dropped.
type ImageWriter struct {
	img *image.RGBA
}

// NewImageWriter allocates a width x height image to render into
func NewImageWriter(width, height int) *ImageWriter {
	return &ImageWriter{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// NewImageWriterFor wraps an existing image
func NewImageWriterFor(img *image.RGBA) *ImageWriter {
	return &ImageWriter{img: img}
}

// SetPixel stores c at (x, y)
func (w *ImageWriter) SetPixel(x, y int, c color.RGBA) {
	if !image.Pt(x, y).In(w.img.Rect) {
		return
	}
	w.img.SetRGBA(x, y, c)
}

// Bounds returns the writable area
func (w *ImageWriter) Bounds() image.Rectangle {
	return w.img.Rect
}

// Image returns the underlying image
func (w *ImageWriter) Image() *image.RGBA {
	return w.img
}
