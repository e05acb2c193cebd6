package core

import (
	"image"
	"image/color"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// PixelWriter receives finished pixels from the renderer.
// Implementations decide what happens to coordinates outside Bounds.
type PixelWriter interface {
	SetPixel(x, y int, c color.RGBA)
	Bounds() image.Rectangle
}
