// Package output encodes rendered images to PNG, JPEG and binary PPM files.
package output

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies an image file format
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	PPM  Format = "ppm"
)

// JPEGQuality is the quality used for JPEG output
const JPEGQuality = 90

// ErrUnsupportedFormat is returned for extensions or formats with no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatForPath picks a format from a file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".ppm":
		return PPM, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, format Format, img image.Image) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case PPM:
		return EncodePPM(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Write saves img to path, choosing the encoder from the extension. Missing
// parent directories are created.
func Write(path string, img image.Image) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", format, err)
	}
	defer f.Close()

	if err := Encode(f, format, img); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return f.Close()
}
