package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// EncodePPM writes img as a binary (P6) PPM with 8-bit channels
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P6\n%d %d 255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	pixel := make([]byte, 3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			pixel[0], pixel[1], pixel[2] = c.R, c.G, c.B
			if _, err := bw.Write(pixel); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// DecodePPM reads a binary (P6) PPM with a maxval of 255
func DecodePPM(r io.Reader) (*image.RGBA, error) {
	br := bufio.NewReader(r)

	var magic string
	var width, height, maxVal int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxVal); err != nil {
		return nil, fmt.Errorf("read ppm header: %w", err)
	}
	if magic != "P6" {
		return nil, fmt.Errorf("%w: ppm magic %q", ErrUnsupportedFormat, magic)
	}
	if maxVal != 255 {
		return nil, fmt.Errorf("%w: ppm maxval %d", ErrUnsupportedFormat, maxVal)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid ppm size %dx%d", width, height)
	}

	// Exactly one whitespace byte separates the header from the raster
	if _, err := br.ReadByte(); err != nil {
		return nil, fmt.Errorf("read ppm header: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	pixel := make([]byte, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if _, err := io.ReadFull(br, pixel); err != nil {
				return nil, fmt.Errorf("read ppm raster: %w", err)
			}
			img.SetRGBA(x, y, color.RGBA{R: pixel[0], G: pixel[1], B: pixel[2], A: 255})
		}
	}

	return img, nil
}
