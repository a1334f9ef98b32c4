// Package image provides utilities for loading and processing images.
package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/code-soul/chromapath/internal/colour"
)

// FromPixels builds an opaque image from a row-major pixel array with the
// given dimensions.
func FromPixels(pixels []colour.RGB, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image dimensions %dx%d must be positive: %w", width, height, colour.ErrInvalidInput)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%d pixels do not fill a %dx%d image: %w", len(pixels), width, height, colour.ErrInvalidInput)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, p := range pixels {
		img.SetRGBA(i%width, i/width, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
	}
	return img, nil
}

// WritePNG encodes a row-major pixel array as a PNG file.
func WritePNG(path string, pixels []colour.RGB, width, height int) error {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
