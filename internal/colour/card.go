// Package colour provides colour extraction, weighting and palette analysis.
package colour

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// CardConfig holds the geometry of a palette card.
type CardConfig struct {
	// Height of the card in pixels.
	Height int
	// WidthScale is the total width budget the weights are mapped onto;
	// each colour gets a column block of weight * WidthScale pixels.
	WidthScale int
}

// DefaultCardConfig returns the default card geometry.
func DefaultCardConfig() CardConfig {
	return CardConfig{
		Height:     150,
		WidthScale: 400,
	}
}

// ComposeCard renders a colour list as a palette card: one column block per
// colour, widths proportional to weight, sorted by descending weight. When
// every block would round to zero width the card falls back to equal slices
// of the width budget.
func ComposeCard(list List, cfg CardConfig) (*image.RGBA, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("empty colour list: %w", ErrInvalidInput)
	}
	if cfg.Height <= 0 || cfg.WidthScale <= 0 {
		return nil, fmt.Errorf("card geometry %dx%d out of range: %w", cfg.WidthScale, cfg.Height, ErrInvalidInput)
	}

	sorted := list.Clone()
	sorted.SortByWeight()

	widths := make([]int, len(sorted))
	totalWidth := 0
	for i, w := range sorted {
		widths[i] = int(w.Weight * float64(cfg.WidthScale))
		totalWidth += widths[i]
	}

	if totalWidth == 0 {
		for i := range widths {
			widths[i] = cfg.WidthScale / len(sorted)
			totalWidth += widths[i]
		}
	}

	card := image.NewRGBA(image.Rect(0, 0, totalWidth, cfg.Height))
	draw.Draw(card, card.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	start := 0
	for i, w := range sorted {
		end := start + widths[i]
		block := image.Rect(start, 0, end, cfg.Height)
		fill := color.RGBA{R: w.R, G: w.G, B: w.B, A: 255}
		draw.Draw(card, block, &image.Uniform{C: fill}, image.Point{}, draw.Src)
		start = end
	}

	return card, nil
}
