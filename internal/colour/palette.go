// Package colour provides colour extraction, weighting and palette analysis.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"sort"
)

// WeightTolerance is the allowed deviation when checking that the weights of
// an extraction result sum to 1.
const WeightTolerance = 1e-6

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// Weighted is a colour together with its share of the pixels it was
// extracted from. Weight is a fraction in [0, 1].
type Weighted struct {
	RGB
	Weight float64 `json:"weight"`
}

// List is an ordered sequence of weighted colours, by convention sorted by
// descending weight. A List produced by extraction is a fixed vocabulary:
// callers receive a fresh slice and must not rely on sharing.
type List []Weighted

// Colors returns the bare colours of the list in order.
func (l List) Colors() []RGB {
	colors := make([]RGB, len(l))
	for i, w := range l {
		colors[i] = w.RGB
	}
	return colors
}

// Weights returns the weights of the list in order.
func (l List) Weights() []float64 {
	weights := make([]float64, len(l))
	for i, w := range l {
		weights[i] = w.Weight
	}
	return weights
}

// TotalWeight returns the sum of all weights.
func (l List) TotalWeight() float64 {
	total := 0.0
	for _, w := range l {
		total += w.Weight
	}
	return total
}

// SortByWeight sorts the list in place by descending weight.
// Ties keep their existing relative order.
func (l List) SortByWeight() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Weight > l[j].Weight
	})
}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Validate checks that every weight lies in [0, 1] and that the weights sum
// to 1 within WeightTolerance.
func (l List) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("empty colour list: %w", ErrInvalidInput)
	}
	for i, w := range l {
		if w.Weight < 0 || w.Weight > 1 {
			return fmt.Errorf("weight %f at index %d outside [0, 1]: %w", w.Weight, i, ErrInvalidInput)
		}
	}
	total := l.TotalWeight()
	if diff := total - 1.0; diff > WeightTolerance || diff < -WeightTolerance {
		return fmt.Errorf("weights sum to %f, want 1: %w", total, ErrInvalidInput)
	}
	return nil
}

// Hexes converts the list to hex colour codes in order.
func (l List) Hexes() []string {
	hexes := make([]string, len(l))
	for i, w := range l {
		hexes[i] = w.Hex()
	}
	return hexes
}

// listJSON is the JSON envelope for a colour list.
type listJSON struct {
	Count  int        `json:"count"`
	Colors []entryJSON `json:"colors"`
}

type entryJSON struct {
	Hex    string  `json:"hex"`
	RGB    RGB     `json:"rgb"`
	Weight float64 `json:"weight"`
}

// ToJSON converts the list to indented JSON.
func (l List) ToJSON() ([]byte, error) {
	entries := make([]entryJSON, len(l))
	for i, w := range l {
		entries[i] = entryJSON{
			Hex:    w.Hex(),
			RGB:    w.RGB,
			Weight: w.Weight,
		}
	}
	return json.MarshalIndent(listJSON{Count: len(l), Colors: entries}, "", "  ")
}

// String returns a human-readable representation of the list.
func (l List) String() string {
	if len(l) == 0 {
		return "Empty colour list"
	}
	result := fmt.Sprintf("Colour list with %d colours:\n", len(l))
	for i, w := range l {
		result += fmt.Sprintf("  %2d: %s %6.2f%%\n", i+1, w.Hex(), w.Weight*100)
	}
	return result
}

// Get returns the weighted colour at the specified index.
func (l List) Get(index int) (Weighted, error) {
	if index < 0 || index >= len(l) {
		return Weighted{}, fmt.Errorf("index %d out of bounds (list has %d colours): %w", index, len(l), ErrInvalidInput)
	}
	return l[index], nil
}
