// Package colour provides colour extraction, weighting and palette analysis.
package colour

import "fmt"

// FilterGray returns the pixels whose channel spread (max channel minus min
// channel) is at least threshold. Threshold 0 keeps every pixel; raising it
// removes increasingly saturated but still neutral pixels. The input slice is
// never modified.
func FilterGray(pixels []RGB, threshold int) ([]RGB, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("gray threshold must be >= 0, got %d: %w", threshold, ErrInvalidInput)
	}

	filtered := make([]RGB, 0, len(pixels))
	for _, p := range pixels {
		if channelSpread(p) >= threshold {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// channelSpread returns max(R,G,B) - min(R,G,B) for a pixel.
func channelSpread(p RGB) int {
	maxC := max(p.R, max(p.G, p.B))
	minC := min(p.R, min(p.G, p.B))
	return int(maxC) - int(minC)
}
