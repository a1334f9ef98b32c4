// Package genetic evolves colour schemes for one image through interactive
// scoring rounds.
package genetic

import "github.com/code-soul/chromapath/internal/colour"

// DefaultSeedColors returns the predefined palette used to build the
// initial population when no other seed source is configured. Muted
// naturals plus black and white give the first generation a usable spread.
func DefaultSeedColors() []colour.RGB {
	return []colour.RGB{
		{R: 171, G: 162, B: 157},
		{R: 175, G: 186, B: 196},
		{R: 211, G: 196, B: 182},
		{R: 84, G: 33, B: 35},
		{R: 216, G: 160, B: 80},
		{R: 86, G: 86, B: 69},
		{R: 229, G: 170, B: 72},
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
	}
}
