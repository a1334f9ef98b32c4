// Package network lays out colour relationship graphs: colours become
// nodes on a unit circle, co-occurrence weights become edges.
package network

import (
	"fmt"
	"math"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/cooccurrence"
)

// EdgeKind classifies an edge by its weight against the thresholds.
type EdgeKind int

const (
	// EdgeBase marks an edge at or above the base threshold.
	EdgeBase EdgeKind = iota
	// EdgeHighlight marks an edge at or above the highlight threshold.
	EdgeHighlight
)

// String returns the edge kind name.
func (k EdgeKind) String() string {
	switch k {
	case EdgeBase:
		return "base"
	case EdgeHighlight:
		return "highlight"
	default:
		return "unknown"
	}
}

// Config carries the edge weight thresholds. The defaults suit raw count
// matrices; normalized co-occurrence matrices need fractional thresholds.
type Config struct {
	// BaseThreshold is the minimum weight for an edge to appear. Zero
	// falls back to the default; use a small positive value to keep
	// every edge.
	BaseThreshold float64
	// HighlightThreshold is the weight at which an edge is highlighted.
	// Zero falls back to the default.
	HighlightThreshold float64
}

// DefaultConfig returns the default graph configuration.
func DefaultConfig() Config {
	return Config{
		BaseThreshold:      3,
		HighlightThreshold: 7,
	}
}

// Position is a node location in the unit-circle layout.
type Position struct {
	X float64
	Y float64
}

// Edge connects two node indices with the matrix weight between them.
type Edge struct {
	From   int
	To     int
	Weight float64
	Kind   EdgeKind
}

// Graph is a laid-out network: every node has a position on the unit
// circle, and edges carry the weights that cleared the base threshold.
type Graph struct {
	Nodes     []Node
	Positions []Position
	Edges     []Edge
}

// Build lays out nodes on the unit circle and classifies every node pair
// against the thresholds. The matrix must be symmetric and match the node
// count. The highlight comparison runs first, so a weight clearing it is
// highlighted regardless of the base threshold.
func Build(nodes []Node, matrix cooccurrence.Matrix, cfg Config) (*Graph, error) {
	def := DefaultConfig()
	if cfg.BaseThreshold == 0 {
		cfg.BaseThreshold = def.BaseThreshold
	}
	if cfg.HighlightThreshold == 0 {
		cfg.HighlightThreshold = def.HighlightThreshold
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes to lay out: %w", colour.ErrInvalidInput)
	}
	if err := matrix.ValidateShape(); err != nil {
		return nil, err
	}
	if matrix.Size() != len(nodes) {
		return nil, fmt.Errorf("matrix dimension %d does not match node count %d: %w",
			matrix.Size(), len(nodes), colour.ErrInvalidInput)
	}

	g := &Graph{
		Nodes:     nodes,
		Positions: circularLayout(len(nodes)),
	}

	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			weight := matrix[i][j]

			var kind EdgeKind
			switch {
			case weight >= cfg.HighlightThreshold:
				kind = EdgeHighlight
			case weight >= cfg.BaseThreshold:
				kind = EdgeBase
			default:
				continue
			}

			g.Edges = append(g.Edges, Edge{From: i, To: j, Weight: weight, Kind: kind})
		}
	}

	return g, nil
}

// circularLayout spreads n nodes evenly over the unit circle, starting at
// (1, 0) and walking counter-clockwise.
func circularLayout(n int) []Position {
	positions := make([]Position, n)
	for i := range positions {
		angle := 2 * math.Pi * float64(i) / float64(n)
		positions[i] = Position{X: math.Cos(angle), Y: math.Sin(angle)}
	}
	return positions
}
