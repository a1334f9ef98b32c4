package network

import (
	"math"
	"testing"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/cooccurrence"
)

func threeNodes() []Node {
	return []Node{
		{Colour: colour.RGB{R: 255}, Size: 10},
		{Colour: colour.RGB{G: 255}, Size: 8},
		{Colour: colour.RGB{B: 255}, Size: 12},
	}
}

func TestBuildClassifiesEdges(t *testing.T) {
	matrix := cooccurrence.Matrix{
		{0, 5, 2},
		{5, 0, 8},
		{2, 8, 0},
	}

	g, err := Build(threeNodes(), matrix, Config{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Weight 2 stays below the base threshold, 5 is a base edge, 8 is
	// highlighted.
	if len(g.Edges) != 2 {
		t.Fatalf("got %d edges, want 2: %+v", len(g.Edges), g.Edges)
	}

	base := g.Edges[0]
	if base.From != 0 || base.To != 1 || base.Kind != EdgeBase || base.Weight != 5 {
		t.Errorf("base edge = %+v", base)
	}

	highlight := g.Edges[1]
	if highlight.From != 1 || highlight.To != 2 || highlight.Kind != EdgeHighlight || highlight.Weight != 8 {
		t.Errorf("highlight edge = %+v", highlight)
	}
}

func TestBuildThresholdsInclusive(t *testing.T) {
	matrix := cooccurrence.Matrix{
		{0, 3, 7},
		{3, 0, 0},
		{7, 0, 0},
	}

	g, err := Build(threeNodes(), matrix, Config{BaseThreshold: 3, HighlightThreshold: 7})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(g.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(g.Edges))
	}
	if g.Edges[0].Kind != EdgeBase {
		t.Errorf("weight exactly at base threshold should be a base edge, got %v", g.Edges[0].Kind)
	}
	if g.Edges[1].Kind != EdgeHighlight {
		t.Errorf("weight exactly at highlight threshold should be highlighted, got %v", g.Edges[1].Kind)
	}
}

func TestBuildFractionalThresholds(t *testing.T) {
	// Normalized matrices work with fractional thresholds.
	matrix := cooccurrence.Matrix{
		{0, 0.5},
		{0.5, 0},
	}
	nodes := threeNodes()[:2]

	g, err := Build(nodes, matrix, Config{BaseThreshold: 0.25, HighlightThreshold: 0.45})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(g.Edges) != 1 || g.Edges[0].Kind != EdgeHighlight {
		t.Errorf("edges = %+v, want one highlighted edge", g.Edges)
	}
}

func TestBuildLayout(t *testing.T) {
	matrix := cooccurrence.NewMatrix(3)

	g, err := Build(threeNodes(), matrix, Config{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(g.Positions) != 3 {
		t.Fatalf("got %d positions, want 3", len(g.Positions))
	}

	// First node sits at (1, 0); all nodes sit on the unit circle.
	if math.Abs(g.Positions[0].X-1) > 1e-9 || math.Abs(g.Positions[0].Y) > 1e-9 {
		t.Errorf("position 0 = %+v, want (1, 0)", g.Positions[0])
	}
	for i, p := range g.Positions {
		radius := math.Hypot(p.X, p.Y)
		if math.Abs(radius-1) > 1e-9 {
			t.Errorf("position %d radius = %v, want 1", i, radius)
		}
	}

	// Evenly spaced: the angle between consecutive nodes is 2*pi/3.
	angle1 := math.Atan2(g.Positions[1].Y, g.Positions[1].X)
	if math.Abs(angle1-2*math.Pi/3) > 1e-9 {
		t.Errorf("position 1 angle = %v, want %v", angle1, 2*math.Pi/3)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []Node
		matrix cooccurrence.Matrix
	}{
		{
			name:   "no nodes",
			nodes:  nil,
			matrix: cooccurrence.NewMatrix(3),
		},
		{
			name:   "dimension mismatch",
			nodes:  threeNodes(),
			matrix: cooccurrence.NewMatrix(2),
		},
		{
			name:  "asymmetric matrix",
			nodes: threeNodes()[:2],
			matrix: cooccurrence.Matrix{
				{0, 1},
				{2, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.nodes, tt.matrix, Config{}); err == nil {
				t.Error("Build() should have failed")
			}
		})
	}
}
