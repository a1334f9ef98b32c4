package renderer

import (
	"slices"
	"testing"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/network"
	"github.com/code-soul/chromapath/pkg/plugin"
)

func TestBuiltinRegistry(t *testing.T) {
	reg := Builtin()

	if got := reg.List(); !slices.Equal(got, []string{"card", "network"}) {
		t.Errorf("List() = %v, want [card network]", got)
	}

	p, ok := reg.Get("card")
	if !ok {
		t.Fatal("Get(card) not found")
	}
	if name := p.GetMetadata().Name; name != "card" {
		t.Errorf("metadata name = %q, want %q", name, "card")
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("Get(missing) found a renderer")
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	if got := reg.List(); len(got) != 0 {
		t.Fatalf("new registry List() = %v, want empty", got)
	}

	builtin := Builtin()
	p, _ := builtin.Get("network")
	reg.Register(p)

	if got := reg.List(); !slices.Equal(got, []string{"network"}) {
		t.Errorf("List() = %v, want [network]", got)
	}
}

func TestCardRequest(t *testing.T) {
	list := colour.List{
		{RGB: colour.RGB{R: 10, G: 20, B: 30}, Weight: 0.6},
		{RGB: colour.RGB{R: 40, G: 50, B: 60}, Weight: 0.4},
	}
	cfg := colour.CardConfig{Height: 99, WidthScale: 500}

	req := CardRequest(list, cfg, true)

	if req.Kind != plugin.RenderKindCard {
		t.Errorf("Kind = %q, want %q", req.Kind, plugin.RenderKindCard)
	}
	if req.Card == nil || req.Network != nil {
		t.Fatalf("Card = %v, Network = %v, want card payload only", req.Card, req.Network)
	}
	if !req.Verbose {
		t.Error("Verbose not carried through")
	}
	if req.Card.Height != 99 || req.Card.WidthScale != 500 {
		t.Errorf("geometry = %dx%d, want 500x99", req.Card.WidthScale, req.Card.Height)
	}
	if len(req.Card.Colours) != 2 {
		t.Fatalf("len(Colours) = %d, want 2", len(req.Card.Colours))
	}
	first := req.Card.Colours[0]
	if first.RGB != (plugin.RGBColour{R: 10, G: 20, B: 30}) || first.Weight != 0.6 {
		t.Errorf("Colours[0] = %+v, want 10,20,30 at 0.6", first)
	}
}

func TestNetworkRequest(t *testing.T) {
	g := &network.Graph{
		Nodes: []network.Node{
			{Colour: colour.RGB{R: 200, G: 10, B: 10}, Size: 10},
			{Colour: colour.RGB{R: 10, G: 200, B: 10}, Size: 8},
		},
		Positions: []network.Position{{X: 1, Y: 0}, {X: -1, Y: 0}},
		Edges: []network.Edge{
			{From: 0, To: 1, Weight: 7, Kind: network.EdgeHighlight},
		},
	}

	req := NetworkRequest(g, false)

	if req.Kind != plugin.RenderKindNetwork {
		t.Errorf("Kind = %q, want %q", req.Kind, plugin.RenderKindNetwork)
	}
	if req.Network == nil || req.Card != nil {
		t.Fatalf("Network = %v, Card = %v, want network payload only", req.Network, req.Card)
	}
	if len(req.Network.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(req.Network.Nodes))
	}
	n0 := req.Network.Nodes[0]
	if n0.RGB != (plugin.RGBColour{R: 200, G: 10, B: 10}) || n0.Size != 10 || n0.X != 1 || n0.Y != 0 {
		t.Errorf("Nodes[0] = %+v, want red size 10 at (1,0)", n0)
	}
	if len(req.Network.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1", len(req.Network.Edges))
	}
	e := req.Network.Edges[0]
	if e.From != 0 || e.To != 1 || e.Weight != 7 || !e.Highlight {
		t.Errorf("Edges[0] = %+v, want highlighted 0-1 at weight 7", e)
	}
}
