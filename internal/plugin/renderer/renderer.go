// Package renderer wires palette and graph data to renderer plugins. It
// holds the registry of available renderers and the helpers that convert
// internal types into the wire-format requests plugins consume.
package renderer

import (
	"slices"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/network"
	"github.com/code-soul/chromapath/internal/plugin/renderer/card"
	netrender "github.com/code-soul/chromapath/internal/plugin/renderer/network"
	"github.com/code-soul/chromapath/pkg/plugin"
)

// Registry holds renderer plugins by name.
type Registry struct {
	renderers map[string]plugin.RendererPlugin
}

// NewRegistry creates a new empty renderer registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]plugin.RendererPlugin),
	}
}

// Register adds a renderer to the registry under its metadata name.
func (r *Registry) Register(p plugin.RendererPlugin) {
	r.renderers[p.GetMetadata().Name] = p
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (plugin.RendererPlugin, bool) {
	p, ok := r.renderers[name]
	return p, ok
}

// List returns all registered renderer names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Builtin returns a registry populated with the in-process renderers.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(card.New())
	r.Register(netrender.New())
	return r
}

// CardRequest builds a render request for a palette card. Zero geometry
// values leave the renderer's defaults in effect.
func CardRequest(list colour.List, cfg colour.CardConfig, verbose bool) plugin.RenderRequest {
	colours := make([]plugin.WeightedColour, len(list))
	for i, w := range list {
		colours[i] = plugin.WeightedColour{
			RGB:    plugin.RGBColour{R: w.R, G: w.G, B: w.B},
			Weight: w.Weight,
		}
	}
	return plugin.RenderRequest{
		Kind: plugin.RenderKindCard,
		Card: &plugin.CardData{
			Colours:    colours,
			Height:     cfg.Height,
			WidthScale: cfg.WidthScale,
		},
		Verbose: verbose,
	}
}

// NetworkRequest builds a render request from a laid-out graph.
func NetworkRequest(g *network.Graph, verbose bool) plugin.RenderRequest {
	nodes := make([]plugin.NetworkNode, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = plugin.NetworkNode{
			RGB:  plugin.RGBColour{R: n.Colour.R, G: n.Colour.G, B: n.Colour.B},
			Size: n.Size,
			X:    g.Positions[i].X,
			Y:    g.Positions[i].Y,
		}
	}
	edges := make([]plugin.NetworkEdge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = plugin.NetworkEdge{
			From:      e.From,
			To:        e.To,
			Weight:    e.Weight,
			Highlight: e.Kind == network.EdgeHighlight,
		}
	}
	return plugin.RenderRequest{
		Kind: plugin.RenderKindNetwork,
		Network: &plugin.NetworkData{
			Nodes: nodes,
			Edges: edges,
		},
		Verbose: verbose,
	}
}
