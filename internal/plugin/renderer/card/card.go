// Package card implements the builtin palette card renderer.
package card

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/version"
	"github.com/code-soul/chromapath/pkg/plugin"
)

// Renderer draws palette cards: one column block per colour, widths
// proportional to weight, sorted by descending weight.
type Renderer struct{}

// New creates the builtin card renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render rasterises the request's card data and encodes it as PNG.
func (r *Renderer) Render(ctx context.Context, req plugin.RenderRequest) (plugin.RenderResponse, error) {
	if req.Kind != plugin.RenderKindCard || req.Card == nil {
		return plugin.RenderResponse{}, fmt.Errorf("card renderer needs card data, got kind %q: %w", req.Kind, colour.ErrInvalidInput)
	}

	list := make(colour.List, len(req.Card.Colours))
	for i, c := range req.Card.Colours {
		list[i] = colour.Weighted{
			RGB:    colour.RGB{R: c.RGB.R, G: c.RGB.G, B: c.RGB.B},
			Weight: c.Weight,
		}
	}

	cfg := colour.DefaultCardConfig()
	if req.Card.Height > 0 {
		cfg.Height = req.Card.Height
	}
	if req.Card.WidthScale > 0 {
		cfg.WidthScale = req.Card.WidthScale
	}

	img, err := colour.ComposeCard(list, cfg)
	if err != nil {
		return plugin.RenderResponse{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return plugin.RenderResponse{}, fmt.Errorf("failed to encode card PNG: %w", err)
	}

	bounds := img.Bounds()
	return plugin.RenderResponse{
		Data:   buf.Bytes(),
		Format: "png",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// GetMetadata returns the renderer's plugin information.
func (r *Renderer) GetMetadata() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            "card",
		Type:            "renderer",
		Version:         version.Version,
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     "Palette card with weight-proportional colour columns",
		PluginProtocol:  string(plugin.PluginTypeBuiltin),
	}
}

// GetFlagHelp describes the options the renderer understands. Card
// geometry travels in the typed request, so there are none.
func (r *Renderer) GetFlagHelp() []plugin.FlagHelp {
	return []plugin.FlagHelp{}
}
