// Package plugin provides the public API for chromapath renderer plugins.
package plugin

// Render kinds accepted in RenderRequest.Kind.
const (
	// RenderKindCard requests a palette card: colour blocks sized by weight.
	RenderKindCard = "card"

	// RenderKindNetwork requests a co-occurrence network graph.
	RenderKindNetwork = "network"
)

// RenderRequest carries one render job to a renderer plugin. Exactly one of
// Card or Network is set, matching Kind.
type RenderRequest struct {
	Kind    string            `json:"kind"`
	Card    *CardData         `json:"card,omitempty"`
	Network *NetworkData      `json:"network,omitempty"`
	Options map[string]string `json:"options,omitempty"`
	Verbose bool              `json:"verbose"`
}

// CardData describes a palette card render. Zero geometry fields leave the
// renderer's defaults in effect.
type CardData struct {
	Colours    []WeightedColour `json:"colours"`
	Height     int              `json:"height,omitempty"`
	WidthScale int              `json:"width_scale,omitempty"`
}

// NetworkData describes a colour network render: positioned nodes plus the
// edges that cleared the co-occurrence thresholds.
type NetworkData struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// NetworkNode is a graph node positioned on the unit circle.
type NetworkNode struct {
	RGB  RGBColour `json:"rgb"`
	Size float64   `json:"size"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// NetworkEdge joins two nodes by index. Highlight marks edges whose weight
// cleared the upper threshold.
type NetworkEdge struct {
	From      int     `json:"from"`
	To        int     `json:"to"`
	Weight    float64 `json:"weight"`
	Highlight bool    `json:"highlight"`
}

// WeightedColour is a colour with its palette weight for RPC transfer.
type WeightedColour struct {
	RGB    RGBColour `json:"rgb"`
	Weight float64   `json:"weight"`
}

// RGBColour represents an RGB color.
type RGBColour struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RenderResponse is the rendered image returned by a plugin.
type RenderResponse struct {
	Data   []byte `json:"data"`   // encoded image bytes
	Format string `json:"format"` // image encoding, normally "png"
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
