// braille - Terminal Network Renderer (Chromapath Renderer Plugin)
//
// Renders colour relationship networks as Unicode braille art for
// terminals and plain-text pipelines. Uses the go-plugin RPC protocol for
// better performance and process isolation.
//
// Features:
// - Braille dot canvas (2x4 dots per character cell)
// - Node discs scaled by node size, edges between co-occurring colours
// - Highlighted edges drawn as a doubled stroke
// - Configurable width in character columns
//
// Build:
//   go build -o chromapath-renderer-braille
//
// Usage:
//   chromapath network --renderer braille -o network.txt nodes.txt matrix.txt
//
// Plugin Options:
//   cols: Output width in character columns (default: 80)
//
// Author: Chromapath Contributors
// License: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-plugin"

	chromaplugin "github.com/code-soul/chromapath/pkg/plugin"
)

const (
	defaultCols = 80

	// viewHalf is the half-width of the layout viewport; node positions
	// live on the unit circle inside it.
	viewHalf = 1.5
)

// BraillePlugin implements the chromaplugin.RendererPlugin interface.
type BraillePlugin struct{}

// Render draws the network as braille art. Card requests are not supported
// by this renderer.
func (p *BraillePlugin) Render(ctx context.Context, req chromaplugin.RenderRequest) (chromaplugin.RenderResponse, error) {
	if req.Kind != chromaplugin.RenderKindNetwork || req.Network == nil {
		return chromaplugin.RenderResponse{}, fmt.Errorf("braille renderer only supports %q requests, got %q",
			chromaplugin.RenderKindNetwork, req.Kind)
	}

	cols := defaultCols
	if v, ok := req.Options["cols"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 4 {
			return chromaplugin.RenderResponse{}, fmt.Errorf("invalid cols option %q: want an integer >= 4", v)
		}
		cols = n
	}

	if req.Verbose {
		fmt.Fprintf(os.Stderr, "Rendering %d nodes and %d edges at %d columns\n",
			len(req.Network.Nodes), len(req.Network.Edges), cols)
	}

	canvas := newCanvas(cols)
	for _, e := range req.Network.Edges {
		if e.From < 0 || e.From >= len(req.Network.Nodes) || e.To < 0 || e.To >= len(req.Network.Nodes) {
			return chromaplugin.RenderResponse{}, fmt.Errorf("edge %d-%d is outside the node list", e.From, e.To)
		}
		from := req.Network.Nodes[e.From]
		to := req.Network.Nodes[e.To]
		canvas.line(from.X, from.Y, to.X, to.Y)
		if e.Highlight {
			// A doubled stroke stands in for the highlight colour.
			canvas.line(from.X, from.Y+0.02, to.X, to.Y+0.02)
		}
	}
	for _, n := range req.Network.Nodes {
		canvas.disc(n.X, n.Y, n.Size)
	}

	text := canvas.String()
	return chromaplugin.RenderResponse{
		Data:   []byte(text),
		Format: "txt",
		Width:  canvas.cols,
		Height: canvas.rows,
	}, nil
}

// GetMetadata returns plugin metadata.
func (p *BraillePlugin) GetMetadata() chromaplugin.PluginInfo {
	return chromaplugin.PluginInfo{
		Name:            "braille",
		Type:            "renderer",
		Version:         "0.0.1",
		ProtocolVersion: chromaplugin.ProtocolVersion,
		Description:     "Render colour networks as Unicode braille art",
		PluginProtocol:  string(chromaplugin.PluginTypeGoPlugin),
	}
}

// GetFlagHelp returns help information for plugin options.
func (p *BraillePlugin) GetFlagHelp() []chromaplugin.FlagHelp {
	return []chromaplugin.FlagHelp{
		{
			Name:        "cols",
			Type:        "int",
			Default:     strconv.Itoa(defaultCols),
			Description: "Output width in character columns",
			Required:    false,
		},
	}
}

// canvas is a braille dot grid: every character cell holds 2x4 dots.
type canvas struct {
	cols, rows int
	w, h       int // dot dimensions
	dots       []bool
}

// newCanvas sizes the dot grid so the drawing area is square: terminal
// cells are roughly twice as tall as wide, so rows = cols/2 gives equal
// dot counts on both axes.
func newCanvas(cols int) *canvas {
	rows := cols / 2
	if rows < 1 {
		rows = 1
	}
	return &canvas{
		cols: cols,
		rows: rows,
		w:    cols * 2,
		h:    rows * 4,
		dots: make([]bool, cols*2*rows*4),
	}
}

// toDot maps view coordinates to dot coordinates, y growing downwards.
func (c *canvas) toDot(x, y float64) (int, int) {
	dx := (x + viewHalf) * float64(c.w) / (2 * viewHalf)
	dy := (viewHalf - y) * float64(c.h) / (2 * viewHalf)
	return int(dx), int(dy)
}

func (c *canvas) set(x, y int) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.dots[y*c.w+x] = true
}

// line plots a straight dot run between two view points.
func (c *canvas) line(x0, y0, x1, y1 float64) {
	ax, ay := c.toDot(x0, y0)
	bx, by := c.toDot(x1, y1)

	steps := absInt(bx - ax)
	if dy := absInt(by - ay); dy > steps {
		steps = dy
	}
	if steps == 0 {
		c.set(ax, ay)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.set(
			int(math.Round(float64(ax)+t*float64(bx-ax))),
			int(math.Round(float64(ay)+t*float64(by-ay))),
		)
	}
}

// disc fills a node disc whose radius grows with the square root of the
// node size, echoing the area scaling of the image renderer.
func (c *canvas) disc(x, y, size float64) {
	cx, cy := c.toDot(x, y)
	r := math.Sqrt(size) * float64(c.w) / 200
	if r < 1 {
		r = 1
	}
	ri := int(math.Ceil(r))
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				c.set(cx+dx, cy+dy)
			}
		}
	}
}

// brailleOffsets maps a dot's (y%4, x%2) position to its bit in the
// braille pattern block.
var brailleOffsets = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// String renders the dot grid as lines of braille characters.
func (c *canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			var bits rune
			for sub := 0; sub < 4; sub++ {
				for half := 0; half < 2; half++ {
					if c.dots[(row*4+sub)*c.w+col*2+half] {
						bits |= brailleOffsets[sub][half]
					}
				}
			}
			b.WriteRune(0x2800 | bits)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func main() {
	// Handle --plugin-info flag
	if len(os.Args) > 1 && os.Args[1] == "--plugin-info" {
		p := &BraillePlugin{}
		info := p.GetMetadata()

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(info); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plugin info: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Serve the plugin using go-plugin
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: chromaplugin.Handshake,
		Plugins: map[string]plugin.Plugin{
			chromaplugin.RendererPluginName: &chromaplugin.RendererPluginRPC{
				Impl: &BraillePlugin{},
			},
		},
	})
}
