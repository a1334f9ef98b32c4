// Package network implements the builtin relationship network renderer.
// It rasterises a laid-out colour graph: alpha-blended edges under
// weighted node discs, numbered labels and a title, on a white canvas.
package network

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/version"
	"github.com/code-soul/chromapath/pkg/plugin"
)

const (
	// DefaultSize is the canvas edge length in pixels.
	DefaultSize = 1000

	// figurePoints is the canvas edge in typographic points. Stroke
	// widths and node areas are given in points and scaled from it, so
	// the plot keeps its proportions at any canvas size.
	figurePoints = 720.0

	// viewHalf is the distance from canvas centre to edge in graph
	// units. Nodes sit on the unit circle, so the view keeps a margin
	// around them.
	viewHalf = 1.5

	edgeAlpha = 0.6
	nodeAlpha = 0.8

	title = "Color Relationship Network"
)

var (
	baseEdgeColour      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	highlightEdgeColour = color.RGBA{R: 255, A: 255}
)

// Renderer draws colour relationship networks. Node disc area grows with
// the node's size value, edges below the discs are grey for base weights
// and red for highlighted ones, and every node carries its 1-based index.
type Renderer struct{}

// New creates the builtin network renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render rasterises the request's network data and encodes it as PNG.
func (r *Renderer) Render(ctx context.Context, req plugin.RenderRequest) (plugin.RenderResponse, error) {
	if req.Kind != plugin.RenderKindNetwork || req.Network == nil {
		return plugin.RenderResponse{}, fmt.Errorf("network renderer needs network data, got kind %q: %w", req.Kind, colour.ErrInvalidInput)
	}

	size := DefaultSize
	if s, ok := req.Options["size"]; ok {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return plugin.RenderResponse{}, fmt.Errorf("invalid size option %q: %w", s, colour.ErrInvalidInput)
		}
		size = n
	}

	data := req.Network
	for _, e := range data.Edges {
		if e.From < 0 || e.From >= len(data.Nodes) || e.To < 0 || e.To >= len(data.Nodes) {
			return plugin.RenderResponse{}, fmt.Errorf("edge %d-%d references a missing node: %w", e.From, e.To, colour.ErrInvalidInput)
		}
	}

	img := rasterise(data, size)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return plugin.RenderResponse{}, fmt.Errorf("failed to encode network PNG: %w", err)
	}

	return plugin.RenderResponse{
		Data:   buf.Bytes(),
		Format: "png",
		Width:  size,
		Height: size,
	}, nil
}

// GetMetadata returns the renderer's plugin information.
func (r *Renderer) GetMetadata() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            "network",
		Type:            "renderer",
		Version:         version.Version,
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     "Colour relationship network with weighted nodes and thresholded edges",
		PluginProtocol:  string(plugin.PluginTypeBuiltin),
	}
}

// GetFlagHelp describes the options the renderer understands.
func (r *Renderer) GetFlagHelp() []plugin.FlagHelp {
	return []plugin.FlagHelp{
		{
			Name:        "size",
			Type:        "int",
			Default:     strconv.Itoa(DefaultSize),
			Description: "Canvas width and height in pixels",
		},
	}
}

// rasterise draws the graph onto a fresh white canvas. Edges go down
// first so node discs and labels sit on top of them.
func rasterise(data *plugin.NetworkData, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	pt := float64(size) / figurePoints

	for _, e := range data.Edges {
		x1, y1 := toPixel(data.Nodes[e.From].X, data.Nodes[e.From].Y, size)
		x2, y2 := toPixel(data.Nodes[e.To].X, data.Nodes[e.To].Y, size)
		width, col := 1.0, baseEdgeColour
		if e.Highlight {
			width, col = 2.0, highlightEdgeColour
		}
		drawLine(img, x1, y1, x2, y2, width*pt, col, edgeAlpha)
	}

	for _, n := range data.Nodes {
		cx, cy := toPixel(n.X, n.Y, size)
		// Disc area in points squared is 100 times the node size.
		radius := math.Sqrt(n.Size*100/math.Pi) * pt
		fill := color.RGBA{R: n.RGB.R, G: n.RGB.G, B: n.RGB.B, A: 255}
		drawDisc(img, cx, cy, radius, pt, fill, nodeAlpha)
	}

	for i, n := range data.Nodes {
		cx, cy := toPixel(n.X, n.Y, size)
		drawLabel(img, strconv.Itoa(i+1), cx, cy)
	}

	drawText(img, title, size/2, 20)

	return img
}

// toPixel maps graph coordinates onto the canvas. The y axis flips
// because image rows grow downward.
func toPixel(x, y float64, size int) (float64, float64) {
	s := float64(size)
	return (x + viewHalf) * s / (2 * viewHalf), (viewHalf - y) * s / (2 * viewHalf)
}

// drawLine stamps a stroked segment. Pixels are collected in a set first
// so overlapping stamps blend once and the stroke's alpha stays uniform.
func drawLine(img *image.RGBA, x1, y1, x2, y2, width float64, col color.RGBA, alpha float64) {
	r := width / 2
	steps := 2 * int(math.Ceil(math.Hypot(x2-x1, y2-y1)))
	if steps < 1 {
		steps = 1
	}
	pixels := make(map[image.Point]struct{})
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stampDisc(pixels, x1+(x2-x1)*t, y1+(y2-y1)*t, r)
	}
	for p := range pixels {
		blend(img, p.X, p.Y, col, alpha)
	}
}

// stampDisc records the pixels whose centres fall inside a disc.
func stampDisc(pixels map[image.Point]struct{}, cx, cy, r float64) {
	if r < 0.5 {
		r = 0.5
	}
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				pixels[image.Point{X: x, Y: y}] = struct{}{}
			}
		}
	}
}

// drawDisc fills a node disc and strokes its outline in one pass: pixels
// in the outer band get black, the rest of the disc the fill colour.
func drawDisc(img *image.RGBA, cx, cy, radius, outline float64, fill color.RGBA, alpha float64) {
	if radius < 1 {
		radius = 1
	}
	inner := radius - outline
	if inner < 0 {
		inner = 0
	}
	for y := int(math.Floor(cy - radius)); y <= int(math.Ceil(cy+radius)); y++ {
		for x := int(math.Floor(cx - radius)); x <= int(math.Ceil(cx+radius)); x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			d2 := dx*dx + dy*dy
			switch {
			case d2 > radius*radius:
			case d2 >= inner*inner:
				blend(img, x, y, color.RGBA{A: 255}, alpha)
			default:
				blend(img, x, y, fill, alpha)
			}
		}
	}
}

// blend mixes a colour over the existing pixel at the given opacity.
func blend(img *image.RGBA, x, y int, col color.RGBA, alpha float64) {
	if x < 0 || y < 0 || x >= img.Bounds().Dx() || y >= img.Bounds().Dy() {
		return
	}
	dst := img.RGBAAt(x, y)
	img.SetRGBA(x, y, color.RGBA{
		R: mix(col.R, dst.R, alpha),
		G: mix(col.G, dst.G, alpha),
		B: mix(col.B, dst.B, alpha),
		A: 255,
	})
}

func mix(src, dst uint8, alpha float64) uint8 {
	return uint8(math.Round(float64(src)*alpha + float64(dst)*(1-alpha)))
}

// drawLabel centres a node's index on its disc.
func drawLabel(img *image.RGBA, label string, cx, cy float64) {
	face := basicfont.Face7x13
	baseline := int(math.Round(cy)) + (face.Ascent-face.Descent)/2
	drawText(img, label, int(math.Round(cx)), baseline)
}

// drawText draws a string horizontally centred on x with its baseline at y.
func drawText(img *image.RGBA, text string, x, y int) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x) - font.MeasureString(face, text)/2,
			Y: fixed.I(y),
		},
	}
	d.DrawString(text)
}
