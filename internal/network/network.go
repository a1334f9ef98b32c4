// Package network lays out colour relationship graphs: colours become
// nodes on a unit circle, co-occurrence weights become edges.
package network

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/code-soul/chromapath/internal/colour"
)

// DefaultNodeScale converts a palette weight into a node size.
const DefaultNodeScale = 100

// Node is one colour in the graph with its display size.
type Node struct {
	Colour colour.RGB
	Size   float64
}

// ParseNodes reads node lines in the "R G B size" interchange format.
// Lines with fewer than four fields are skipped, which lets input carry
// blank lines and annotations; extra fields on a line are ignored.
func ParseNodes(r io.Reader) ([]Node, error) {
	var nodes []Node

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		var channels [3]uint8
		for i, field := range fields[:3] {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad channel value %q: %w", lineNo, field, colour.ErrInvalidInput)
			}
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("line %d: channel value %d outside [0, 255]: %w", lineNo, v, colour.ErrInvalidInput)
			}
			channels[i] = uint8(v)
		}

		size, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad node size %q: %w", lineNo, fields[3], colour.ErrInvalidInput)
		}
		if size < 0 {
			return nil, fmt.Errorf("line %d: node size %v must be >= 0: %w", lineNo, size, colour.ErrInvalidInput)
		}

		nodes = append(nodes, Node{
			Colour: colour.RGB{R: channels[0], G: channels[1], B: channels[2]},
			Size:   size,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no node entries found: %w", colour.ErrInvalidInput)
	}

	return nodes, nil
}

// FormatNodes renders nodes back into "R G B size" lines.
func FormatNodes(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		fmt.Fprintf(&b, "%d %d %d %g\n", n.Colour.R, n.Colour.G, n.Colour.B, n.Size)
	}
	return b.String()
}

// NodesFromList turns a weighted colour list into nodes, scaling each
// weight into a display size. A scale of zero or below picks
// DefaultNodeScale.
func NodesFromList(list colour.List, scale float64) []Node {
	if scale <= 0 {
		scale = DefaultNodeScale
	}
	nodes := make([]Node, len(list))
	for i, w := range list {
		nodes[i] = Node{Colour: w.RGB, Size: w.Weight * scale}
	}
	return nodes
}
