// Package cli provides the command-line interface for Chromapath.
package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/code-soul/chromapath/internal/compression"
	"github.com/code-soul/chromapath/internal/cooccurrence"
	"github.com/code-soul/chromapath/internal/network"
	"github.com/code-soul/chromapath/internal/plugin/renderer"
	"github.com/spf13/cobra"
)

var (
	networkOutput       string
	networkRendererName string
	networkBase         float64
	networkHighlight    float64
	networkSize         int
	networkOptions      []string
)

// networkCmd represents the network command
var networkCmd = &cobra.Command{
	Use:   "network [nodes-file] [matrix-file]",
	Short: "Render a colour relationship network",
	Long: `Render a colour relationship network from node and matrix files.

The nodes file lists one colour per line as "R G B size"; the matrix
file carries the pairwise weights between them, row per node. Nodes are
laid out on a circle, pairs whose weight clears the base threshold are
joined, and pairs clearing the highlight threshold are drawn wider in
red.

Examples:
  # Render network.png from node and matrix files
  chromapath network nodes.txt matrix.txt

  # Raise the thresholds and the canvas size
  chromapath network --base-threshold 5 --highlight-threshold 9 --size 1600 nodes.txt matrix.txt

  # Use an external renderer plugin with its own options
  chromapath network --renderer braille --option cols=80 nodes.txt matrix.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runNetwork,
}

func init() {
	networkCmd.Flags().StringVarP(&networkOutput, "output", "o", "network.png", "output image file")
	networkCmd.Flags().StringVar(&networkRendererName, "renderer", "network", "renderer plugin to draw with")
	networkCmd.Flags().Float64Var(&networkBase, "base-threshold", 3, "minimum weight for an edge")
	networkCmd.Flags().Float64Var(&networkHighlight, "highlight-threshold", 7, "minimum weight for a highlighted edge")
	networkCmd.Flags().IntVar(&networkSize, "size", 0, "canvas size in pixels (0 = renderer default)")
	networkCmd.Flags().StringArrayVar(&networkOptions, "option", nil, "renderer option as key=value (repeatable)")
}

func runNetwork(cmd *cobra.Command, args []string) error {
	nodesPath, matrixPath := args[0], args[1]
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	nodesData, err := compression.ReadFile(nodesPath)
	if err != nil {
		return fmt.Errorf("failed to read nodes file: %w", err)
	}
	nodes, err := network.ParseNodes(bytes.NewReader(nodesData))
	if err != nil {
		return fmt.Errorf("failed to parse nodes file: %w", err)
	}

	matrixData, err := compression.ReadFile(matrixPath)
	if err != nil {
		return fmt.Errorf("failed to read matrix file: %w", err)
	}
	matrix, err := cooccurrence.ParseMatrix(bytes.NewReader(matrixData))
	if err != nil {
		return fmt.Errorf("failed to parse matrix file: %w", err)
	}

	graph, err := network.Build(nodes, matrix, network.Config{
		BaseThreshold:      networkBase,
		HighlightThreshold: networkHighlight,
	})
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Built network: %d nodes, %d edges\n", len(graph.Nodes), len(graph.Edges))
	}

	target, cleanup, err := resolveRenderer(networkRendererName, verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	req := renderer.NetworkRequest(graph, verbose)
	opts, err := parseOptions(networkOptions)
	if err != nil {
		return err
	}
	if networkSize > 0 {
		if opts == nil {
			opts = make(map[string]string, 1)
		}
		opts["size"] = strconv.Itoa(networkSize)
	}
	if opts != nil {
		req.Options = opts
	}

	resp, err := target.Render(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to render network: %w", err)
	}

	if err := os.WriteFile(networkOutput, resp.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write network image: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %dx%d network to %s\n", resp.Width, resp.Height, networkOutput)
	}
	return nil
}
