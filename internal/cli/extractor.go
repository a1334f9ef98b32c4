// Package cli provides the command-line interface for Chromapath.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/compression"
	"github.com/code-soul/chromapath/internal/image"
	"github.com/code-soul/chromapath/internal/network"
	"github.com/spf13/cobra"
)

var (
	extractorColours    int
	extractorGray       int
	extractorMaxSamples int
	extractorSeed       uint64
	extractorPerImage   bool
	extractorOutput     string
	extractorNodes      string
	extractorNodeScale  float64
)

// extractorCmd represents the extractor command
var extractorCmd = &cobra.Command{
	Use:   "extractor [folder]",
	Short: "Extract one colour list describing a folder of images",
	Long: `Extract one weighted colour list describing every image in a folder.

The chromatic pixels of all images are pooled and clustered together, so
each weight is the share of the whole folder that colour covers. Images
that cannot be read are skipped. With --per-image every image is instead
analysed on its own and listed separately.

The folder seed is fixed, so repeated runs over the same folder produce
the same list; pass --seed to vary it.

Examples:
  # One list for the whole folder
  chromapath extractor --output colors.txt ./wallpapers

  # Larger vocabulary, compressed output
  chromapath extractor -c 24 -o colors.txt.xz ./wallpapers

  # Per-image lists
  chromapath extractor --per-image ./wallpapers

  # Also write a node file for the network tool
  chromapath extractor -o colors.txt --nodes nodes.txt ./wallpapers`,
	Args: cobra.ExactArgs(1),
	RunE: runExtractor,
}

func init() {
	extractorCmd.Flags().IntVarP(&extractorColours, "colours", "c", 18, "number of colours to extract (1-256)")
	extractorCmd.Flags().IntVar(&extractorGray, "gray-threshold", 1, "minimum channel spread for a pixel to count as chromatic")
	extractorCmd.Flags().IntVar(&extractorMaxSamples, "max-samples", 100000, "pixel sample cap per image (0 = use every pixel)")
	extractorCmd.Flags().Uint64Var(&extractorSeed, "seed", 0, "clustering seed")
	extractorCmd.Flags().BoolVar(&extractorPerImage, "per-image", false, "analyse each image separately")
	extractorCmd.Flags().StringVarP(&extractorOutput, "output", "o", "", "write the colour list to this file (.xz compresses)")
	extractorCmd.Flags().StringVar(&extractorNodes, "nodes", "", "write a node file for the network tool")
	extractorCmd.Flags().Float64Var(&extractorNodeScale, "node-scale", network.DefaultNodeScale, "node size per unit of weight in the node file")
}

func runExtractor(cmd *cobra.Command, args []string) error {
	dir := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to access folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	cfg := colour.DefaultExtractorConfig()
	cfg.Colors = extractorColours
	cfg.GrayThreshold = extractorGray
	cfg.MaxSamples = extractorMaxSamples
	cfg.Clusterer.Seed = extractorSeed

	extractor, err := colour.NewExtractor(image.NewLoader(), cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Extracting %d colours from %s...\n", cfg.Colors, dir)
	}

	if extractorNodes != "" && extractorPerImage {
		return fmt.Errorf("--nodes describes the folder-level list and cannot be combined with --per-image")
	}

	var text string
	if extractorPerImage {
		results, err := extractor.ExtractPerImage(dir)
		if err != nil {
			return fmt.Errorf("failed to extract colours: %w", err)
		}
		var b strings.Builder
		for _, ic := range results {
			fmt.Fprintf(&b, "%s:\n%s\n", ic.File, colour.FormatList(ic.Colors))
		}
		text = b.String()
	} else {
		res, err := extractor.ExtractFolder(dir)
		if err != nil {
			return fmt.Errorf("failed to extract colours: %w", err)
		}
		text = colour.FormatList(res.Colors) + "\n"

		if extractorNodes != "" {
			nodes := network.NodesFromList(res.Colors, extractorNodeScale)
			if err := compression.WriteFile(extractorNodes, []byte(network.FormatNodes(nodes)), 0o644); err != nil {
				return fmt.Errorf("failed to write node file: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d nodes to %s\n", len(nodes), extractorNodes)
			}
		}
	}

	if extractorOutput != "" {
		if err := compression.WriteFile(extractorOutput, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write colour list: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote colour list to %s\n", extractorOutput)
		}
		return nil
	}
	if !quiet {
		fmt.Fprint(cmd.OutOrStdout(), text)
	}
	return nil
}
