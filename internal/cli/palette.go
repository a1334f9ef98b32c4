// Package cli provides the command-line interface for Chromapath.
package cli

import (
	"fmt"
	"os"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/compression"
	"github.com/code-soul/chromapath/internal/image"
	"github.com/code-soul/chromapath/internal/plugin/renderer"
	"github.com/code-soul/chromapath/internal/seed"
	"github.com/spf13/cobra"
)

var (
	paletteColours    int
	paletteGray       int
	paletteMaxSamples int
	paletteSeedMode   string
	paletteSeedValue  uint64
	paletteOutput     string
	paletteCard       string
	paletteCardHeight int
	paletteCardWidth  int
	paletteRenderer   string
	palettePreview    bool
)

// paletteCmd represents the palette command
var paletteCmd = &cobra.Command{
	Use:   "palette [image]",
	Short: "Extract a weighted colour palette from an image",
	Long: `Extract a weighted colour palette from a single image.

Pixels too close to gray are filtered out, the remainder is clustered,
and the resulting colours are listed with the share of pixels each one
covers. On a terminal every colour is shown as a block scaled by its
weight; piped output uses the plain colour list format.

Supported image formats: JPEG, PNG, GIF, BMP, TIFF, WebP. The image may
also be an http(s) URL; downloads are cached.

Examples:
  # Extract the default 18 colours
  chromapath palette wallpaper.jpg

  # Extract 8 colours and save the colour list
  chromapath palette --colours 8 --output palette.txt wallpaper.png

  # Compress the list on the way out
  chromapath palette -o palette.txt.xz wallpaper.png

  # Render a palette card next to the list
  chromapath palette --card card.png wallpaper.jpg

  # Reproducible run keyed to the file path instead of its content
  chromapath palette --seed-mode filepath wallpaper.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runPalette,
}

func init() {
	paletteCmd.Flags().IntVarP(&paletteColours, "colours", "c", 18, "number of colours to extract (1-256)")
	paletteCmd.Flags().IntVar(&paletteGray, "gray-threshold", 1, "minimum channel spread for a pixel to count as chromatic")
	paletteCmd.Flags().IntVar(&paletteMaxSamples, "max-samples", 100000, "pixel sample cap (0 = use every pixel)")
	paletteCmd.Flags().StringVar(&paletteSeedMode, "seed-mode", "content", "seed derivation mode (content, filepath, manual, random)")
	paletteCmd.Flags().Uint64Var(&paletteSeedValue, "seed", 0, "seed value for --seed-mode manual")
	paletteCmd.Flags().StringVarP(&paletteOutput, "output", "o", "", "write the colour list to this file (.xz compresses)")
	paletteCmd.Flags().StringVar(&paletteCard, "card", "", "render a palette card PNG to this file")
	paletteCmd.Flags().IntVar(&paletteCardHeight, "card-height", 150, "palette card height in pixels")
	paletteCmd.Flags().IntVar(&paletteCardWidth, "card-width", 400, "palette card width budget in pixels")
	paletteCmd.Flags().StringVar(&paletteRenderer, "renderer", "card", "renderer plugin for --card")
	paletteCmd.Flags().BoolVar(&palettePreview, "preview", false, "show weighted previews even when piping output")
}

func runPalette(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	mode, err := seed.ParseMode(paletteSeedMode)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loading image: %s\n", imagePath)
	}
	loader := image.NewLoader()
	pixels, err := loader.Pixels(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	seedValue, err := seed.Calculate(pixels, imagePath, seed.Config{Mode: mode, Value: paletteSeedValue})
	if err != nil {
		return fmt.Errorf("failed to derive seed: %w", err)
	}

	cfg := colour.DefaultExtractorConfig()
	cfg.Colors = paletteColours
	cfg.GrayThreshold = paletteGray
	cfg.MaxSamples = paletteMaxSamples
	cfg.Clusterer.Seed = seedValue

	extractor, err := colour.NewExtractor(loader, cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Extracting %d colours (seed %d)...\n", cfg.Colors, seedValue)
	}
	res, err := extractor.ExtractPixels(pixels)
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}
	if verbose && !res.Converged {
		fmt.Fprintln(cmd.ErrOrStderr(), "Clustering hit the iteration cap before converging")
	}

	if paletteOutput != "" {
		text := colour.FormatList(res.Colors) + "\n"
		if err := compression.WriteFile(paletteOutput, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write colour list: %w", err)
		}
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d colours to %s\n", len(res.Colors), paletteOutput)
		}
	}

	if paletteCard != "" {
		if err := writePaletteCard(cmd, res.Colors); err != nil {
			return err
		}
	}

	if quiet {
		return nil
	}
	out := cmd.OutOrStdout()
	if palettePreview || isTerminal(os.Stdout) {
		for _, w := range res.Colors {
			fmt.Fprintln(out, colour.FormatWeighted(w, 40))
		}
	} else {
		fmt.Fprintln(out, colour.FormatList(res.Colors))
	}
	return nil
}

// writePaletteCard renders the list through the configured renderer and
// writes the PNG.
func writePaletteCard(cmd *cobra.Command, list colour.List) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	target, cleanup, err := resolveRenderer(paletteRenderer, verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := colour.CardConfig{Height: paletteCardHeight, WidthScale: paletteCardWidth}
	resp, err := target.Render(cmd.Context(), renderer.CardRequest(list, cfg, verbose))
	if err != nil {
		return fmt.Errorf("failed to render palette card: %w", err)
	}
	if err := os.WriteFile(paletteCard, resp.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write palette card: %w", err)
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %dx%d palette card to %s\n", resp.Width, resp.Height, paletteCard)
	}
	return nil
}
