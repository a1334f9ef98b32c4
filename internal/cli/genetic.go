// Package cli provides the command-line interface for Chromapath.
package cli

import (
	"fmt"
	"os"

	"github.com/code-soul/chromapath/internal/aiseed"
	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/compression"
	"github.com/code-soul/chromapath/internal/genetic"
	"github.com/code-soul/chromapath/internal/image"
	"github.com/code-soul/chromapath/internal/notify"
	"github.com/code-soul/chromapath/internal/seed"
	"github.com/spf13/cobra"
)

var (
	geneticColours        int
	geneticPopulation     int
	geneticMutationRate   float64
	geneticMutationChange float64
	geneticElite          float64
	geneticSeedMode       string
	geneticSeedValue      uint64
	geneticMetric         = newMetricValue()
	geneticSeedAI         string
	geneticAIModel        string
	geneticScores         []string
	geneticOutput         string
	geneticRecolor        string
	geneticNotify         bool
	geneticViewers        []string
)

// geneticCmd represents the genetic command
var geneticCmd = &cobra.Command{
	Use:   "genetic [image]",
	Short: "Evolve a colour scheme for an image through scored generations",
	Long: `Evolve recolouring schemes for an image by scoring generations.

The image is segmented into colour regions, and each scheme repaints
those regions with its own colours. Every scheme in a generation is
scored 0 to 10; schemes at or above the elite threshold survive
unchanged while the rest are bred through crossover and mutation. The
loop runs until you quit, and the best scheme seen across all
generations is kept.

The session is interactive and needs a terminal. For scripted runs pass
--scores once per generation; each occurrence scores a whole generation
and every generation except the last is evolved.

Examples:
  # Interactive session with the default 5 colours
  chromapath genetic photo.jpg

  # Save the best scheme and a recoloured image on exit
  chromapath genetic --output scheme.txt --recolor recolored.png photo.jpg

  # Seed the first generation from a text prompt
  chromapath genetic --seed-ai "dusk over water" photo.jpg

  # Scripted: score two generations of four schemes
  chromapath genetic -p 4 --scores 7,3,9,5 --scores 8,6,2,9 photo.jpg

  # Refresh feh after writing the recoloured image
  chromapath genetic --recolor recolored.png --notify photo.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runGenetic,
}

func init() {
	// Flag defaults mirror the optimizer defaults; the flag values are
	// passed through as given, so --mutation-rate 0 and
	// --elite-threshold 0 mean exactly that.
	def := genetic.DefaultConfig()
	geneticCmd.Flags().IntVarP(&geneticColours, "colours", "c", def.Colors, "colours per scheme and image regions (1-256)")
	geneticCmd.Flags().IntVarP(&geneticPopulation, "population", "p", def.PopulationSize, "schemes per generation")
	geneticCmd.Flags().Float64Var(&geneticMutationRate, "mutation-rate", def.MutationRate, "fraction of offspring mutated each generation")
	geneticCmd.Flags().Float64Var(&geneticMutationChange, "mutation-change", def.MaxMutationChange, "maximum relative change of a mutated channel")
	geneticCmd.Flags().Float64Var(&geneticElite, "elite-threshold", def.EliteThreshold, "score at which a scheme survives unchanged")
	geneticCmd.Flags().StringVar(&geneticSeedMode, "seed-mode", "content", "seed derivation mode (content, filepath, manual, random)")
	geneticCmd.Flags().Uint64Var(&geneticSeedValue, "seed", 0, "seed value for --seed-mode manual")
	geneticCmd.Flags().Var(geneticMetric, "metric", "distance metric for image segmentation (euclidean, lab, luv)")
	geneticCmd.Flags().StringVar(&geneticSeedAI, "seed-ai", "", "seed the first generation from this text prompt")
	geneticCmd.Flags().StringVar(&geneticAIModel, "ai-model", aiseed.DefaultModel, "model used with --seed-ai")
	geneticCmd.Flags().StringArrayVar(&geneticScores, "scores", nil, "comma-separated scores for one generation (repeatable)")
	geneticCmd.Flags().StringVarP(&geneticOutput, "output", "o", "", "write the best scheme to this file (.xz compresses)")
	geneticCmd.Flags().StringVar(&geneticRecolor, "recolor", "", "write a recoloured image using the best scheme")
	geneticCmd.Flags().BoolVar(&geneticNotify, "notify", false, "refresh image viewers after writing --recolor")
	geneticCmd.Flags().StringSliceVar(&geneticViewers, "viewers", nil, "viewer process names to refresh (default feh, imv, etc.)")
}

func runGenetic(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")

	if len(geneticScores) == 0 && !isTerminal(os.Stdin) {
		return fmt.Errorf("interactive scoring needs a terminal; use --scores for scripted runs")
	}

	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	mode, err := seed.ParseMode(geneticSeedMode)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loading image: %s\n", imagePath)
	}
	loader := image.NewLoader()
	img, err := loader.Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	pixels := colour.PixelsFromImage(img)

	seedValue, err := seed.Calculate(pixels, imagePath, seed.Config{Mode: mode, Value: geneticSeedValue})
	if err != nil {
		return fmt.Errorf("failed to derive seed: %w", err)
	}

	cfg := genetic.Config{
		Colors:            geneticColours,
		PopulationSize:    geneticPopulation,
		MutationRate:      geneticMutationRate,
		MaxMutationChange: geneticMutationChange,
		EliteThreshold:    geneticElite,
		Seed:              seedValue,
		Metric:            geneticMetric.Metric(),
	}
	if geneticSeedAI != "" {
		cfg.SeedColors = proposeSeedColours(cmd, geneticSeedAI, geneticColours)
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Segmenting image into %d colour regions (seed %d)...\n", cfg.Colors, seedValue)
	}
	opt, err := genetic.New(pixels, cfg)
	if err != nil {
		return fmt.Errorf("failed to start optimizer: %w", err)
	}

	session := newGeneticSession(cmd, opt)
	if len(geneticScores) > 0 {
		err = session.runScripted(geneticScores)
	} else {
		err = session.runInteractive()
	}
	if err != nil {
		return err
	}

	return saveGeneticResults(cmd, opt, bounds.Dx(), bounds.Dy())
}

// proposeSeedColours asks the AI seeder for starting colours, falling back
// to the built-in seed colours on any failure.
func proposeSeedColours(cmd *cobra.Command, prompt string, count int) []colour.RGB {
	proposer := aiseed.Proposer{Model: geneticAIModel}
	colours, err := proposer.Propose(cmd.Context(), prompt, count)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "AI seeding failed (%v); using the default seed colours\n", err)
		return nil
	}
	return colours
}

// saveGeneticResults prints the best scheme and writes the requested
// artefacts once the session ends.
func saveGeneticResults(cmd *cobra.Command, opt *genetic.Optimizer, width, height int) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	best, score, err := opt.Best()
	if err != nil {
		return fmt.Errorf("nothing to save: %w", err)
	}

	if !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Best scheme (score %.1f):\n", score)
		for _, c := range best {
			fmt.Fprintln(out, colour.FormatColourWithPreview(c, 8))
		}
	}

	if geneticOutput != "" {
		list := make(colour.List, len(best))
		for i, c := range best {
			list[i] = colour.Weighted{RGB: c, Weight: 1 / float64(len(best))}
		}
		text := colour.FormatList(list) + "\n"
		if err := compression.WriteFile(geneticOutput, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write scheme: %w", err)
		}
	}

	if geneticRecolor != "" {
		recolored, err := opt.Recolor(best)
		if err != nil {
			return err
		}
		if err := image.WritePNG(geneticRecolor, recolored, width, height); err != nil {
			return fmt.Errorf("failed to write recoloured image: %w", err)
		}
		if geneticNotify {
			count, err := notify.Refresh(geneticViewers)
			if err != nil {
				return fmt.Errorf("failed to refresh viewers: %w", err)
			}
			if !quiet && count > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d viewer(s)\n", count)
			}
		}
	}
	return nil
}
