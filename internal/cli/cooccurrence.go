// Package cli provides the command-line interface for Chromapath.
package cli

import (
	"bytes"
	"fmt"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/compression"
	"github.com/code-soul/chromapath/internal/cooccurrence"
	"github.com/code-soul/chromapath/internal/image"
	"github.com/spf13/cobra"
)

var (
	cooccurrenceThreshold float64
	cooccurrenceMetric    = newMetricValue()
	cooccurrencePrecision int
	cooccurrenceOutput    string
)

// cooccurrenceCmd represents the cooccurrence command
var cooccurrenceCmd = &cobra.Command{
	Use:   "cooccurrence [folder] [colour-list]",
	Short: "Measure how colours co-occur across a folder of images",
	Long: `Build a colour co-occurrence matrix for a folder of images.

The colour list fixes the vocabulary: a listed colour is present in an
image when some pixel lies within the distance threshold of it. Two
colours co-occur when they are present in the same image, and each
matrix cell holds the fraction of images where both are.

Examples:
  # Analyse a folder against an extracted colour list
  chromapath cooccurrence ./wallpapers colors.txt

  # Looser matching and four decimal places
  chromapath cooccurrence --threshold 40 --precision 4 ./wallpapers colors.txt

  # Perceptual matching in Lab space
  chromapath cooccurrence --metric lab ./wallpapers colors.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runCooccurrence,
}

func init() {
	cooccurrenceCmd.Flags().Float64Var(&cooccurrenceThreshold, "threshold", cooccurrence.DefaultThreshold, "maximum distance for a colour to count as present")
	cooccurrenceCmd.Flags().Var(cooccurrenceMetric, "metric", "distance metric (euclidean, lab, luv)")
	cooccurrenceCmd.Flags().IntVar(&cooccurrencePrecision, "precision", 2, "decimal places in the matrix output")
	cooccurrenceCmd.Flags().StringVarP(&cooccurrenceOutput, "output", "o", "", "write the matrix to this file (.xz compresses)")
}

func runCooccurrence(cmd *cobra.Command, args []string) error {
	dir, listPath := args[0], args[1]
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	data, err := compression.ReadFile(listPath)
	if err != nil {
		return fmt.Errorf("failed to read colour list: %w", err)
	}
	list, err := colour.ParseList(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse colour list: %w", err)
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Analysing %s against %d colours...\n", dir, len(list))
	}

	analyzer := cooccurrence.New(image.NewLoader(), cooccurrenceMetric.Metric())
	matrix, err := analyzer.AnalyzeFolder(dir, list, cooccurrenceThreshold)
	if err != nil {
		return fmt.Errorf("failed to analyse folder: %w", err)
	}

	text := matrix.Format(cooccurrencePrecision) + "\n"
	if cooccurrenceOutput != "" {
		if err := compression.WriteFile(cooccurrenceOutput, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write matrix: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %dx%d matrix to %s\n", matrix.Size(), matrix.Size(), cooccurrenceOutput)
		}
		return nil
	}
	if !quiet {
		fmt.Fprint(cmd.OutOrStdout(), text)
	}
	return nil
}
