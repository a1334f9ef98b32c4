// Package cli provides the command-line interface for Chromapath.
package cli

import (
	"fmt"
	"os"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/version"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chromapath",
	Short: "A colour analysis toolkit for image collections",
	Long: `Chromapath analyses the colours of images and image collections.

It extracts weighted colour palettes from single images or whole folders,
measures how colours co-occur across a collection, renders palette cards
and colour relationship networks, and evolves recolouring schemes through
interactively scored generations.`,
	Version:      version.Short(),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// ANSI previews are only useful on a terminal.
		if !isTerminal(os.Stdout) {
			colour.DisableColourOutput = true
		}
	},
}

// NewRootCmd returns the assembled root command for embedding and tests.
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	// Set version template
	rootCmd.SetVersionTemplate(version.String() + "\n")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(extractorCmd)
	rootCmd.AddCommand(cooccurrenceCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(geneticCmd)
	rootCmd.AddCommand(pluginsCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
