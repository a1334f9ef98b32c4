// Package cli_test provides tests for the CLI package.
package cli_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/code-soul/chromapath/internal/cli"
	"github.com/code-soul/chromapath/internal/colour"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// writeTestImage writes a PNG whose left half is one colour and right half
// another, giving images with exactly two distinct chromatic colours.
func writeTestImage(t *testing.T, path string, left, right color.RGBA) {
	t.Helper()

	const width, height = 40, 10
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.SetRGBA(x, y, left)
			} else {
				img.SetRGBA(x, y, right)
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}

var (
	testRed   = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	testBlue  = color.RGBA{R: 30, G: 30, B: 200, A: 255}
	testGreen = color.RGBA{R: 30, G: 200, B: 30, A: 255}
)

// setupTests creates a folder with two test images and returns its path.
func setupTests(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeTestImage(t, filepath.Join(dir, "a.png"), testRed, testBlue)
	writeTestImage(t, filepath.Join(dir, "b.png"), testRed, testGreen)
	return dir
}

// resetSliceFlags empties repeatable flags on the whole command tree.
// pflag array values append across Execute calls, so reusing the root
// command would otherwise leak --scores and friends between tests.
// Scalar flags keep their last value too, so any changed flag is also
// restored to its default.
func resetSliceFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else if f.Changed {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetSliceFlags(sub)
	}
}

// execute runs the root command with args and returns the captured output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	resetSliceFlags(rootCmd)
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// parseListFile reads a colour list file written by a command.
func parseListFile(t *testing.T, path string) colour.List {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open colour list: %v", err)
	}
	defer f.Close()
	list, err := colour.ParseList(f)
	if err != nil {
		t.Fatalf("Failed to parse colour list: %v", err)
	}
	return list
}

// weightOf returns the weight of rgb in list, failing if it is missing.
func weightOf(t *testing.T, list colour.List, rgb colour.RGB) float64 {
	t.Helper()

	for _, w := range list {
		if w.RGB == rgb {
			return w.Weight
		}
	}
	t.Fatalf("colour %v missing from %v", rgb, list)
	return 0
}

func TestPaletteCommand(t *testing.T) {
	dir := setupTests(t)

	t.Run("ExtractsColours", func(t *testing.T) {
		listPath := filepath.Join(dir, "palette.txt")
		out, err := execute(t, "palette",
			"--colours", "2",
			"--seed-mode", "manual", "--seed", "7",
			"--output", listPath,
			filepath.Join(dir, "a.png"))
		if err != nil {
			t.Fatalf("palette failed: %v\n%s", err, out)
		}

		list := parseListFile(t, listPath)
		if len(list) != 2 {
			t.Fatalf("extracted %d colours, want 2", len(list))
		}
		red := weightOf(t, list, colour.RGB{R: 200, G: 30, B: 30})
		blue := weightOf(t, list, colour.RGB{R: 30, G: 30, B: 200})
		if red != 0.5 || blue != 0.5 {
			t.Errorf("weights = %v red, %v blue, want 0.5 each", red, blue)
		}
	})

	t.Run("PrintsListWhenPiped", func(t *testing.T) {
		out, err := execute(t, "palette",
			"--colours", "2",
			"--seed-mode", "manual", "--seed", "7",
			"--output", filepath.Join(dir, "ignored.txt"),
			filepath.Join(dir, "a.png"))
		if err != nil {
			t.Fatalf("palette failed: %v", err)
		}
		if !strings.Contains(out, "([200, 30, 30], 0.5000)") {
			t.Errorf("piped output missing list entry:\n%s", out)
		}
	})

	t.Run("RendersCard", func(t *testing.T) {
		cardPath := filepath.Join(dir, "card.png")
		_, err := execute(t, "palette",
			"--colours", "2",
			"--seed-mode", "manual", "--seed", "7",
			"--output", filepath.Join(dir, "ignored.txt"),
			"--card", cardPath,
			"--card-height", "20", "--card-width", "40",
			filepath.Join(dir, "a.png"))
		if err != nil {
			t.Fatalf("palette --card failed: %v", err)
		}

		f, err := os.Open(cardPath)
		if err != nil {
			t.Fatalf("Failed to open card: %v", err)
		}
		defer f.Close()
		img, err := png.Decode(f)
		if err != nil {
			t.Fatalf("card is not a PNG: %v", err)
		}
		if img.Bounds().Dy() != 20 {
			t.Errorf("card height = %d, want 20", img.Bounds().Dy())
		}
	})

	t.Run("MissingImage", func(t *testing.T) {
		_, err := execute(t, "palette", filepath.Join(dir, "missing.png"))
		if err == nil {
			t.Fatal("expected an error for a missing image")
		}
	})

	t.Run("UnknownRenderer", func(t *testing.T) {
		_, err := execute(t, "palette",
			"--card", filepath.Join(dir, "card2.png"),
			"--renderer", "no-such-renderer",
			"--output", filepath.Join(dir, "ignored.txt"),
			filepath.Join(dir, "a.png"))
		if err == nil {
			t.Fatal("expected an error for an unknown renderer")
		}
	})
}

func TestExtractorCommand(t *testing.T) {
	dir := setupTests(t)
	listPath := filepath.Join(dir, "colors.txt")

	out, err := execute(t, "extractor",
		"--colours", "3",
		"--output", listPath,
		dir)
	if err != nil {
		t.Fatalf("extractor failed: %v\n%s", err, out)
	}

	list := parseListFile(t, listPath)
	if len(list) != 3 {
		t.Fatalf("extracted %d colours, want 3", len(list))
	}

	// Red covers half of both images; blue and green a quarter of the
	// folder each.
	if w := weightOf(t, list, colour.RGB{R: 200, G: 30, B: 30}); w != 0.5 {
		t.Errorf("red weight = %v, want 0.5", w)
	}
	if w := weightOf(t, list, colour.RGB{R: 30, G: 30, B: 200}); w != 0.25 {
		t.Errorf("blue weight = %v, want 0.25", w)
	}
	if w := weightOf(t, list, colour.RGB{R: 30, G: 200, B: 30}); w != 0.25 {
		t.Errorf("green weight = %v, want 0.25", w)
	}

	var total float64
	for _, w := range list {
		total += w.Weight
	}
	if total < 0.999999 || total > 1.000001 {
		t.Errorf("weights sum to %v, want 1", total)
	}
}

func TestExtractorWritesNodeFile(t *testing.T) {
	dir := setupTests(t)
	nodesPath := filepath.Join(dir, "nodes.txt")

	out, err := execute(t, "extractor",
		"--colours", "3",
		"--output", filepath.Join(dir, "colors.txt"),
		"--nodes", nodesPath,
		dir)
	if err != nil {
		t.Fatalf("extractor --nodes failed: %v\n%s", err, out)
	}

	data, err := os.ReadFile(nodesPath)
	if err != nil {
		t.Fatalf("Failed to read node file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("node file has %d lines, want 3:\n%s", len(lines), data)
	}
	// Red covers half the folder, so its node size is half the default
	// scale of 100.
	if !strings.Contains(string(data), "200 30 30 50") {
		t.Errorf("node file missing the red node:\n%s", data)
	}

	// The node file drives the network command directly.
	matrixPath := filepath.Join(dir, "m3.txt")
	if err := os.WriteFile(matrixPath, []byte("0 5 5\n5 0 0\n5 0 0\n"), 0o600); err != nil {
		t.Fatalf("Failed to write matrix: %v", err)
	}
	if out, err := execute(t, "network",
		"--output", filepath.Join(dir, "net3.png"),
		nodesPath, matrixPath); err != nil {
		t.Fatalf("network on extracted nodes failed: %v\n%s", err, out)
	}
}

func TestExtractorNodesConflictsWithPerImage(t *testing.T) {
	dir := setupTests(t)

	_, err := execute(t, "extractor",
		"--per-image",
		"--nodes", filepath.Join(dir, "nodes.txt"),
		dir)
	if err == nil || !strings.Contains(err.Error(), "--per-image") {
		t.Fatalf("expected a flag conflict error, got %v", err)
	}
}

func TestExtractorPerImage(t *testing.T) {
	dir := setupTests(t)

	out, err := execute(t, "extractor", "--colours", "2", "--per-image", dir)
	if err != nil {
		t.Fatalf("extractor --per-image failed: %v", err)
	}
	if !strings.Contains(out, "a.png:") || !strings.Contains(out, "b.png:") {
		t.Errorf("per-image output missing file headers:\n%s", out)
	}
}

func TestCooccurrenceCommand(t *testing.T) {
	dir := setupTests(t)

	listPath := filepath.Join(dir, "colors.txt")
	listText := "200 30 30 0.4\n30 30 200 0.3\n30 200 30 0.3\n"
	if err := os.WriteFile(listPath, []byte(listText), 0o600); err != nil {
		t.Fatalf("Failed to write colour list: %v", err)
	}

	matrixPath := filepath.Join(dir, "matrix.txt")
	out, err := execute(t, "cooccurrence",
		"--output", matrixPath,
		dir, listPath)
	if err != nil {
		t.Fatalf("cooccurrence failed: %v\n%s", err, out)
	}

	data, err := os.ReadFile(matrixPath)
	if err != nil {
		t.Fatalf("Failed to read matrix: %v", err)
	}
	text := string(data)

	// Red appears in both images, blue and green in one each, so red
	// co-occurs with each of them in half the folder and blue never
	// meets green.
	for _, row := range []string{
		"[0.00, 0.50, 0.50]",
		"[0.50, 0.00, 0.00]",
	} {
		if !strings.Contains(text, row) {
			t.Errorf("matrix missing row %q:\n%s", row, text)
		}
	}
}

func TestCooccurrenceRejectsUnknownMetric(t *testing.T) {
	dir := setupTests(t)

	listPath := filepath.Join(dir, "colors.txt")
	if err := os.WriteFile(listPath, []byte("200 30 30 1.0\n"), 0o600); err != nil {
		t.Fatalf("Failed to write colour list: %v", err)
	}

	_, err := execute(t, "cooccurrence", "--metric", "manhattan", dir, listPath)
	if err == nil || !strings.Contains(err.Error(), "unknown metric") {
		t.Fatalf("expected flag parsing to reject the metric, got %v", err)
	}
}

func TestNetworkCommand(t *testing.T) {
	dir := setupTests(t)

	nodesPath := filepath.Join(dir, "nodes.txt")
	if err := os.WriteFile(nodesPath, []byte("200 30 30 10\n30 30 200 10\n"), 0o600); err != nil {
		t.Fatalf("Failed to write nodes: %v", err)
	}
	matrixPath := filepath.Join(dir, "matrix.txt")
	if err := os.WriteFile(matrixPath, []byte("0 5\n5 0\n"), 0o600); err != nil {
		t.Fatalf("Failed to write matrix: %v", err)
	}

	t.Run("RendersImage", func(t *testing.T) {
		outPath := filepath.Join(dir, "net.png")
		out, err := execute(t, "network",
			"--output", outPath,
			"--size", "200",
			nodesPath, matrixPath)
		if err != nil {
			t.Fatalf("network failed: %v\n%s", err, out)
		}

		f, err := os.Open(outPath)
		if err != nil {
			t.Fatalf("Failed to open network image: %v", err)
		}
		defer f.Close()
		img, err := png.Decode(f)
		if err != nil {
			t.Fatalf("network output is not a PNG: %v", err)
		}
		if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
			t.Errorf("canvas = %v, want 200x200", img.Bounds())
		}
	})

	t.Run("MismatchedMatrix", func(t *testing.T) {
		bigMatrix := filepath.Join(dir, "big.txt")
		if err := os.WriteFile(bigMatrix, []byte("0 1 2\n1 0 3\n2 3 0\n"), 0o600); err != nil {
			t.Fatalf("Failed to write matrix: %v", err)
		}
		_, err := execute(t, "network",
			"--output", filepath.Join(dir, "net2.png"),
			nodesPath, bigMatrix)
		if err == nil || !strings.Contains(err.Error(), "does not match") {
			t.Fatalf("expected a dimension mismatch error, got %v", err)
		}
	})
}

func TestGeneticScripted(t *testing.T) {
	dir := setupTests(t)
	schemePath := filepath.Join(dir, "scheme.txt")
	recolorPath := filepath.Join(dir, "recolored.png")

	out, err := execute(t, "genetic",
		"--colours", "2",
		"--population", "3",
		"--seed-mode", "manual", "--seed", "3",
		"--scores", "5,7,9",
		"--scores", "2,8,4",
		"--output", schemePath,
		"--recolor", recolorPath,
		filepath.Join(dir, "a.png"))
	if err != nil {
		t.Fatalf("genetic failed: %v\n%s", err, out)
	}

	if !strings.Contains(out, "Best scheme (score 9.0)") {
		t.Errorf("output missing best score:\n%s", out)
	}

	scheme := parseListFile(t, schemePath)
	if len(scheme) != 2 {
		t.Fatalf("scheme has %d colours, want 2", len(scheme))
	}
	for _, w := range scheme {
		if w.Weight != 0.5 {
			t.Errorf("scheme weight = %v, want 0.5", w.Weight)
		}
	}

	f, err := os.Open(recolorPath)
	if err != nil {
		t.Fatalf("Failed to open recoloured image: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("recoloured output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 10 {
		t.Errorf("recoloured image = %v, want 40x10", img.Bounds())
	}

	// Every pixel must be painted with a scheme colour.
	allowed := make(map[colour.RGB]bool, len(scheme))
	for _, w := range scheme {
		allowed[w.RGB] = true
	}
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			got := colour.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			if !allowed[got] {
				t.Fatalf("pixel (%d,%d) = %v is not a scheme colour", x, y, got)
			}
		}
	}
}

func TestGeneticBadScoreCount(t *testing.T) {
	dir := setupTests(t)

	_, err := execute(t, "genetic",
		"--colours", "2",
		"--population", "3",
		"--scores", "5,7",
		filepath.Join(dir, "a.png"))
	if err == nil || !strings.Contains(err.Error(), "want 3") {
		t.Fatalf("expected a score count error, got %v", err)
	}
}

func TestPluginsCommands(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		out, err := execute(t, "plugins", "list")
		if err != nil {
			t.Fatalf("plugins list failed: %v", err)
		}
		for _, want := range []string{"NAME", "card", "network", "builtin"} {
			if !strings.Contains(out, want) {
				t.Errorf("plugins list missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("Info", func(t *testing.T) {
		out, err := execute(t, "plugins", "info", "network")
		if err != nil {
			t.Fatalf("plugins info failed: %v", err)
		}
		for _, want := range []string{"Name:", "network", "size", "1000"} {
			if !strings.Contains(out, want) {
				t.Errorf("plugins info missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("InfoUnknown", func(t *testing.T) {
		_, err := execute(t, "plugins", "info", "no-such-renderer")
		if err == nil {
			t.Fatal("expected an error for an unknown plugin")
		}
	})
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(out, "chromapath version") {
		t.Errorf("version output = %q", out)
	}
}
