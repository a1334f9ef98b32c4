package cooccurrence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/code-soul/chromapath/internal/colour"
)

// stubSource serves in-memory pixel arrays keyed by path. A nil entry reads
// as a broken image.
type stubSource struct {
	images map[string][]colour.RGB
	order  []string
}

func (s *stubSource) Pixels(path string) ([]colour.RGB, error) {
	pixels, ok := s.images[path]
	if !ok || pixels == nil {
		return nil, fmt.Errorf("cannot decode %s", path)
	}
	return pixels, nil
}

func (s *stubSource) Images(dir string) ([]string, error) {
	if dir == "missing" {
		return nil, fmt.Errorf("folder %s does not exist: %w", dir, colour.ErrInvalidInput)
	}
	return s.order, nil
}

func solidPixels(c colour.RGB, n int) []colour.RGB {
	pixels := make([]colour.RGB, n)
	for i := range pixels {
		pixels[i] = c
	}
	return pixels
}

func listOf(colors ...colour.RGB) colour.List {
	list := make(colour.List, len(colors))
	for i, c := range colors {
		list[i] = colour.Weighted{RGB: c, Weight: 1 / float64(len(colors))}
	}
	return list
}

var (
	red  = colour.RGB{R: 255}
	blue = colour.RGB{B: 255}
)

func TestAnalyzeFolderDisjointColours(t *testing.T) {
	// Two colours that never share an image must produce a zero
	// off-diagonal.
	source := &stubSource{
		images: map[string][]colour.RGB{
			"a.png": solidPixels(red, 50),
			"b.png": solidPixels(blue, 50),
		},
		order: []string{"a.png", "b.png"},
	}

	matrix, err := New(source, nil).AnalyzeFolder("dir", listOf(red, blue), DefaultThreshold)
	if err != nil {
		t.Fatalf("AnalyzeFolder() error = %v", err)
	}

	if matrix.Size() != 2 {
		t.Fatalf("matrix size = %d, want 2", matrix.Size())
	}
	if matrix[0][1] != 0 || matrix[1][0] != 0 {
		t.Errorf("disjoint colours co-occur: %v", matrix)
	}
}

func TestAnalyzeFolderJointPresence(t *testing.T) {
	// Red and blue share one image out of two, so the pair frequency is
	// 0.5. A colour alone in an image contributes nothing.
	mixed := append(solidPixels(red, 25), solidPixels(blue, 25)...)
	source := &stubSource{
		images: map[string][]colour.RGB{
			"mixed.png": mixed,
			"red.png":   solidPixels(red, 50),
		},
		order: []string{"mixed.png", "red.png"},
	}

	matrix, err := New(source, nil).AnalyzeFolder("dir", listOf(red, blue), DefaultThreshold)
	if err != nil {
		t.Fatalf("AnalyzeFolder() error = %v", err)
	}

	if matrix[0][1] != 0.5 {
		t.Errorf("matrix[0][1] = %f, want 0.5", matrix[0][1])
	}
	if matrix[0][1] != matrix[1][0] {
		t.Errorf("matrix not symmetric: %f vs %f", matrix[0][1], matrix[1][0])
	}
	if matrix[0][0] != 0 || matrix[1][1] != 0 {
		t.Errorf("diagonal should stay 0, got %f and %f", matrix[0][0], matrix[1][1])
	}
}

func TestAnalyzeFolderThresholdInclusive(t *testing.T) {
	// A pixel at distance exactly 1.0 from the listed colour still counts
	// as present.
	nearRed := colour.RGB{R: 254}
	source := &stubSource{
		images: map[string][]colour.RGB{
			"a.png": append(solidPixels(nearRed, 10), solidPixels(blue, 10)...),
		},
		order: []string{"a.png"},
	}

	matrix, err := New(source, nil).AnalyzeFolder("dir", listOf(red, blue), 1.0)
	if err != nil {
		t.Fatalf("AnalyzeFolder() error = %v", err)
	}
	if matrix[0][1] != 1.0 {
		t.Errorf("matrix[0][1] = %f, want 1.0", matrix[0][1])
	}

	// Below the distance the pair no longer co-occurs.
	matrix, err = New(source, nil).AnalyzeFolder("dir", listOf(red, blue), 0.5)
	if err != nil {
		t.Fatalf("AnalyzeFolder() error = %v", err)
	}
	if matrix[0][1] != 0 {
		t.Errorf("matrix[0][1] = %f, want 0", matrix[0][1])
	}
}

func TestAnalyzeFolderSkipsUnreadable(t *testing.T) {
	// The broken image counts toward the divisor but contributes no
	// presence.
	mixed := append(solidPixels(red, 10), solidPixels(blue, 10)...)
	source := &stubSource{
		images: map[string][]colour.RGB{
			"good.png":   mixed,
			"broken.png": nil,
		},
		order: []string{"good.png", "broken.png"},
	}

	matrix, err := New(source, nil).AnalyzeFolder("dir", listOf(red, blue), DefaultThreshold)
	if err != nil {
		t.Fatalf("AnalyzeFolder() error = %v", err)
	}
	if matrix[0][1] != 0.5 {
		t.Errorf("matrix[0][1] = %f, want 0.5", matrix[0][1])
	}
}

func TestAnalyzeFolderErrors(t *testing.T) {
	source := &stubSource{
		images: map[string][]colour.RGB{
			"broken.png": nil,
		},
		order: []string{"broken.png"},
	}

	tests := []struct {
		name      string
		dir       string
		colors    colour.List
		threshold float64
		source    *stubSource
	}{
		{
			name:      "empty colour list",
			dir:       "dir",
			colors:    nil,
			threshold: 1.0,
			source:    source,
		},
		{
			name:      "negative threshold",
			dir:       "dir",
			colors:    listOf(red, blue),
			threshold: -0.1,
			source:    source,
		},
		{
			name:      "no images",
			dir:       "dir",
			colors:    listOf(red, blue),
			threshold: 1.0,
			source:    &stubSource{},
		},
		{
			name:      "no readable images",
			dir:       "dir",
			colors:    listOf(red, blue),
			threshold: 1.0,
			source:    source,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.source, nil).AnalyzeFolder(tt.dir, tt.colors, tt.threshold)
			if err == nil {
				t.Fatal("AnalyzeFolder() should have failed")
			}
			if !errors.Is(err, colour.ErrInvalidInput) {
				t.Errorf("error should wrap ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAnalyzeFolderMissingDir(t *testing.T) {
	source := &stubSource{}
	if _, err := New(source, nil).AnalyzeFolder("missing", listOf(red), 1.0); err == nil {
		t.Error("AnalyzeFolder() should fail on unreadable folder")
	}
}

func TestAnalyzeFolderEntriesInRange(t *testing.T) {
	// Every entry is a fraction of images, so the whole matrix must
	// validate.
	mixed := append(solidPixels(red, 10), solidPixels(blue, 10)...)
	source := &stubSource{
		images: map[string][]colour.RGB{
			"a.png": mixed,
			"b.png": mixed,
			"c.png": solidPixels(red, 10),
		},
		order: []string{"a.png", "b.png", "c.png"},
	}

	matrix, err := New(source, nil).AnalyzeFolder("dir", listOf(red, blue), DefaultThreshold)
	if err != nil {
		t.Fatalf("AnalyzeFolder() error = %v", err)
	}
	if err := matrix.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestAnalyzeFolderCustomMetric(t *testing.T) {
	// The LAB metric still finds an exact colour at distance 0.
	source := &stubSource{
		images: map[string][]colour.RGB{
			"a.png": append(solidPixels(red, 10), solidPixels(blue, 10)...),
		},
		order: []string{"a.png"},
	}

	metric, err := colour.ParseMetric("lab")
	if err != nil {
		t.Fatalf("ParseMetric() error = %v", err)
	}

	matrix, err := New(source, metric).AnalyzeFolder("dir", listOf(red, blue), 0.01)
	if err != nil {
		t.Fatalf("AnalyzeFolder() error = %v", err)
	}
	if matrix[0][1] != 1.0 {
		t.Errorf("matrix[0][1] = %f, want 1.0", matrix[0][1])
	}
}
