package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/code-soul/chromapath/internal/colour"
)

// writeSolidPNG writes a width x height PNG filled with a single colour.
func writeSolidPNG(t *testing.T, path string, width, height int, c color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create image file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solid.png")
	writeSolidPNG(t, path, 4, 3, color.RGBA{R: 200, G: 10, B: 30, A: 255})

	loader := NewLoader()
	img, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 4 || bounds.Dy() != 3 {
		t.Errorf("loaded image is %dx%d, want 4x3", bounds.Dx(), bounds.Dy())
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	notImage := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(notImage, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(dir, "missing.png")},
		{"directory", dir},
		{"not an image", notImage},
	}

	loader := NewLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loader.Load(tt.path); err == nil {
				t.Error("Load() should have failed")
			}
		})
	}
}

func TestPixels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solid.png")
	writeSolidPNG(t, path, 5, 2, color.RGBA{R: 12, G: 200, B: 99, A: 255})

	loader := NewLoader()
	pixels, err := loader.Pixels(path)
	if err != nil {
		t.Fatalf("Pixels() error = %v", err)
	}

	if len(pixels) != 10 {
		t.Fatalf("got %d pixels, want 10", len(pixels))
	}
	want := colour.RGB{R: 12, G: 200, B: 99}
	for i, p := range pixels {
		if p != want {
			t.Fatalf("pixel %d = %v, want %v", i, p, want)
		}
	}
}

func TestImages(t *testing.T) {
	dir := t.TempDir()

	writeSolidPNG(t, filepath.Join(dir, "b.png"), 2, 2, color.RGBA{A: 255})
	writeSolidPNG(t, filepath.Join(dir, "a.png"), 2, 2, color.RGBA{A: 255})
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader()
	images, err := loader.Images(dir)
	if err != nil {
		t.Fatalf("Images() error = %v", err)
	}

	want := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}
	if len(images) != len(want) {
		t.Fatalf("Images() = %v, want %v", images, want)
	}
	for i := range want {
		if images[i] != want[i] {
			t.Errorf("Images()[%d] = %q, want %q", i, images[i], want[i])
		}
	}
}

func TestImagesEmptyDir(t *testing.T) {
	loader := NewLoader()
	images, err := loader.Images(t.TempDir())
	if err != nil {
		t.Fatalf("Images() error = %v", err)
	}
	if len(images) != 0 {
		t.Errorf("Images() = %v, want empty", images)
	}
}

func TestImagesMissingDir(t *testing.T) {
	loader := NewLoader()
	if _, err := loader.Images(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Images() should fail on missing directory")
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.png", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"photo.gif", true},
		{"photo.bmp", true},
		{"photo.tiff", true},
		{"photo.webp", true},
		{"photo.txt", false},
		{"photo", false},
	}

	for _, tt := range tests {
		if got := isImageFile(tt.path); got != tt.want {
			t.Errorf("isImageFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.png")
	writeSolidPNG(t, valid, 2, 2, color.RGBA{A: 255})

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid image", valid, false},
		{"directory", dir, false},
		{"https url", "https://example.com/image.png", false},
		{"empty", "", true},
		{"missing", filepath.Join(dir, "missing.png"), true},
		{"plain http url", "http://example.com/image.png", true},
		{"private host url", "https://192.168.0.12/image.png", true},
		{"localhost url", "https://localhost/image.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImagePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImagePath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
