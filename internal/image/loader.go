// Package image provides utilities for loading and processing images.
package image

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/security"
	"github.com/code-soul/chromapath/internal/util/imagecache"
)

// Loader loads images from local paths and HTTPS URLs and exposes their
// pixels for analysis. Remote images are downloaded once and cached, so a
// URL behaves like a local file afterwards; plain-HTTP and private-host
// URLs are rejected. Loader implements colour.PixelSource.
type Loader struct {
	// CacheDir overrides the download cache directory for remote images.
	// Empty means the default user cache location.
	CacheDir string
}

// NewLoader creates a new Loader instance.
func NewLoader() *Loader {
	return &Loader{}
}

// Load loads and decodes an image from a local file path or HTTP(S) URL.
func (l *Loader) Load(path string) (image.Image, error) {
	local, err := l.localPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(local)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", local)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", local)
	}

	file, err := os.Open(local) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	return img, nil
}

// Pixels loads the image at path and returns its pixels in row-major order.
func (l *Loader) Pixels(path string) ([]colour.RGB, error) {
	img, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return colour.PixelsFromImage(img), nil
}

// Images lists the supported image files directly inside dir, sorted by
// filename. Subdirectories are not recursed into; symlinks to files are
// followed. An empty directory yields an empty list, not an error.
func (l *Loader) Images(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())

		// For symlinks, stat the target to determine if it's a file.
		info, err := os.Stat(fullPath)
		if err != nil {
			// Skip entries we can't stat (broken symlinks, permission issues).
			continue
		}
		if info.IsDir() {
			continue
		}

		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	// os.ReadDir returns entries sorted by filename, so imageFiles is
	// already in deterministic order.
	return imageFiles, nil
}

// localPath maps a URL to its cached local copy and returns local paths
// unchanged.
func (l *Loader) localPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("image path cannot be empty")
	}
	if !IsURL(path) {
		return path, nil
	}

	cached, err := imagecache.DownloadAndCache(context.Background(), path, imagecache.CacheOptions{
		CacheDir: l.CacheDir,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch remote image: %w", err)
	}
	return cached, nil
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// SupportedImageExtensions returns the supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp"}
}

// isImageFile checks if a file has a supported image extension.
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// ValidateImagePath checks that path names something loadable: a local
// image file, a directory (scanned later), or an HTTP(S) URL (fetched
// later). Local files are probed with a header decode.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	// URL structure is checked here; the download happens later.
	if IsURL(path) {
		return security.ValidateHTTPURL(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file or directory not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}

	// Directories are scanned later.
	if info.IsDir() {
		return nil
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}

	return nil
}
