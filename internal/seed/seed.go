// Package seed provides deterministic seed derivation for clustering and
// evolution. Reproducible seeds make extraction results stable across runs
// on the same input.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/code-soul/chromapath/internal/colour"
)

// Mode determines how the random seed is derived.
type Mode string

const (
	// ModeContent derives the seed from the pixel data (default,
	// deterministic by content).
	ModeContent Mode = "content"
	// ModeFilepath derives the seed from the absolute file path.
	ModeFilepath Mode = "filepath"
	// ModeManual uses a user-provided seed value.
	ModeManual Mode = "manual"
	// ModeRandom uses a non-deterministic seed that varies each run.
	ModeRandom Mode = "random"
)

// Config holds configuration for seed derivation.
type Config struct {
	Mode  Mode
	Value uint64 // only used when Mode is ModeManual
}

// Calculate determines the seed value based on the seed mode.
// pixels is required for ModeContent, path for ModeFilepath.
func Calculate(pixels []colour.RGB, path string, config Config) (uint64, error) {
	switch config.Mode {
	case ModeContent, "":
		if len(pixels) == 0 {
			return 0, fmt.Errorf("pixels are required for content-based seed mode")
		}
		return ContentSeed(pixels), nil
	case ModeFilepath:
		if path == "" {
			return 0, fmt.Errorf("path is required for filepath-based seed mode")
		}
		return FilepathSeed(path), nil
	case ModeManual:
		return config.Value, nil
	case ModeRandom:
		return RandomSeed(), nil
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", config.Mode)
	}
}

// ContentSeed derives a deterministic seed from pixel data. The same pixels
// always hash to the same seed, regardless of filename or location.
func ContentSeed(pixels []colour.RGB) uint64 {
	hasher := sha256.New()

	lenBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(lenBytes, uint64(len(pixels)))
	hasher.Write(lenBytes)

	// Sample in a fixed stride; hashing every pixel of a photo buys nothing.
	step := max(len(pixels)/10000, 1)
	pixelBytes := make([]byte, 3)
	for i := 0; i < len(pixels); i += step {
		pixelBytes[0] = pixels[i].R
		pixelBytes[1] = pixels[i].G
		pixelBytes[2] = pixels[i].B
		hasher.Write(pixelBytes)
	}

	hash := hasher.Sum(nil)
	return binary.LittleEndian.Uint64(hash[:8])
}

// FilepathSeed derives a deterministic seed from the absolute file path, so
// different images at the same location produce the same seed.
func FilepathSeed(path string) uint64 {
	absPath := path
	if !isURL(path) {
		if abs, err := filepath.Abs(path); err == nil {
			absPath = abs
		}
	}

	hash := sha256.Sum256([]byte(absPath))
	return binary.LittleEndian.Uint64(hash[:8])
}

// RandomSeed generates a non-deterministic seed.
func RandomSeed() uint64 {
	// #nosec G404 -- intentionally non-deterministic
	return uint64(time.Now().UnixNano()) ^ rand.Uint64()
}

// isURL checks if a path is an HTTP/HTTPS URL.
func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidModes returns the valid seed modes.
func ValidModes() []Mode {
	return []Mode{ModeContent, ModeFilepath, ModeManual, ModeRandom}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: content, filepath, manual, random)", s)
}
