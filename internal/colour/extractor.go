// Package colour provides colour extraction, weighting and palette analysis.
package colour

import (
	"fmt"
	"runtime"
	"sync"
)

// PixelSource yields decoded pixels for image paths. Implementations sit at
// the I/O boundary; the extraction pipeline itself never touches files.
type PixelSource interface {
	// Pixels returns the pixel array of the image at path.
	Pixels(path string) ([]RGB, error)

	// Images lists the image files under dir, sorted by filename.
	Images(dir string) ([]string, error)
}

// ExtractorConfig holds configuration for colour extraction.
type ExtractorConfig struct {
	// Colors is the number of colours to extract.
	Colors int
	// GrayThreshold is the minimum channel spread a pixel needs to survive
	// filtering. 0 disables the filter.
	GrayThreshold int
	// MaxSamples caps the pixels taken per image before filtering. 0 means
	// no cap. Subsampling is a fixed stride, so results stay deterministic.
	MaxSamples int
	// Clusterer configures the k-means pass.
	Clusterer ClustererConfig
}

// DefaultExtractorConfig returns the default extraction configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Colors:        18,
		GrayThreshold: 1,
		MaxSamples:    100000,
		Clusterer:     DefaultClustererConfig(),
	}
}

// Validate validates the extraction configuration.
func (c ExtractorConfig) Validate() error {
	if c.Colors < 1 {
		return fmt.Errorf("colour count must be at least 1, got %d: %w", c.Colors, ErrInvalidInput)
	}
	if c.Colors > 256 {
		return fmt.Errorf("colour count too large: %d (maximum: 256): %w", c.Colors, ErrInvalidInput)
	}
	if c.GrayThreshold < 0 {
		return fmt.Errorf("gray threshold must be >= 0, got %d: %w", c.GrayThreshold, ErrInvalidInput)
	}
	return nil
}

// Extractor combines the gray filter and the clusterer into the full
// extraction pipeline for single images and folders.
type Extractor struct {
	source PixelSource
	cfg    ExtractorConfig
}

// NewExtractor creates an Extractor reading images through source. A zero
// Colors falls back to the default count.
func NewExtractor(source PixelSource, cfg ExtractorConfig) (*Extractor, error) {
	if cfg.Colors == 0 {
		cfg.Colors = DefaultExtractorConfig().Colors
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{source: source, cfg: cfg}, nil
}

// ImageColors is the per-file result of ExtractPerImage.
type ImageColors struct {
	File      string
	Colors    List
	Converged bool
}

// ExtractPixels runs the core pipeline on a raw pixel array: subsampling to
// the configured cap, gray filtering, then one clustering pass. Fails with
// ErrInvalidInput if no chromatic pixels remain after filtering.
func (e *Extractor) ExtractPixels(pixels []RGB) (*Result, error) {
	filtered, err := FilterGray(subsample(pixels, e.cfg.MaxSamples), e.cfg.GrayThreshold)
	if err != nil {
		return nil, err
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no chromatic pixels above threshold %d: %w", e.cfg.GrayThreshold, ErrInvalidInput)
	}
	return NewClusterer(e.cfg.Clusterer).Cluster(filtered, e.cfg.Colors)
}

// ExtractImage extracts the weighted colours of a single image.
func (e *Extractor) ExtractImage(path string) (*Result, error) {
	pixels, err := e.source.Pixels(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return e.ExtractPixels(pixels)
}

// ExtractFolder extracts one colour list describing every image under dir.
// The filtered pixels of all readable images are concatenated in filename
// order and clustered in a single pass, so the weights are shares of the
// whole folder. Unreadable images are skipped; a folder with no readable
// image or no chromatic pixel at all fails with ErrInvalidInput.
func (e *Extractor) ExtractFolder(dir string) (*Result, error) {
	files, err := e.source.Images(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images found in %s: %w", dir, ErrInvalidInput)
	}

	perFile := e.loadFiltered(files)

	readable := 0
	total := 0
	for _, pixels := range perFile {
		if pixels != nil {
			readable++
			total += len(pixels)
		}
	}
	if readable == 0 {
		return nil, fmt.Errorf("no readable images in %s: %w", dir, ErrInvalidInput)
	}
	if total == 0 {
		return nil, fmt.Errorf("no chromatic pixels above threshold %d in %s: %w", e.cfg.GrayThreshold, dir, ErrInvalidInput)
	}

	// Concatenate in file order so the result does not depend on worker
	// completion order.
	combined := make([]RGB, 0, total)
	for _, pixels := range perFile {
		combined = append(combined, pixels...)
	}

	return NewClusterer(e.cfg.Clusterer).Cluster(combined, e.cfg.Colors)
}

// ExtractPerImage extracts colours for each image under dir independently.
// Unreadable or fully achromatic images are skipped.
func (e *Extractor) ExtractPerImage(dir string) ([]ImageColors, error) {
	files, err := e.source.Images(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images found in %s: %w", dir, ErrInvalidInput)
	}

	perFile := e.loadFiltered(files)

	results := make([]ImageColors, 0, len(files))
	for i, pixels := range perFile {
		if len(pixels) == 0 {
			continue
		}
		res, err := NewClusterer(e.cfg.Clusterer).Cluster(pixels, e.cfg.Colors)
		if err != nil {
			// Fewer distinct colours than requested; this image cannot
			// fill a list of its own.
			continue
		}
		results = append(results, ImageColors{
			File:      files[i],
			Colors:    res.Colors,
			Converged: res.Converged,
		})
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no image in %s produced a colour list: %w", dir, ErrInvalidInput)
	}
	return results, nil
}

// loadFiltered loads, subsamples and gray-filters every file across a
// bounded worker pool. The returned slice is indexed like files; entries
// for unreadable images are nil.
func (e *Extractor) loadFiltered(files []string) [][]RGB {
	perFile := make([][]RGB, len(files))

	workers := min(runtime.NumCPU(), len(files), 8)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pixels, err := e.source.Pixels(files[i])
				if err != nil {
					continue
				}
				filtered, err := FilterGray(subsample(pixels, e.cfg.MaxSamples), e.cfg.GrayThreshold)
				if err != nil {
					continue
				}
				perFile[i] = filtered
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return perFile
}

// subsample takes every n-th pixel so that at most limit pixels remain.
func subsample(pixels []RGB, limit int) []RGB {
	if limit <= 0 || len(pixels) <= limit {
		return pixels
	}
	step := (len(pixels) + limit - 1) / limit
	out := make([]RGB, 0, limit)
	for i := 0; i < len(pixels); i += step {
		out = append(out, pixels[i])
	}
	return out
}
