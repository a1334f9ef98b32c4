// Package cooccurrence computes how often colours from a fixed list appear
// together in the same image across a folder.
package cooccurrence

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/code-soul/chromapath/internal/colour"
)

// DefaultThreshold is the default matching distance for colour presence.
const DefaultThreshold = 1.0

// Analyzer scans image folders for joint colour presence. A colour counts
// as present in an image when any pixel lies within the distance threshold
// of it; a pair co-occurs in an image only when both colours are present.
type Analyzer struct {
	source colour.PixelSource
	metric colour.Metric
}

// New creates an Analyzer reading images through source and measuring
// distance with metric. A nil metric means Euclidean.
func New(source colour.PixelSource, metric colour.Metric) *Analyzer {
	if metric == nil {
		metric = colour.Euclidean{}
	}
	return &Analyzer{source: source, metric: metric}
}

// AnalyzeFolder builds the co-occurrence matrix of colors over every image
// under dir. Entry (i, j) is the fraction of images containing both colour
// i and colour j; the comparison against threshold is inclusive. Images
// that cannot be read count as containing no colours.
func (a *Analyzer) AnalyzeFolder(dir string, colors colour.List, threshold float64) (Matrix, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("colour list is empty: %w", colour.ErrInvalidInput)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("distance threshold must be >= 0, got %v: %w", threshold, colour.ErrInvalidInput)
	}

	files, err := a.source.Images(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images found in %s: %w", dir, colour.ErrInvalidInput)
	}

	presence := a.scanPresence(files, colors.Colors(), threshold)

	readable := 0
	n := len(colors)
	counts := make([][]int, n)
	for i := range counts {
		counts[i] = make([]int, n)
	}
	for _, present := range presence {
		if present == nil {
			continue
		}
		readable++
		for i := range n {
			if !present[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if present[j] {
					counts[i][j]++
					counts[j][i]++
				}
			}
		}
	}
	if readable == 0 {
		return nil, fmt.Errorf("no readable images in %s: %w", dir, colour.ErrInvalidInput)
	}

	matrix := NewMatrix(n)
	total := float64(len(files))
	for i := range matrix {
		for j := range matrix[i] {
			matrix[i][j] = float64(counts[i][j]) / total
		}
	}
	return matrix, nil
}

// scanPresence computes the per-file colour presence vectors across a
// bounded worker pool. Entry i belongs to files[i]; a nil entry marks an
// unreadable file.
func (a *Analyzer) scanPresence(files []string, colors []colour.RGB, threshold float64) [][]bool {
	presence := make([][]bool, len(files))

	workers := min(runtime.NumCPU(), len(files), 8)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pixels, err := a.source.Pixels(files[i])
				if err != nil {
					continue
				}
				presence[i] = a.presentColours(pixels, colors, threshold)
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return presence
}

// presentColours reports, per colour, whether any pixel lies within
// threshold of it. The scan stops early once every colour was found.
func (a *Analyzer) presentColours(pixels []colour.RGB, colors []colour.RGB, threshold float64) []bool {
	present := make([]bool, len(colors))
	remaining := len(colors)

	for _, p := range pixels {
		for i, c := range colors {
			if present[i] {
				continue
			}
			if a.metric.Distance(p, c) <= threshold {
				present[i] = true
				remaining--
			}
		}
		if remaining == 0 {
			break
		}
	}
	return present
}
