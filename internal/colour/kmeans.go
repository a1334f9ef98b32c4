// Package colour provides colour extraction, weighting and palette analysis.
package colour

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/code-soul/chromapath/internal/security"
)

// ClustererConfig holds the tunables for k-means clustering.
type ClustererConfig struct {
	// MaxIterations bounds the relocation loop so clustering always
	// terminates.
	MaxIterations int
	// Convergence is the mean centroid movement below which the loop stops.
	Convergence float64
	// Seed drives every random choice the clusterer makes. The same seed
	// and input always produce the same result.
	Seed uint64
}

// DefaultClustererConfig returns the default clustering configuration.
func DefaultClustererConfig() ClustererConfig {
	return ClustererConfig{
		MaxIterations: 20,
		Convergence:   2.0,
	}
}

// Result carries the outcome of one clustering pass.
type Result struct {
	// Colors holds the cluster centroids with their pixel shares, sorted by
	// descending weight. Weights sum to 1.
	Colors List
	// Converged is false when the iteration cap was reached before either
	// convergence criterion was met. The centroids are still the best found.
	Converged bool
	// Iterations is the number of relocation rounds performed.
	Iterations int
}

// Clusterer partitions pixels into k representative colours using k-means
// with k-means++ initialization. Centroid updates use the mean, so the
// clustering distance is Euclidean by construction; pluggable metrics apply
// to colour matching, not to the relocation loop.
type Clusterer struct {
	maxIterations int
	convergence   float64
	rng           *rand.Rand
}

// NewClusterer creates a Clusterer from cfg, filling zero fields with the
// defaults.
func NewClusterer(cfg ClustererConfig) *Clusterer {
	def := DefaultClustererConfig()
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.Convergence <= 0 {
		cfg.Convergence = def.Convergence
	}
	return &Clusterer{
		maxIterations: cfg.MaxIterations,
		convergence:   cfg.Convergence,
		rng:           rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)),
	}
}

// Cluster partitions pixels into exactly k weighted colours. It fails when
// pixels is empty, k is out of range, or k exceeds the number of distinct
// colours in the input.
func (c *Clusterer) Cluster(pixels []RGB, k int) (*Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("colour count must be at least 1, got %d: %w", k, ErrInvalidInput)
	}
	if k > 256 {
		return nil, fmt.Errorf("colour count too large: %d (maximum: 256): %w", k, ErrInvalidInput)
	}
	if len(pixels) == 0 {
		return nil, fmt.Errorf("no pixels to cluster: %w", ErrInvalidInput)
	}

	distinct := distinctColours(pixels)
	if k > len(distinct) {
		return nil, fmt.Errorf("cannot form %d clusters from %d distinct colours: %w", k, len(distinct), ErrInvalidInput)
	}

	// One cluster per distinct colour needs no relocation at all: the
	// frequencies are the exact weights.
	if k == len(distinct) {
		return exactClusters(pixels, distinct), nil
	}

	points := make([]point3D, len(pixels))
	for i, p := range pixels {
		points[i] = point3D{R: float64(p.R), G: float64(p.G), B: float64(p.B)}
	}

	centroids, weights, iterations, converged := c.kmeans(points, k)

	list := make(List, k)
	for i, ctr := range centroids {
		list[i] = Weighted{
			RGB: RGB{
				R: security.SafeUint8(int(math.Round(ctr.R))),
				G: security.SafeUint8(int(math.Round(ctr.G))),
				B: security.SafeUint8(int(math.Round(ctr.B))),
			},
			Weight: weights[i],
		}
	}
	list.SortByWeight()

	return &Result{Colors: list, Converged: converged, Iterations: iterations}, nil
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// distinctColours returns the unique colours of pixels in first-seen order.
func distinctColours(pixels []RGB) []RGB {
	seen := make(map[RGB]bool, len(pixels))
	distinct := make([]RGB, 0, len(pixels))
	for _, p := range pixels {
		if !seen[p] {
			seen[p] = true
			distinct = append(distinct, p)
		}
	}
	return distinct
}

// exactClusters builds the result for k == distinct colour count: every
// colour is its own centroid and the weight is its pixel frequency.
func exactClusters(pixels []RGB, distinct []RGB) *Result {
	counts := make(map[RGB]int, len(distinct))
	for _, p := range pixels {
		counts[p]++
	}

	total := float64(len(pixels))
	list := make(List, len(distinct))
	for i, c := range distinct {
		list[i] = Weighted{RGB: c, Weight: float64(counts[c]) / total}
	}
	list.SortByWeight()

	return &Result{Colors: list, Converged: true, Iterations: 0}
}

// kmeans performs the relocation loop. Returns centroids, their normalized
// weights, the iteration count and whether a convergence criterion was met
// before the iteration cap.
func (c *Clusterer) kmeans(points []point3D, k int) ([]point3D, []float64, int, bool) {
	centroids := c.initCentroids(points, k)
	assignments := make([]int, len(points))

	iterations := 0
	converged := false
	for iter := 0; iter < c.maxIterations; iter++ {
		iterations = iter + 1

		// Assign each point to its nearest centroid.
		changed := 0
		for i, point := range points {
			nearest := nearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// If very few assignments changed (< 1%), we've converged.
		if float64(changed)/float64(len(points)) < 0.01 {
			converged = true
			break
		}

		newCentroids := c.recalculate(points, assignments, k)

		totalMovement := 0.0
		for i := range centroids {
			totalMovement += centroids[i].distance(newCentroids[i])
		}
		centroids = newCentroids

		// If centroids barely moved, we've converged.
		if totalMovement/float64(k) < c.convergence {
			converged = true
			break
		}
	}

	// Cluster weights are relative sizes, normalized to sum to 1.
	weights := make([]float64, k)
	for _, assignment := range assignments {
		weights[assignment]++
	}
	total := float64(len(assignments))
	for i := range weights {
		weights[i] /= total
	}

	return centroids, weights, iterations, converged
}

// initCentroids chooses initial centroids with the k-means++ scheme: the
// first at random, the rest with probability proportional to the squared
// distance from the nearest chosen centroid.
func (c *Clusterer) initCentroids(points []point3D, k int) []point3D {
	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[c.rng.IntN(len(points))])

	for len(centroids) < k {
		distances := make([]float64, len(points))
		totalDistance := 0.0
		for i, point := range points {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				if d := point.distance(centroid); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist * minDist
			totalDistance += distances[i]
		}

		if totalDistance == 0 {
			// Every remaining point coincides with a centroid. Nudge a copy
			// so the slot is filled; the relocation loop sorts it out.
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := c.rng.Float64() * totalDistance
		cumulative := 0.0
		for i, dist := range distances {
			cumulative += dist
			if cumulative >= target {
				centroids = append(centroids, points[i])
				break
			}
		}
	}

	return centroids
}

// nearestCentroid finds the index of the nearest centroid to a point.
func nearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, centroid := range centroids {
		if d := point.distance(centroid); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// recalculate moves each centroid to the mean of its assigned points. Empty
// clusters are reseeded from a random point.
func (c *Clusterer) recalculate(points []point3D, assignments []int, k int) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)
	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] > 0 {
			centroids[i] = point3D{
				R: sums[i].R / float64(counts[i]),
				G: sums[i].G / float64(counts[i]),
				B: sums[i].B / float64(counts[i]),
			}
		} else {
			centroids[i] = points[c.rng.IntN(len(points))]
		}
	}
	return centroids
}
