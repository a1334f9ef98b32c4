// Package genetic evolves colour schemes for one image through interactive
// scoring rounds. The caller paces the loop: every scheme in a generation
// is rated by a human, then the population evolves through elitism,
// fitness-proportionate selection, crossover and mutation.
package genetic

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/code-soul/chromapath/internal/colour"
	"github.com/code-soul/chromapath/internal/security"
)

// State names the optimizer's position in the scoring/evolution loop.
type State int

const (
	// StateInitialized means the population is seeded and nothing has been
	// scored yet.
	StateInitialized State = iota
	// StateAwaitingScores means at least one scheme still needs a score.
	StateAwaitingScores
	// StateReadyToEvolve means every scheme is scored.
	StateReadyToEvolve
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateAwaitingScores:
		return "awaiting-scores"
	case StateReadyToEvolve:
		return "ready-to-evolve"
	default:
		return "unknown"
	}
}

// Scheme is one candidate palette: an ordered list of colours, one per
// image cluster.
type Scheme []colour.RGB

// Clone returns an independent copy of the scheme.
func (s Scheme) Clone() Scheme {
	return slices.Clone(s)
}

// Individual pairs a scheme with its score for the current generation.
type Individual struct {
	Scheme Scheme
	Score  float64
	Scored bool
}

// Config holds configuration for the optimizer. A zero Colors or
// PopulationSize falls back to the default; the float fields are taken as
// given, so a zero MutationRate really disables mutation and a zero
// EliteThreshold keeps every scored scheme. Start from DefaultConfig to
// get the standard rates.
type Config struct {
	// Colors is the scheme length and the cluster count used to segment
	// the target image.
	Colors int
	// PopulationSize is the number of schemes per generation.
	PopulationSize int
	// MutationRate is the fraction of offspring mutated each generation.
	MutationRate float64
	// MaxMutationChange bounds the relative change applied to a mutated
	// channel.
	MaxMutationChange float64
	// EliteThreshold is the score at or above which a scheme survives a
	// generation unchanged.
	EliteThreshold float64
	// Seed drives all randomness; equal seeds replay identical runs.
	Seed uint64
	// Metric measures pixel-to-centroid distance when segmenting the
	// image. Nil means Euclidean.
	Metric colour.Metric
	// SeedColors build the initial population. Empty means
	// DefaultSeedColors.
	SeedColors []colour.RGB
}

// DefaultConfig returns the default optimizer configuration.
func DefaultConfig() Config {
	return Config{
		Colors:            5,
		PopulationSize:    16,
		MutationRate:      0.3,
		MaxMutationChange: 0.3,
		EliteThreshold:    7.5,
	}
}

// Validate validates the optimizer configuration.
func (c Config) Validate() error {
	if c.Colors < 1 {
		return fmt.Errorf("colour count must be at least 1, got %d: %w", c.Colors, colour.ErrInvalidInput)
	}
	if c.PopulationSize < 1 {
		return fmt.Errorf("population size must be at least 1, got %d: %w", c.PopulationSize, colour.ErrInvalidInput)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation rate %v outside [0, 1]: %w", c.MutationRate, colour.ErrInvalidInput)
	}
	if c.MaxMutationChange < 0 || c.MaxMutationChange > 1 {
		return fmt.Errorf("max mutation change %v outside [0, 1]: %w", c.MaxMutationChange, colour.ErrInvalidInput)
	}
	if c.EliteThreshold < 0 || c.EliteThreshold > 10 {
		return fmt.Errorf("elite threshold %v outside [0, 10]: %w", c.EliteThreshold, colour.ErrInvalidInput)
	}
	return nil
}

// withDefaults fills only the fields whose zero value is invalid. Zero is
// a legal setting for the float fields, so they pass through untouched.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Colors == 0 {
		c.Colors = def.Colors
	}
	if c.PopulationSize == 0 {
		c.PopulationSize = def.PopulationSize
	}
	return c
}

// GenerationFitness records the score statistics of one completed
// generation.
type GenerationFitness struct {
	Generation int     `json:"generation"`
	Average    float64 `json:"average"`
	Best       float64 `json:"best"`
}

// Optimizer owns one population and the target image's cluster labels.
// Methods are not safe for concurrent use; the interactive loop is paced
// by a single caller.
type Optimizer struct {
	cfg    Config
	metric colour.Metric
	rng    *rand.Rand

	labels     []int
	population []Individual
	generation int
	state      State
	history    []GenerationFitness

	best      Individual
	bestValid bool
}

// New segments pixels into cfg.Colors clusters and seeds the initial
// population. The image needs at least cfg.Colors distinct colours.
func New(pixels []colour.RGB, cfg Config) (*Optimizer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(pixels) == 0 {
		return nil, fmt.Errorf("no pixels to optimize: %w", colour.ErrInvalidInput)
	}

	metric := cfg.Metric
	if metric == nil {
		metric = colour.Euclidean{}
	}

	clusterer := colour.NewClusterer(colour.ClustererConfig{Seed: cfg.Seed})
	res, err := clusterer.Cluster(pixels, cfg.Colors)
	if err != nil {
		return nil, fmt.Errorf("failed to segment image: %w", err)
	}

	o := &Optimizer{
		cfg:    cfg,
		metric: metric,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)),
		labels: assignLabels(pixels, res.Colors.Colors(), metric),
		state:  StateInitialized,
	}
	o.population = o.initialPopulation()
	return o, nil
}

// assignLabels maps every pixel to its nearest centroid.
func assignLabels(pixels, centroids []colour.RGB, metric colour.Metric) []int {
	labels := make([]int, len(pixels))
	for i, p := range pixels {
		best := 0
		bestDist := metric.Distance(p, centroids[0])
		for j := 1; j < len(centroids); j++ {
			if d := metric.Distance(p, centroids[j]); d < bestDist {
				bestDist = d
				best = j
			}
		}
		labels[i] = best
	}
	return labels
}

// initialPopulation builds random orderings of the seed colours, topped up
// with random colours when fewer seeds than Colors are available.
func (o *Optimizer) initialPopulation() []Individual {
	seeds := o.cfg.SeedColors
	if len(seeds) == 0 {
		seeds = DefaultSeedColors()
	}

	base := make(Scheme, 0, o.cfg.Colors)
	base = append(base, seeds[:min(o.cfg.Colors, len(seeds))]...)
	for len(base) < o.cfg.Colors {
		base = append(base, o.randomColour())
	}

	population := make([]Individual, o.cfg.PopulationSize)
	for i := range population {
		scheme := base.Clone()
		o.rng.Shuffle(len(scheme), func(a, b int) {
			scheme[a], scheme[b] = scheme[b], scheme[a]
		})
		population[i] = Individual{Scheme: scheme}
	}
	return population
}

func (o *Optimizer) randomColour() colour.RGB {
	return colour.RGB{
		R: security.SafeUint8(o.rng.IntN(256)),
		G: security.SafeUint8(o.rng.IntN(256)),
		B: security.SafeUint8(o.rng.IntN(256)),
	}
}

// State returns the optimizer's position in the scoring loop.
func (o *Optimizer) State() State {
	return o.state
}

// Generation returns the number of completed evolution steps.
func (o *Optimizer) Generation() int {
	return o.generation
}

// Population returns a copy of the current generation. Mutating the copy
// does not affect the optimizer.
func (o *Optimizer) Population() []Individual {
	out := make([]Individual, len(o.population))
	for i, ind := range o.population {
		out[i] = Individual{Scheme: ind.Scheme.Clone(), Score: ind.Score, Scored: ind.Scored}
	}
	return out
}

// Unscored returns the indices of schemes still missing a score.
func (o *Optimizer) Unscored() []int {
	var indices []int
	for i, ind := range o.population {
		if !ind.Scored {
			indices = append(indices, i)
		}
	}
	return indices
}

// Score records the caller's rating for one scheme. Values live in [0, 10];
// a bad index or value changes nothing. Once every scheme is scored the
// optimizer becomes ready to evolve.
func (o *Optimizer) Score(index int, value float64) error {
	if index < 0 || index >= len(o.population) {
		return fmt.Errorf("scheme index %d outside [0, %d): %w", index, len(o.population), colour.ErrInvalidInput)
	}
	if math.IsNaN(value) || value < 0 || value > 10 {
		return fmt.Errorf("score %v outside [0, 10]: %w", value, colour.ErrInvalidInput)
	}

	o.population[index].Score = value
	o.population[index].Scored = true

	// Track the running best across all generations, not just the
	// current population.
	if !o.bestValid || value > o.best.Score {
		o.best = Individual{Scheme: o.population[index].Scheme.Clone(), Score: value, Scored: true}
		o.bestValid = true
	}

	if len(o.Unscored()) == 0 {
		o.state = StateReadyToEvolve
	} else {
		o.state = StateAwaitingScores
	}
	return nil
}

// Best returns the highest-scoring scheme seen across every generation so
// far. It fails until at least one scheme has been scored.
func (o *Optimizer) Best() (Scheme, float64, error) {
	if !o.bestValid {
		return nil, 0, fmt.Errorf("no scheme has been scored yet: %w", ErrInvalidState)
	}
	return o.best.Scheme.Clone(), o.best.Score, nil
}

// Evolve replaces the population with the next generation. Schemes scoring
// at or above EliteThreshold survive unchanged; the remaining slots are
// refilled through roulette parent selection, two-point crossover and
// bounded mutation. Scores reset, the generation counter advances and the
// optimizer returns to awaiting scores.
func (o *Optimizer) Evolve() error {
	if o.state != StateReadyToEvolve {
		return fmt.Errorf("cannot evolve with %d unscored schemes: %w", len(o.Unscored()), ErrInvalidState)
	}

	o.history = append(o.history, o.generationFitness())

	var elite []Individual
	for _, ind := range o.population {
		if ind.Score >= o.cfg.EliteThreshold {
			elite = append(elite, Individual{Scheme: ind.Scheme.Clone()})
		}
	}

	numOffspring := o.cfg.PopulationSize - len(elite)
	offspring := make([]Individual, 0, numOffspring)
	for len(offspring) < numOffspring {
		parent1, parent2 := o.selectParents()
		offspring = append(offspring, Individual{Scheme: o.crossover(parent1, parent2)})
	}
	o.mutate(offspring)

	o.population = append(offspring, elite...)
	o.generation++
	o.state = StateAwaitingScores
	return nil
}

// generationFitness summarizes the scores of the outgoing population.
func (o *Optimizer) generationFitness() GenerationFitness {
	total := 0.0
	best := o.population[0].Score
	for _, ind := range o.population {
		total += ind.Score
		if ind.Score > best {
			best = ind.Score
		}
	}
	return GenerationFitness{
		Generation: o.generation,
		Average:    total / float64(len(o.population)),
		Best:       best,
	}
}

// FitnessHistory returns the per-generation average and best scores
// recorded at each evolution step.
func (o *Optimizer) FitnessHistory() []GenerationFitness {
	return slices.Clone(o.history)
}

// selectParents draws two parents with probability proportional to score.
// A zero score total degrades to uniform random so an all-zero generation
// still produces offspring.
func (o *Optimizer) selectParents() (Scheme, Scheme) {
	total := 0.0
	for _, ind := range o.population {
		total += ind.Score
	}
	if total == 0 {
		return o.population[o.rng.IntN(len(o.population))].Scheme,
			o.population[o.rng.IntN(len(o.population))].Scheme
	}
	return o.spin(total), o.spin(total)
}

// spin picks one scheme from the cumulative score wheel.
func (o *Optimizer) spin(total float64) Scheme {
	target := o.rng.Float64() * total
	acc := 0.0
	for _, ind := range o.population {
		acc += ind.Score
		if target < acc {
			return ind.Scheme
		}
	}
	// Rounding can leave target at the very end of the wheel.
	return o.population[len(o.population)-1].Scheme
}

// crossover splices a child from two parents between two cut points.
// Schemes shorter than 3 have no pair of interior cut points and copy the
// first parent.
func (o *Optimizer) crossover(parent1, parent2 Scheme) Scheme {
	k := len(parent1)
	if k < 3 {
		return parent1.Clone()
	}

	cuts := o.rng.Perm(k - 1)[:2]
	a, b := cuts[0]+1, cuts[1]+1
	if a > b {
		a, b = b, a
	}

	child := make(Scheme, 0, k)
	child = append(child, parent1[:a]...)
	child = append(child, parent2[a:b]...)
	child = append(child, parent1[b:]...)
	return child
}

// mutate rescales every channel of a MutationRate share of the offspring.
// Elites never pass through here.
func (o *Optimizer) mutate(offspring []Individual) {
	count := min(int(o.cfg.MutationRate*float64(len(offspring))), len(offspring))
	for _, idx := range o.rng.Perm(len(offspring))[:count] {
		scheme := offspring[idx].Scheme
		for i, c := range scheme {
			scheme[i] = o.mutateColour(c)
		}
	}
}

// mutateColour scales each channel by 1 plus a bounded random factor,
// clamped back into channel range.
func (o *Optimizer) mutateColour(c colour.RGB) colour.RGB {
	return colour.RGB{
		R: o.mutateChannel(c.R),
		G: o.mutateChannel(c.G),
		B: o.mutateChannel(c.B),
	}
}

func (o *Optimizer) mutateChannel(c uint8) uint8 {
	factor := 1 + (o.rng.Float64()*2-1)*o.cfg.MaxMutationChange
	return security.SafeUint8(int(float64(c) * factor))
}

// ApplyScheme recolors the target image with the scheme at index: every
// pixel takes the scheme colour of its cluster. The result is row-major
// like the input pixels.
func (o *Optimizer) ApplyScheme(index int) ([]colour.RGB, error) {
	if index < 0 || index >= len(o.population) {
		return nil, fmt.Errorf("scheme index %d outside [0, %d): %w", index, len(o.population), colour.ErrInvalidInput)
	}
	return o.Recolor(o.population[index].Scheme)
}

// Recolor paints the target image with an arbitrary scheme of the
// configured length, such as the running best.
func (o *Optimizer) Recolor(scheme Scheme) ([]colour.RGB, error) {
	if len(scheme) != o.cfg.Colors {
		return nil, fmt.Errorf("scheme has %d colours, want %d: %w", len(scheme), o.cfg.Colors, colour.ErrInvalidInput)
	}
	out := make([]colour.RGB, len(o.labels))
	for i, label := range o.labels {
		out[i] = scheme[label]
	}
	return out, nil
}
