package genint

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Selection strategies.
const (
	SelectionRoulette   = "roulette"
	SelectionTournament = "tournament"
)

type Params struct {
	// Inclusive lower bound of the initial sampling range.
	MinValue int32 `yaml:"min_value"`

	// Inclusive upper bound of the initial sampling range. Mutation may
	// still carry genomes outside [MinValue, MaxValue]; the bounds only
	// constrain construction.
	MaxValue int32 `yaml:"max_value"`

	// Number of chromosomes in each generation.
	// Must be a multiple of 2.
	PopulationSize int `yaml:"population_size"`

	// Rate at which a selected pair crosses over (swaps its genes above a
	// random fulcrum) instead of passing through unchanged.
	CrossoverRate float64 `yaml:"crossover_rate"`

	// Per-bit flip probability applied to every offspring.
	MutationRate float64 `yaml:"mutation_rate"`

	// Number of best chromosomes cloned into the next generation unchanged.
	EliteCount int `yaml:"elite_count"`

	// Pairing strategy, "roulette" or "tournament".
	Selection string `yaml:"selection"`

	// Entrants per tournament draw. Only used with tournament selection.
	TournamentSize int `yaml:"tournament_size"`

	// Hard generation budget for a run.
	MaxGenerations int `yaml:"max_generations"`

	// Stop a run after this many generations without best-fitness
	// improvement. Set to 0 to disable the check.
	StallGenerations int `yaml:"stall_generations"`

	// Mark the run solved once the best fitness reaches this value.
	// Set to 0 to disable the check.
	TargetFitness float64 `yaml:"target_fitness"`

	// Maximum possible score a non-exact solution can have. Since fitness
	// is essentially 1 / abs(result - target), a result only 1 away from
	// the target would otherwise earn a perfect score.
	ImperfectMaxScore float64 `yaml:"imperfect_max_score"`

	// Entries held by the decoded-value memoization cache.
	// Set to 0 to disable caching.
	FitnessCacheSize int `yaml:"fitness_cache_size"`

	// Number of goroutines scoring chromosomes each generation.
	EvalWorkers int `yaml:"eval_workers"`

	// Seed for the run's random stream. Set to 0 to seed from the clock.
	Seed int64 `yaml:"seed"`
}

func DefaultParams() *Params {
	return &Params{
		MinValue: -1 << 31,
		MaxValue: 1<<31 - 1,

		PopulationSize: 200,
		CrossoverRate:  0.9,
		MutationRate:   0.02,
		EliteCount:     2,

		Selection:      SelectionRoulette,
		TournamentSize: 4,

		MaxGenerations:   500,
		StallGenerations: 100,
		TargetFitness:    1.0,

		ImperfectMaxScore: 0.5,
		FitnessCacheSize:  4096,
		EvalWorkers:       8,
	}
}

// Validate reports the first configuration contract violation.
func (p *Params) Validate() error {
	switch {
	case p.MinValue > p.MaxValue:
		return fmt.Errorf("min_value %d exceeds max_value %d", p.MinValue, p.MaxValue)
	case p.PopulationSize < 2 || p.PopulationSize%2 != 0:
		return fmt.Errorf("population_size must be an even number of at least 2, got %d", p.PopulationSize)
	case p.CrossoverRate < 0 || p.CrossoverRate > 1:
		return fmt.Errorf("crossover_rate must be within [0, 1], got %v", p.CrossoverRate)
	case p.MutationRate < 0 || p.MutationRate > 1:
		return fmt.Errorf("mutation_rate must be within [0, 1], got %v", p.MutationRate)
	case p.EliteCount < 0 || p.EliteCount >= p.PopulationSize:
		return fmt.Errorf("elite_count must be within [0, population_size), got %d", p.EliteCount)
	case p.Selection != SelectionRoulette && p.Selection != SelectionTournament:
		return fmt.Errorf("selection must be %q or %q, got %q", SelectionRoulette, SelectionTournament, p.Selection)
	case p.Selection == SelectionTournament && p.TournamentSize < 2:
		return fmt.Errorf("tournament_size must be at least 2, got %d", p.TournamentSize)
	case p.MaxGenerations < 1:
		return fmt.Errorf("max_generations must be at least 1, got %d", p.MaxGenerations)
	case p.StallGenerations < 0:
		return fmt.Errorf("stall_generations must not be negative, got %d", p.StallGenerations)
	case p.FitnessCacheSize < 0:
		return fmt.Errorf("fitness_cache_size must not be negative, got %d", p.FitnessCacheSize)
	case p.EvalWorkers < 1:
		return fmt.Errorf("eval_workers must be at least 1, got %d", p.EvalWorkers)
	}
	return nil
}

// GenerationStats is one generation's snapshot, taken after evaluation.
type GenerationStats struct {
	Generation int

	// Best and Mean fitness across the evaluated population.
	Best float64
	Mean float64

	// Distinct counts unique genomes; CommonPrefix is the number of
	// leading display-order bits every genome shares. Together they track
	// how far the population has converged.
	Distinct     int
	CommonPrefix int

	// BitFrequency[i] is the fraction of the population holding One in
	// slot i (least significant bit first, matching gene indexing).
	BitFrequency [GeneCount]float64
}

// Result summarizes a finished run.
type Result struct {
	RunID       string
	Best        *Chromosome
	BestValue   int32
	BestFitness float64
	Generations int
	Solved      bool
	Elapsed     time.Duration
}

// Simulation owns one evolutionary run over a fixed-size population.
type Simulation struct {
	RunID  string
	Params *Params

	fitness FitnessFunc
	rng     *rand.Rand
	src     IntSource

	population Population
	generation int
	history    []GenerationStats

	best    *Chromosome
	bestAge int

	started time.Time
}

// NewSimulation validates params, seeds the run's random stream, wraps fn
// with the memoization cache when one is configured, and samples the
// initial population.
func NewSimulation(params *Params, fn FitnessFunc) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("a fitness function is required")
	}
	if params.FitnessCacheSize > 0 {
		cached, err := CachedFitness(fn, params.FitnessCacheSize)
		if err != nil {
			return nil, err
		}
		fn = cached
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	src := RandSource{Rand: rng}

	sim := &Simulation{
		RunID:      uuid.NewString(),
		Params:     params,
		fitness:    fn,
		rng:        rng,
		src:        src,
		population: make(Population, 0, params.PopulationSize),
		started:    time.Now(),
	}
	for i := 0; i < params.PopulationSize; i++ {
		sim.population = append(sim.population, New(params.MinValue, params.MaxValue, src))
	}
	return sim, nil
}

// Population returns the current generation's members.
func (sim *Simulation) Population() Population {
	return sim.population
}

// History returns the recorded per-generation statistics.
func (sim *Simulation) History() []GenerationStats {
	return sim.history
}

// Step evaluates the current generation, records its statistics, and
// unless the target fitness was reached, breeds the next one. It returns
// whether the run is solved.
func (sim *Simulation) Step() bool {
	sim.evaluate()
	sort.Sort(sort.Reverse(sim.population))

	stats := sim.snapshot()
	sim.history = append(sim.history, stats)

	if current := sim.population[0]; sim.best == nil || current.CompareTo(sim.best) > 0 {
		sim.best = current.Clone()
		sim.bestAge = 0
	} else {
		sim.bestAge++
	}

	if sim.Params.TargetFitness > 0 && stats.Best >= sim.Params.TargetFitness {
		return true
	}

	sim.population = sim.nextGeneration()
	sim.generation++
	return false
}

// Run steps generations until the target fitness is reached, the run
// stalls, the generation budget is exhausted, or ctx is canceled. onGen,
// when non-nil, observes every generation's statistics. Cancellation
// returns the partial result alongside the context error.
func (sim *Simulation) Run(ctx context.Context, onGen func(GenerationStats)) (*Result, error) {
	for gen := 0; gen < sim.Params.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return sim.result(false), err
		}

		solved := sim.Step()
		if onGen != nil {
			onGen(sim.history[len(sim.history)-1])
		}
		if solved {
			return sim.result(true), nil
		}
		if sim.Params.StallGenerations > 0 && sim.bestAge >= sim.Params.StallGenerations {
			break
		}
	}
	return sim.result(false), nil
}

func (sim *Simulation) result(solved bool) *Result {
	res := &Result{
		RunID:       sim.RunID,
		Generations: len(sim.history),
		Solved:      solved,
		Elapsed:     time.Since(sim.started),
	}
	if sim.best != nil {
		res.Best = sim.best
		res.BestValue = sim.best.ToInteger()
		res.BestFitness, _ = sim.best.Fitness()
	}
	return res
}

// evaluate scores every unevaluated member, fanning chunks out to
// EvalWorkers goroutines. An evaluation error scores zero so a single bad
// decode cannot wedge the run.
func (sim *Simulation) evaluate() {
	workers := sim.Params.EvalWorkers
	if workers > len(sim.population) {
		workers = len(sim.population)
	}
	chunkSize := (len(sim.population) + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < len(sim.population); start += chunkSize {
		end := start + chunkSize
		if end > len(sim.population) {
			end = len(sim.population)
		}

		wg.Add(1)
		go func(members Population) {
			defer wg.Done()
			for _, c := range members {
				if _, evaluated := c.Fitness(); evaluated {
					continue
				}
				f, err := sim.fitness(c.ToInteger())
				if err != nil {
					f = 0
				}
				c.SetFitness(f)
			}
		}(sim.population[start:end])
	}
	wg.Wait()
}

// snapshot computes the generation's statistics and diversity indexes.
func (sim *Simulation) snapshot() GenerationStats {
	stats := GenerationStats{Generation: sim.generation}

	trie := NewGeneTrie()
	var sum float64
	var ones [GeneCount]int
	for _, c := range sim.population {
		f, _ := c.Fitness()
		sum += f
		trie.Insert(c.String())
		for i, g := range c.Genes() {
			if g == One {
				ones[i]++
			}
		}
	}

	if best := sim.population.Best(); best != nil {
		stats.Best, _ = best.Fitness()
	}
	stats.Mean = sum / float64(len(sim.population))
	stats.Distinct = trie.Distinct()
	stats.CommonPrefix = trie.CommonPrefix()
	for i, n := range ones {
		stats.BitFrequency[i] = float64(n) / float64(len(sim.population))
	}
	return stats
}

// nextGeneration breeds the successor population: elite clones first, then
// crossover-and-mutate offspring from selected pairs. It expects the
// current population sorted best-first.
func (sim *Simulation) nextGeneration() Population {
	next := make(Population, 0, sim.Params.PopulationSize)
	for i := 0; i < sim.Params.EliteCount && i < len(sim.population); i++ {
		next = append(next, sim.population[i].Clone())
	}

	for len(next) < sim.Params.PopulationSize {
		pair := sim.selectPair()
		a, b := pair[0], pair[1]

		if sim.rng.Float64() < sim.Params.CrossoverRate {
			fulcrum := 1 + sim.rng.Intn(GeneCount-1)
			crossedA, crossedB, err := CrossoverFulcrum(a, b, fulcrum)
			if err != nil {
				// The fulcrum is drawn from the valid interior.
				panic(err)
			}
			a, b = crossedA, crossedB
		} else {
			a, b = a.Clone(), b.Clone()
		}

		a = a.MutateWithRand(sim.Params.MutationRate, sim.rng)
		b = b.MutateWithRand(sim.Params.MutationRate, sim.rng)

		next = append(next, a)
		if len(next) < sim.Params.PopulationSize {
			next = append(next, b)
		}
	}
	return next
}

func (sim *Simulation) selectPair() Population {
	if sim.Params.Selection == SelectionTournament {
		return tournamentSelect(sim.population, 2, sim.Params.TournamentSize, sim.rng)
	}
	return rouletteSelect(sim.population, 2, sim.rng)
}

// CrossoverFulcrum creates two new chromosomes from the provided two, with
// every gene from the fulcrum slot onward swapped. The exchange runs
// through the Genes/ReplaceGenes bulk-transfer interface, so both children
// start with fitness absent. The fulcrum must split the genome interior,
// so only values in [1, GeneCount) are accepted.
func CrossoverFulcrum(a, b *Chromosome, fulcrum int) (*Chromosome, *Chromosome, error) {
	if fulcrum < 1 || fulcrum >= GeneCount {
		return nil, nil, fmt.Errorf("fulcrum must be within [1, %d), got %d", GeneCount, fulcrum)
	}

	newA := a.Clone()
	newB := b.Clone()

	if err := newA.ReplaceGenes(fulcrum, b.Genes()[fulcrum:]); err != nil {
		return nil, nil, err
	}
	if err := newB.ReplaceGenes(fulcrum, a.Genes()[fulcrum:]); err != nil {
		return nil, nil, err
	}
	return newA, newB, nil
}
