package genint

import "math/rand"

// Population is an ordered collection of chromosomes. Sorting applies the
// fitness total order, so absent-fitness members sort first.
type Population []*Chromosome

func (p Population) Len() int           { return len(p) }
func (p Population) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p Population) Less(i, j int) bool { return p[i].CompareTo(p[j]) < 0 }

// Best returns the highest-fitness member without reordering, or nil for
// an empty population.
func (p Population) Best() *Chromosome {
	var best *Chromosome
	for _, c := range p {
		if best == nil || c.CompareTo(best) > 0 {
			best = c
		}
	}
	return best
}

// rouletteSelect draws count members weighted by fitness, without
// replacement. Negative scores carry zero weight. If no selection can be
// made (which happens when every remaining weight is zero), the draw
// reverts to a uniform random choice.
func rouletteSelect(pool Population, count int, rng *rand.Rand) Population {
	selected := make(Population, 0, count)
	remaining := append(Population(nil), pool...)

	for len(selected) < count && len(remaining) > 0 {
		var total float64
		for _, c := range remaining {
			total += rouletteWeight(c)
		}

		idx := -1
		if total > 0 {
			pick := rng.Float64() * total
			current := 0.0
			for k, c := range remaining {
				current += rouletteWeight(c)
				if current > pick {
					idx = k
					break
				}
			}
		}
		if idx < 0 {
			idx = rng.Intn(len(remaining))
		}

		selected = append(selected, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return selected
}

func rouletteWeight(c *Chromosome) float64 {
	f, ok := c.Fitness()
	if !ok || f < 0 {
		return 0
	}
	return f
}

// tournamentSelect draws count members, each the best of size uniformly
// drawn entrants, with replacement across draws.
func tournamentSelect(pool Population, count, size int, rng *rand.Rand) Population {
	selected := make(Population, 0, count)
	for len(selected) < count {
		best := pool[rng.Intn(len(pool))]
		for i := 1; i < size; i++ {
			challenger := pool[rng.Intn(len(pool))]
			if challenger.CompareTo(best) > 0 {
				best = challenger
			}
		}
		selected = append(selected, best)
	}
	return selected
}
