package genint

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// GeneCount is the fixed genome width. Every chromosome holds exactly this
// many single-bit genes; the width is never resized.
const GeneCount = 32

var (
	// ErrGeneOutOfRange reports a gene index or start index outside [0, GeneCount).
	ErrGeneOutOfRange = errors.New("gene index out of range")

	// ErrNilGenes reports a nil gene sequence passed to ReplaceGenes.
	ErrNilGenes = errors.New("gene sequence is required")

	// ErrFixedLength reports a Resize request for any length other than GeneCount.
	ErrFixedLength = errors.New("chromosome length is fixed")
)

// Chromosome encodes one bounded integer as GeneCount single-bit genes,
// index 0 holding the least significant bit. Fitness is assigned by an
// external evaluator and drops back to absent on any gene mutation.
//
// Instances are not safe for concurrent mutation; callers serialize writes
// to a shared chromosome themselves.
type Chromosome struct {
	minValue int32
	maxValue int32

	// originalValue is the integer sampled at construction. It seeds the
	// initial bit pattern and backs GenerateGene; mutations never touch it.
	originalValue int32

	genes []Bit

	fitness    float64
	hasFitness bool

	src IntSource
}

// New draws one value in [minValue, maxValue] from src and decomposes it
// into the initial gene array. A nil src selects DefaultSource. Bounds
// ordering is the caller's responsibility, matching the source contract.
func New(minValue, maxValue int32, src IntSource) *Chromosome {
	if src == nil {
		src = DefaultSource
	}
	c := &Chromosome{
		minValue: minValue,
		maxValue: maxValue,
		genes:    make([]Bit, GeneCount),
		src:      src,
	}
	c.originalValue = src.IntInRange(minValue, maxValue)
	for i := range c.genes {
		c.genes[i] = c.GenerateGene(i)
	}
	return c
}

// GenerateGene returns bit index of the value sampled at construction. It
// is the stable "freshly generated" oracle for a slot and does not reflect
// later mutations; index must be in [0, GeneCount).
func (c *Chromosome) GenerateGene(index int) Bit {
	return Bit((c.originalValue >> uint(index)) & 1)
}

// Gene returns the live symbol at index, with natural indexing rules.
func (c *Chromosome) Gene(index int) Bit {
	return c.genes[index]
}

// Genes returns the live gene array. Operators read it for bulk transfer;
// writes go through ReplaceGene, ReplaceGenes, or FlipGene so fitness
// invalidation holds.
func (c *Chromosome) Genes() []Bit {
	return c.genes
}

// Bounds returns the inclusive construction bounds.
func (c *Chromosome) Bounds() (minValue, maxValue int32) {
	return c.minValue, c.maxValue
}

// ReplaceGene overwrites one slot and invalidates fitness.
func (c *Chromosome) ReplaceGene(index int, b Bit) error {
	if index < 0 || index >= GeneCount {
		return fmt.Errorf("%w: index %d", ErrGeneOutOfRange, index)
	}
	c.genes[index] = b
	c.invalidateFitness()
	return nil
}

// ReplaceGenes copies bits into the gene array starting at start,
// truncating silently if the input overruns the end. A nil input is
// rejected before any mutation; an empty one is a no-op that leaves
// fitness intact.
func (c *Chromosome) ReplaceGenes(start int, bits []Bit) error {
	if bits == nil {
		return ErrNilGenes
	}
	if len(bits) == 0 {
		return nil
	}
	if start < 0 || start >= GeneCount {
		return fmt.Errorf("%w: start index %d", ErrGeneOutOfRange, start)
	}
	copy(c.genes[start:], bits)
	c.invalidateFitness()
	return nil
}

// FlipGene flips the slot at the reversed index |GeneCount-1 - index|:
// callers address bits most-significant-first while storage is least-
// significant-first. The write goes through ReplaceGene, so it shares the
// range error and the fitness invalidation.
func (c *Chromosome) FlipGene(index int) error {
	slot := GeneCount - 1 - index
	if slot < 0 {
		slot = -slot
	}
	if slot >= GeneCount {
		return fmt.Errorf("%w: index %d", ErrGeneOutOfRange, index)
	}
	return c.ReplaceGene(slot, c.genes[slot].Flip())
}

// Mutate returns a mutated clone, flipping each caller-view index with
// probability rate. The receiver is untouched.
func (c *Chromosome) Mutate(rate float64) *Chromosome {
	rng := randPool.Get().(*rand.Rand)
	defer randPool.Put(rng)
	return c.MutateWithRand(rate, rng)
}

func (c *Chromosome) MutateWithRand(rate float64, rng *rand.Rand) *Chromosome {
	mutated := c.Clone()
	for i := 0; i < GeneCount; i++ {
		if rng.Float64() < rate {
			// Indexes in [0, GeneCount) always map to a valid slot.
			_ = mutated.FlipGene(i)
		}
	}
	return mutated
}

// ToInteger reassembles the encoded integer, little-endian over the gene
// array; the sign falls out of two's-complement reinterpretation. The
// genome width is a hard invariant, unreachable to break through this API,
// so a mismatch panics rather than decoding garbage.
func (c *Chromosome) ToInteger() int32 {
	if len(c.genes) != GeneCount {
		panic(fmt.Sprintf("genint: genome is %d genes, want %d", len(c.genes), GeneCount))
	}
	var v uint32
	for i, g := range c.genes {
		if g == One {
			v |= 1 << uint(i)
		}
	}
	return int32(v)
}

// String renders the genome most-significant-bit-first.
func (c *Chromosome) String() string {
	var buf strings.Builder
	buf.Grow(GeneCount)
	for i := GeneCount - 1; i >= 0; i-- {
		buf.WriteString(c.genes[i].String())
	}
	return buf.String()
}

// CreateNew builds an unrelated chromosome over the same bounds and
// source, sampling a fresh value. It is a factory, not a copy.
func (c *Chromosome) CreateNew() *Chromosome {
	return New(c.minValue, c.maxValue, c.src)
}

// Clone reproduces the receiver exactly: a CreateNew instance whose genes
// are overwritten with the receiver's and whose fitness state is copied
// directly, bypassing the invalidation the gene copy performed.
func (c *Chromosome) Clone() *Chromosome {
	clone := c.CreateNew()
	// A full-length copy at offset 0 cannot be out of range.
	_ = clone.ReplaceGenes(0, c.genes)
	clone.fitness = c.fitness
	clone.hasFitness = c.hasFitness
	return clone
}

// Fitness returns the assigned score and whether one is present.
func (c *Chromosome) Fitness() (float64, bool) {
	return c.fitness, c.hasFitness
}

// SetFitness records the score an external evaluator computed.
func (c *Chromosome) SetFitness(f float64) {
	c.fitness = f
	c.hasFitness = true
}

// invalidateFitness is the single dirty-marking step shared by every
// mutating operation.
func (c *Chromosome) invalidateFitness() {
	c.fitness = 0
	c.hasFitness = false
}

// CompareTo orders chromosomes by fitness alone. A nil other is treated as
// not provided and compares as -1. An absent fitness is less than any
// present one; two absent fitnesses are equal.
func (c *Chromosome) CompareTo(other *Chromosome) int {
	if other == nil {
		return -1
	}
	switch {
	case !c.hasFitness && !other.hasFitness:
		return 0
	case !c.hasFitness:
		return -1
	case !other.hasFitness:
		return 1
	case c.fitness < other.fitness:
		return -1
	case c.fitness > other.fitness:
		return 1
	}
	return 0
}

// Equal reports the equality CompareTo induces: fitness-based, never
// genome-based. Identical bit patterns with different scores are unequal,
// and different patterns with equal scores are equal.
func (c *Chromosome) Equal(other *Chromosome) bool {
	return c.CompareTo(other) == 0
}

// Hash returns a fitness-derived value consistent with Equal.
func (c *Chromosome) Hash() uint64 {
	if !c.hasFitness {
		return 0
	}
	return math.Float64bits(c.fitness)
}

// Resize exists for callers that vary genome widths elsewhere; here the
// width is fixed, so only the current length is accepted, as a no-op.
func (c *Chromosome) Resize(newLength int) error {
	if newLength != GeneCount {
		return fmt.Errorf("%w: cannot resize to %d", ErrFixedLength, newLength)
	}
	return nil
}
