package genint

import (
	"math/rand"
	"sync"
)

// IntSource produces uniformly distributed integers in an inclusive range.
// Chromosome construction draws exactly one value from it; no stricter
// distributional contract is assumed.
type IntSource interface {
	IntInRange(minValue, maxValue int32) int32
}

var randPool = sync.Pool{
	New: func() interface{} {
		return rand.New(rand.NewSource(rand.Int63()))
	},
}

type pooledSource struct{}

func (pooledSource) IntInRange(minValue, maxValue int32) int32 {
	rng := randPool.Get().(*rand.Rand)
	defer randPool.Put(rng)
	return intInRange(rng, minValue, maxValue)
}

// DefaultSource is the process-wide source used when a chromosome is
// constructed with a nil IntSource. Safe for concurrent construction.
var DefaultSource IntSource = pooledSource{}

// RandSource adapts a caller-owned rand.Rand, for deterministic runs. It
// inherits the wrapped generator's concurrency contract: a bare rand.Rand
// must not be shared between goroutines.
type RandSource struct {
	Rand *rand.Rand
}

func (s RandSource) IntInRange(minValue, maxValue int32) int32 {
	return intInRange(s.Rand, minValue, maxValue)
}

// intInRange widens to int64 so a full-width int32 span cannot overflow.
func intInRange(rng *rand.Rand, minValue, maxValue int32) int32 {
	span := int64(maxValue) - int64(minValue) + 1
	return int32(int64(minValue) + rng.Int63n(span))
}
