package genint

import (
	"math/rand"
	"sort"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func evaluated(v int32, fitness float64) *Chromosome {
	c := New(v, v, nil)
	c.SetFitness(fitness)
	return c
}

var _ = Describe("Population", func() {
	It("sorts by comparison, unevaluated first", func() {
		fresh := New(1, 1, nil)
		strong := evaluated(2, 0.9)
		weak := evaluated(3, 0.1)

		pop := Population{fresh, strong, weak}
		sort.Sort(pop)

		Expect(pop).To(Equal(Population{fresh, weak, strong}))
	})

	It("finds the best member", func() {
		pop := Population{evaluated(1, 0.2), evaluated(2, 0.8), evaluated(3, 0.5)}
		Expect(pop.Best()).To(BeIdenticalTo(pop[1]))
	})

	It("prefers any evaluated member over unevaluated ones", func() {
		pop := Population{New(1, 1, nil), evaluated(2, 0.01)}
		Expect(pop.Best()).To(BeIdenticalTo(pop[1]))
	})

	It("has no best member when empty", func() {
		Expect(Population(nil).Best()).To(BeNil())
	})
})

var _ = Describe("CrossoverFulcrum", func() {
	DescribeTable("gene exchange",
		func(a, b int32, fulcrum int, expectedA, expectedB int32) {
			ca := New(a, a, nil)
			cb := New(b, b, nil)

			newA, newB, err := CrossoverFulcrum(ca, cb, fulcrum)
			Expect(err).ToNot(HaveOccurred())
			Expect([]int32{newA.ToInteger(), newB.ToInteger()}).To(
				Equal([]int32{expectedA, expectedB}))

			// The parents keep their genes.
			Expect(ca.ToInteger()).To(Equal(a))
			Expect(cb.ToInteger()).To(Equal(b))
		},
		Entry("cross(15, 0, 2)", int32(15), int32(0), 2, int32(3), int32(12)),
		Entry("cross(-1, 0, 16)", int32(-1), int32(0), 16, int32(65535), int32(-65536)),
		Entry("cross(-1, 0, 31)", int32(-1), int32(0), 31, int32(2147483647), int32(-2147483648)),
	)

	It("rejects fulcrums outside the genome interior", func() {
		a := New(1, 1, nil)
		b := New(2, 2, nil)
		for _, fulcrum := range []int{0, -1, GeneCount, GeneCount + 5} {
			_, _, err := CrossoverFulcrum(a, b, fulcrum)
			Expect(err).To(HaveOccurred(), "fulcrum %d", fulcrum)
		}
	})

	It("starts both children unevaluated", func() {
		a := evaluated(15, 0.4)
		b := evaluated(0, 0.6)

		newA, newB, err := CrossoverFulcrum(a, b, 16)
		Expect(err).ToNot(HaveOccurred())

		_, ok := newA.Fitness()
		Expect(ok).To(BeFalse())
		_, ok = newB.Fitness()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("rouletteSelect", func() {
	It("returns the requested number without repeats", func() {
		rng := rand.New(rand.NewSource(1))
		pop := make(Population, 10)
		for i := range pop {
			pop[i] = evaluated(int32(i), float64(i))
		}

		picked := rouletteSelect(pop, 4, rng)
		Expect(picked).To(HaveLen(4))

		seen := map[*Chromosome]bool{}
		for _, c := range picked {
			Expect(seen[c]).To(BeFalse())
			seen[c] = true
		}
	})

	It("favors higher fitness", func() {
		rng := rand.New(rand.NewSource(1))
		weak := evaluated(1, 0.01)
		strong := evaluated(2, 100)

		wins := 0
		for i := 0; i < 100; i++ {
			if rouletteSelect(Population{weak, strong}, 1, rng)[0] == strong {
				wins++
			}
		}
		Expect(wins).To(BeNumerically(">", 90))
	})

	It("falls back to a uniform draw when no weight remains", func() {
		rng := rand.New(rand.NewSource(1))
		pop := Population{New(1, 1, nil), New(2, 2, nil)}

		picked := rouletteSelect(pop, 2, rng)
		Expect(picked).To(ConsistOf(pop[0], pop[1]))
	})
})

var _ = Describe("tournamentSelect", func() {
	It("returns the requested number, repeats allowed", func() {
		rng := rand.New(rand.NewSource(1))
		pop := Population{evaluated(1, 0.1), evaluated(2, 0.9)}

		picked := tournamentSelect(pop, 6, 2, rng)
		Expect(picked).To(HaveLen(6))
	})

	It("favors higher fitness", func() {
		rng := rand.New(rand.NewSource(1))
		weak := evaluated(1, 0.1)
		strong := evaluated(2, 0.9)

		wins := 0
		for i := 0; i < 100; i++ {
			if tournamentSelect(Population{weak, strong}, 1, 4, rng)[0] == strong {
				wins++
			}
		}
		Expect(wins).To(BeNumerically(">", 75))
	})
})
