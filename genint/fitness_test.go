package genint

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExprFitness", func() {
	DescribeTable("evaluation",
		func(expression string, x int32, expected float64) {
			fn, err := ExprFitness(expression)
			Expect(err).ToNot(HaveOccurred())

			result, err := fn(x)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(expected))
		},
		Entry("x", "x", int32(7), 7.0),
		Entry("x * x - 3", "x * x - 3", int32(5), 22.0),
		Entry("(x - 3) * (x + 5)", "(x - 3) * (x + 5)", int32(3), 0.0),
		Entry("+x", "+x", int32(9), 9.0),
		Entry("x / 2", "x / 2", int32(-5), -2.5),
	)

	It("rejects malformed expressions up front", func() {
		_, err := ExprFitness("(x")
		Expect(err).To(HaveOccurred())
	})

	It("reports unknown variables at evaluation time", func() {
		fn, err := ExprFitness("y + 1")
		Expect(err).ToNot(HaveOccurred())

		_, err = fn(0)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("TargetFitness", func() {
	constant := func(value float64) FitnessFunc {
		return func(int32) (float64, error) { return value, nil }
	}

	DescribeTable("scoring",
		func(value, target, expected float64) {
			score, err := TargetFitness(constant(value), target, 0.5)(0)
			Expect(err).ToNot(HaveOccurred())
			Expect(score).To(Equal(expected))
		},
		Entry("exact hit", 42.0, 42.0, 1.0),
		Entry("one away", 43.0, 42.0, 0.5),
		Entry("ten away", 52.0, 42.0, 0.05),
		Entry("a fraction away", 42.4, 42.0, 0.5),
		Entry("a thousand away", 1042.0, 42.0, 0.0005),
		Entry("below the target", 32.0, 42.0, 0.05),
	)

	It("scores evaluation failures zero and keeps the error", func() {
		boom := func(int32) (float64, error) { return 0, fmt.Errorf("division by zero") }

		score, err := TargetFitness(boom, 42, 0.5)(0)
		Expect(err).To(HaveOccurred())
		Expect(score).To(BeZero())
	})

	It("scores non-finite results zero without error", func() {
		for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			score, err := TargetFitness(constant(value), 42, 0.5)(0)
			Expect(err).ToNot(HaveOccurred())
			Expect(score).To(BeZero())
		}
	})
})

var _ = Describe("CachedFitness", func() {
	It("memoizes by decoded value", func() {
		calls := 0
		fn, err := CachedFitness(func(x int32) (float64, error) {
			calls++
			return float64(x) * 2, nil
		}, 8)
		Expect(err).ToNot(HaveOccurred())

		for i := 0; i < 3; i++ {
			score, evalErr := fn(7)
			Expect(evalErr).ToNot(HaveOccurred())
			Expect(score).To(Equal(14.0))
		}
		Expect(calls).To(Equal(1))

		_, err = fn(9)
		Expect(err).ToNot(HaveOccurred())
		Expect(calls).To(Equal(2))
	})

	It("does not cache failures", func() {
		calls := 0
		fn, err := CachedFitness(func(int32) (float64, error) {
			calls++
			return 0, fmt.Errorf("no score")
		}, 8)
		Expect(err).ToNot(HaveOccurred())

		_, _ = fn(1)
		_, _ = fn(1)
		Expect(calls).To(Equal(2))
	})

	It("rejects a non-positive cache size", func() {
		_, err := CachedFitness(func(int32) (float64, error) { return 0, nil }, 0)
		Expect(err).To(HaveOccurred())
	})
})
