package genint

import (
	"context"
	"fmt"
	"math"

	"github.com/PaesslerAG/gval"
	lru "github.com/hashicorp/golang-lru"
)

// FitnessFunc scores one decoded integer. The evaluation workers share a
// single FitnessFunc, so implementations must be safe for concurrent calls.
type FitnessFunc func(x int32) (float64, error)

// ExprLang is an arithmetic expressions Language which supports a "+"
// unary prefix operator.
var ExprLang = gval.NewLanguage(
	gval.Arithmetic(),
	gval.PrefixOperator("+", func(c context.Context, parameter interface{}) (interface{}, error) {
		p, isFloat := parameter.(float64)
		if !isFloat {
			return nil, fmt.Errorf("expected float, got: %s", parameter)
		}

		return +p, nil
	}),
)

// ExprFitness compiles an arithmetic expression of the variable x into an
// evaluator. Parse errors surface here, evaluation errors per call.
func ExprFitness(expression string) (FitnessFunc, error) {
	eval, err := ExprLang.NewEvaluable(expression)
	if err != nil {
		return nil, fmt.Errorf("compiling expression %q: %w", expression, err)
	}
	return func(x int32) (float64, error) {
		return eval.EvalFloat64(context.Background(), map[string]interface{}{
			"x": float64(x),
		})
	}, nil
}

// TargetFitness shapes fn into a solve-for-target score. An exact hit is a
// perfect 1.0. Otherwise the score is imperfectMax divided by the distance
// to the target truncated to an integer, with sub-one distances capped at
// imperfectMax so a near miss can never masquerade as a solution.
// Non-finite evaluations score zero.
func TargetFitness(fn FitnessFunc, target, imperfectMax float64) FitnessFunc {
	return func(x int32) (float64, error) {
		v, err := fn(x)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, nil
		}
		diff := math.Abs(target - v)
		if diff == 0 {
			return 1, nil
		}
		if truncated := math.Trunc(diff); truncated >= 1 {
			return imperfectMax / truncated, nil
		}
		return imperfectMax, nil
	}
}

// CachedFitness memoizes fn by decoded integer. The cache is safe for the
// concurrent evaluation workers; errors are returned without being cached.
func CachedFitness(fn FitnessFunc, size int) (FitnessFunc, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return func(x int32) (float64, error) {
		if v, ok := cache.Get(x); ok {
			return v.(float64), nil
		}
		f, err := fn(x)
		if err != nil {
			return 0, err
		}
		cache.Add(x, f)
		return f, nil
	}, nil
}
