package solvers

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
	"github.com/XiaoConstantine/cocobench/pkg/suite"
)

func init() {
	Register("random-search", func() Solver { return &RandomSearch{} })
}

// RandomSearch samples uniformly within the problem bounds. It is the
// baseline the classic experiment scripts ship with; it will not work well
// for budgets much beyond 1e5.
type RandomSearch struct{}

func (r *RandomSearch) Name() string   { return "random-search" }
func (r *RandomSearch) Module() string { return "cocobench.solvers" }

func (r *RandomSearch) Minimize(ctx context.Context, p suite.Problem, x0 []float64, opts Options) (Result, error) {
	if opts.MaxEvaluations <= 0 {
		return Result{}, errors.New(errors.BudgetExhausted, "no evaluations left")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	lower, upper := p.LowerBounds(), p.UpperBounds()
	dim := p.Dimension()

	best := Result{F: math.Inf(1), Stoppings: StopSet{}}

	// The starting point counts against the budget like any other sample
	x := append([]float64(nil), x0...)
	for evals := 0; evals < opts.MaxEvaluations; evals++ {
		if err := errors.CheckContext(ctx, "random search"); err != nil {
			return Result{}, err
		}

		f := p.Evaluate(x)
		best.Evaluations++
		if f < best.F {
			best.F = f
			best.X = append(best.X[:0], x...)
		}

		if opts.StopRequested != nil && opts.StopRequested() {
			best.Stoppings["callback"] = true
			return best, nil
		}

		x = make([]float64, dim)
		for i := range x {
			x[i] = lower[i] + rng.Float64()*(upper[i]-lower[i])
		}
	}

	best.Stoppings["maxfevals"] = best.Evaluations
	return best, nil
}
