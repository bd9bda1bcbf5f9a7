package solvers

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
	"github.com/XiaoConstantine/cocobench/pkg/suite"
)

func init() {
	Register("mulambda-es", func() Solver { return NewMuLambdaES() })
}

// MuLambdaES is a small Gaussian (mu, lambda) evolution strategy with step
// size adaptation by the 1/5th success rule. It stands in for heavier
// evolutionary optimizers: it honors the population-size hint, so the
// driver's restart doubling is observable, and it reports termination
// conditions the way those optimizers do.
type MuLambdaES struct {
	// Sigma0 is the initial step size relative to the domain width.
	Sigma0 float64
	// TolX stops when the step size collapses below this fraction of the
	// domain width.
	TolX float64
	// StagnationGens stops after this many generations without improvement.
	StagnationGens int
}

func NewMuLambdaES() *MuLambdaES {
	return &MuLambdaES{
		Sigma0:         0.3,
		TolX:           1e-11,
		StagnationGens: 120,
	}
}

func (s *MuLambdaES) Name() string   { return "mulambda-es" }
func (s *MuLambdaES) Module() string { return "cocobench.solvers" }

type candidate struct {
	x []float64
	f float64
}

func (s *MuLambdaES) Minimize(ctx context.Context, p suite.Problem, x0 []float64, opts Options) (Result, error) {
	if opts.MaxEvaluations <= 0 {
		return Result{}, errors.New(errors.BudgetExhausted, "no evaluations left")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	dim := p.Dimension()
	lambda := opts.PopulationSize
	if lambda <= 0 {
		lambda = DefaultPopulationSize(dim)
	}
	mu := lambda / 4
	if mu < 1 {
		mu = 1
	}

	lower, upper := p.LowerBounds(), p.UpperBounds()
	width := upper[0] - lower[0]
	sigma := s.Sigma0 * width

	mean := append([]float64(nil), x0...)
	best := Result{F: math.Inf(1), Stoppings: StopSet{}}
	stale := 0

	evaluate := func(x []float64) (float64, bool) {
		f := p.Evaluate(x)
		best.Evaluations++
		if f < best.F {
			best.F = f
			best.X = append(best.X[:0], x...)
		}
		stop := opts.StopRequested != nil && opts.StopRequested()
		return f, stop || best.Evaluations >= opts.MaxEvaluations
	}

	// Seed the search with the proposed starting point
	if _, done := evaluate(mean); done {
		return s.finish(best, opts), nil
	}
	meanF := best.F

	for {
		if err := errors.CheckContext(ctx, "mulambda-es"); err != nil {
			return Result{}, err
		}

		population := make([]candidate, 0, lambda)
		for i := 0; i < lambda; i++ {
			x := make([]float64, dim)
			for j := range x {
				x[j] = clamp(mean[j]+sigma*rng.NormFloat64(), lower[j], upper[j])
			}
			f, done := evaluate(x)
			population = append(population, candidate{x: x, f: f})
			if done {
				return s.finish(best, opts), nil
			}
		}

		sort.Slice(population, func(i, j int) bool { return population[i].f < population[j].f })

		// Recombine the mu best into the new mean
		next := make([]float64, dim)
		for i := 0; i < mu; i++ {
			for j := range next {
				next[j] += population[i].x[j] / float64(mu)
			}
		}
		mean = next

		// 1/5th success rule on the generation's best against the previous mean
		if population[0].f < meanF {
			sigma *= math.Exp(0.2)
			meanF = population[0].f
			stale = 0
		} else {
			sigma *= math.Exp(-0.05)
			stale++
		}

		if sigma < s.TolX*width {
			best.Stoppings["tolx"] = sigma / width
			return best, nil
		}
		if stale >= s.StagnationGens {
			best.Stoppings["stagnation"] = stale
			return best, nil
		}
	}
}

// finish attributes the stop to the callback or the evaluation budget.
func (s *MuLambdaES) finish(best Result, opts Options) Result {
	if best.Evaluations >= opts.MaxEvaluations {
		best.Stoppings["maxfevals"] = best.Evaluations
	} else {
		best.Stoppings["callback"] = true
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
