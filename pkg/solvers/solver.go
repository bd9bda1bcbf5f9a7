// Package solvers defines the optimizer interface the experiment driver
// benchmarks against, plus reference implementations. Solvers are opaque to
// the driver: they receive a problem, a starting point and a budget, and
// return the best point found together with the conditions that stopped
// them.
package solvers

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
	"github.com/XiaoConstantine/cocobench/pkg/suite"
)

// StopSet records why one solver invocation terminated, as condition-name
// to value pairs, e.g. {"maxfevals": 4001} or {"ftarget": 1e-08}. One
// StopSet per restart is appended to the persisted outcome record.
type StopSet map[string]interface{}

// Options parameterizes a single solver invocation.
type Options struct {
	// MaxEvaluations is the exact evaluation budget for this invocation.
	MaxEvaluations int

	// PopulationSize is a hint; the driver grows it between restarts.
	// Zero means the solver's own default for the problem dimension.
	PopulationSize int

	// Seed for the solver's random source. Zero means time-based.
	Seed int64

	// StopRequested is polled between evaluations; when it returns true
	// the solver stops early and records a "callback" condition. The
	// driver wires the problem's final-target flag here.
	StopRequested func() bool
}

// Result is the outcome of one solver invocation.
type Result struct {
	X           []float64
	F           float64
	Evaluations int
	Stoppings   StopSet
}

// Solver is a benchmarkable optimizer.
type Solver interface {
	// Name identifies the solver in output folder names and logs.
	Name() string

	// Module names the solver's origin, mirroring the source-module part
	// of the classic output folder convention.
	Module() string

	// Minimize runs the solver on the problem from x0 until its budget is
	// exhausted, the target callback fires, or an internal termination
	// condition triggers.
	Minimize(ctx context.Context, p suite.Problem, x0 []float64, opts Options) (Result, error)
}

// DefaultPopulationSize is the canonical evolution-strategy default,
// 4 + floor(3 ln d). Used by the driver as the base for restart doubling.
func DefaultPopulationSize(dimension int) int {
	return 4 + int(3*math.Log(float64(dimension)))
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Solver{}
)

// Register makes a solver constructor available under the given name.
func Register(name string, factory func() Solver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New constructs the named solver.
func New(name string) (Solver, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "unknown solver"),
			errors.Fields{"solver": name, "known": Names()},
		)
	}
	return factory(), nil
}

// Names lists the registered solver names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
