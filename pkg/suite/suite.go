// Package suite provides benchmark problem collections for the experiment
// driver. A suite is an ordered list of problems; each problem tracks its
// own evaluation counters and final-target state, so the driver only ever
// reads problem state and never owns it.
package suite

import (
	"sort"
	"sync"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
)

// Problem is one benchmark instance. Evaluation counting and target
// detection are the problem's responsibility; the driver computes budgets
// from the counters it exposes.
type Problem interface {
	// ID uniquely identifies the problem within its suite,
	// e.g. "toy-bbob_f001_i01_d02".
	ID() string

	// Index is the position of the problem in its suite, used for batch
	// partitioning and as the key of the persisted outcome record.
	Index() int

	Dimension() int

	// Evaluate computes the objective value and increments the evaluation
	// counter. Panics if len(x) != Dimension().
	Evaluate(x []float64) float64

	// Evaluations and EvaluationsConstraints are the counters entering the
	// remaining-budget computation.
	Evaluations() int
	EvaluationsConstraints() int

	// FinalTargetHit reports whether any evaluation so far reached the
	// problem's final target.
	FinalTargetHit() bool

	// InitialSolutionProposal returns a fresh starting point: the domain
	// center on the first call, uniform random points within the bounds on
	// subsequent calls.
	InitialSolutionProposal() []float64

	LowerBounds() []float64
	UpperBounds() []float64
}

// Suite is a named, ordered collection of benchmark problems.
type Suite struct {
	name     string
	problems []Problem
}

func (s *Suite) Name() string { return s.name }

func (s *Suite) Len() int { return len(s.problems) }

func (s *Suite) Problem(i int) Problem { return s.problems[i] }

// Problems returns the ordered problem list.
func (s *Suite) Problems() []Problem { return s.problems }

// Dimensions returns the sorted set of dimensions occurring in the suite.
func (s *Suite) Dimensions() []int {
	seen := map[int]bool{}
	for _, p := range s.problems {
		seen[p.Dimension()] = true
	}
	dims := make([]int, 0, len(seen))
	for d := range seen {
		dims = append(dims, d)
	}
	sort.Ints(dims)
	return dims
}

// FromProblems assembles a suite from existing problems, preserving order.
// Problems carry their own indices; callers are expected to keep them
// consistent with the list positions.
func FromProblems(name string, problems []Problem) *Suite {
	return &Suite{name: name, problems: problems}
}

// Builder constructs a suite from a filter-option string.
type Builder func(filter string) (*Suite, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Builder{}
)

// Register makes a suite available under the given name. Called from
// package init functions of suite implementations.
func Register(name string, b Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = b
}

// New builds the named suite, restricted by the filter-option string.
func New(name, filter string) (*Suite, error) {
	registryMu.RLock()
	b, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.SuiteError, "unknown suite"),
			errors.Fields{"suite_name": name, "known": Names()},
		)
	}
	return b(filter)
}

// Names lists the registered suite names.
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
