package solvers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/cocobench/pkg/suite"
)

func sphereProblem(t *testing.T, dim int) suite.Problem {
	t.Helper()
	s, err := suite.New("toy-bbob", "dimensions: 2,3,5 instance_indices: 1 function_indices: 1")
	require.NoError(t, err)
	for _, p := range s.Problems() {
		if p.Dimension() == dim {
			return p
		}
	}
	t.Fatalf("no %d-dimensional problem in filtered suite", dim)
	return nil
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"mulambda-es", "random-search"}, Names())

	s, err := New("random-search")
	require.NoError(t, err)
	assert.Equal(t, "random-search", s.Name())
	assert.Equal(t, "cocobench.solvers", s.Module())

	_, err = New("cma")
	assert.Error(t, err)
}

func TestDefaultPopulationSize(t *testing.T) {
	assert.Equal(t, 6, DefaultPopulationSize(2))
	assert.Equal(t, 12, DefaultPopulationSize(20))
	// Non-decreasing in the dimension
	prev := 0
	for _, d := range []int{2, 3, 5, 10, 20, 40} {
		ps := DefaultPopulationSize(d)
		assert.GreaterOrEqual(t, ps, prev)
		prev = ps
	}
}

func TestRandomSearchRespectsBudget(t *testing.T) {
	p := sphereProblem(t, 2)
	rs := &RandomSearch{}

	res, err := rs.Minimize(context.Background(), p, p.InitialSolutionProposal(), Options{
		MaxEvaluations: 25,
		Seed:           1,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, res.Evaluations)
	assert.Equal(t, 25, p.Evaluations())
	assert.Equal(t, 25, res.Stoppings["maxfevals"])
	assert.Len(t, res.X, 2)
}

func TestRandomSearchStopsOnCallback(t *testing.T) {
	p := sphereProblem(t, 2)
	rs := &RandomSearch{}

	calls := 0
	res, err := rs.Minimize(context.Background(), p, p.InitialSolutionProposal(), Options{
		MaxEvaluations: 1000,
		Seed:           1,
		StopRequested: func() bool {
			calls++
			return calls >= 5
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Evaluations)
	assert.Equal(t, true, res.Stoppings["callback"])
	_, hasBudgetStop := res.Stoppings["maxfevals"]
	assert.False(t, hasBudgetStop)
}

func TestRandomSearchZeroBudget(t *testing.T) {
	p := sphereProblem(t, 2)
	_, err := (&RandomSearch{}).Minimize(context.Background(), p, p.InitialSolutionProposal(), Options{})
	assert.Error(t, err)
}

func TestMuLambdaESImprovesOnSphere(t *testing.T) {
	p := sphereProblem(t, 5)
	es := NewMuLambdaES()

	x0 := p.InitialSolutionProposal()
	f0 := p.Evaluate(append([]float64(nil), x0...))

	res, err := es.Minimize(context.Background(), p, x0, Options{
		MaxEvaluations: 2000,
		Seed:           7,
	})
	require.NoError(t, err)

	assert.Less(t, res.F, f0, "should improve on the starting point")
	assert.NotEmpty(t, res.Stoppings)
	assert.LessOrEqual(t, res.Evaluations, 2000)
}

func TestMuLambdaESRespectsBudgetExactly(t *testing.T) {
	p := sphereProblem(t, 3)
	es := NewMuLambdaES()

	res, err := es.Minimize(context.Background(), p, p.InitialSolutionProposal(), Options{
		MaxEvaluations: 57,
		Seed:           3,
		PopulationSize: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 57, res.Evaluations)
	assert.Equal(t, 57, p.Evaluations())
	assert.Equal(t, 57, res.Stoppings["maxfevals"])
}

func TestMuLambdaESHonorsCancellation(t *testing.T) {
	p := sphereProblem(t, 3)
	es := NewMuLambdaES()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := es.Minimize(ctx, p, p.InitialSolutionProposal(), Options{
		MaxEvaluations: 1000,
		Seed:           3,
	})
	assert.Error(t, err)
}

func TestMuLambdaESCallbackStop(t *testing.T) {
	p := sphereProblem(t, 2)
	es := NewMuLambdaES()

	res, err := es.Minimize(context.Background(), p, p.InitialSolutionProposal(), Options{
		MaxEvaluations: 100000,
		Seed:           11,
		StopRequested:  p.FinalTargetHit,
	})
	require.NoError(t, err)

	// Either the target was found (callback) or an internal condition fired;
	// the budget must not be the binding constraint at this size.
	_, budget := res.Stoppings["maxfevals"]
	assert.False(t, budget)
}
