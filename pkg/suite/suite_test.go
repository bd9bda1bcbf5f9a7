package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownSuite(t *testing.T) {
	_, err := New("no-such-suite", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown suite")
}

func TestToyBBOBLayout(t *testing.T) {
	s, err := New("toy-bbob", "")
	require.NoError(t, err)

	assert.Equal(t, "toy-bbob", s.Name())
	assert.Equal(t, len(toyDimensions)*len(toyFunctions)*toyInstances, s.Len())
	assert.Equal(t, toyDimensions, s.Dimensions())

	// Indices are the suite positions, dense and ordered
	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, i, s.Problem(i).Index())
	}

	// Dimension is the outermost grouping
	lastDim := 0
	for _, p := range s.Problems() {
		assert.GreaterOrEqual(t, p.Dimension(), lastDim)
		lastDim = p.Dimension()
	}
}

func TestToyBBOBFiltering(t *testing.T) {
	s, err := New("toy-bbob", "dimensions: 2,5 instance_indices: 1-2 function_indices: 1")
	require.NoError(t, err)

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []int{2, 5}, s.Dimensions())
	assert.Equal(t, "toy-bbob_f001_i01_d02", s.Problem(0).ID())
	assert.Equal(t, "toy-bbob_f001_i02_d02", s.Problem(1).ID())

	_, err = New("toy-bbob", "dimensions 2")
	assert.Error(t, err, "filter values without a key are rejected")
}

func TestProblemEvaluationCounting(t *testing.T) {
	s, err := New("toy-bbob", "dimensions: 2 instance_indices: 1 function_indices: 1")
	require.NoError(t, err)
	p := s.Problem(0)

	assert.Equal(t, 0, p.Evaluations())
	assert.Equal(t, 0, p.EvaluationsConstraints())
	assert.False(t, p.FinalTargetHit())

	p.Evaluate([]float64{0, 0})
	p.Evaluate([]float64{1, 1})
	assert.Equal(t, 2, p.Evaluations())
}

func TestProblemTargetHit(t *testing.T) {
	s, err := New("toy-bbob", "dimensions: 3 instance_indices: 2 function_indices: 1")
	require.NoError(t, err)
	p := s.Problem(0).(*benchmarkProblem)

	// Far from the optimum: no hit
	p.Evaluate([]float64{5, 5, 5})
	assert.False(t, p.FinalTargetHit())

	// Evaluating the instance optimum itself must hit the final target
	x := make([]float64, 3)
	copy(x, p.xopt)
	f := p.Evaluate(x)
	assert.InDelta(t, p.fopt, f, 1e-12)
	assert.True(t, p.FinalTargetHit())

	// The flag latches
	p.Evaluate([]float64{5, 5, 5})
	assert.True(t, p.FinalTargetHit())
}

func TestInitialSolutionProposal(t *testing.T) {
	s, err := New("toy-bbob", "dimensions: 5 instance_indices: 1 function_indices: 2")
	require.NoError(t, err)
	p := s.Problem(0)

	first := p.InitialSolutionProposal()
	assert.Equal(t, make([]float64, 5), first, "first proposal is the domain center")

	second := p.InitialSolutionProposal()
	assert.NotEqual(t, first, second)
	for i, v := range second {
		assert.GreaterOrEqual(t, v, p.LowerBounds()[i])
		assert.LessOrEqual(t, v, p.UpperBounds()[i])
	}
}

func TestInstanceTransformIsDeterministic(t *testing.T) {
	build := func() *benchmarkProblem {
		s, err := New("toy-bbob", "dimensions: 10 instance_indices: 3 function_indices: 4")
		require.NoError(t, err)
		return s.Problem(0).(*benchmarkProblem)
	}

	a, b := build(), build()
	assert.Equal(t, a.xopt, b.xopt)
	assert.Equal(t, a.fopt, b.fopt)

	// Different instances get different optima
	s, err := New("toy-bbob", "dimensions: 10 instance_indices: 4 function_indices: 4")
	require.NoError(t, err)
	c := s.Problem(0).(*benchmarkProblem)
	assert.NotEqual(t, a.xopt, c.xopt)
}

func TestCanonicalFunctionsVanishAtOrigin(t *testing.T) {
	for _, fn := range toyFunctions {
		t.Run(fn.Name, func(t *testing.T) {
			z := make([]float64, 7)
			assert.InDelta(t, 0, fn.Eval(z), 1e-12)

			// Anywhere else the value is positive
			z[3] = 0.5
			assert.Greater(t, fn.Eval(z), 0.0)
		})
	}
}

func TestEvaluateDimensionMismatchPanics(t *testing.T) {
	s, err := New("toy-bbob", "dimensions: 2 instance_indices: 1 function_indices: 1")
	require.NoError(t, err)

	assert.Panics(t, func() {
		s.Problem(0).Evaluate([]float64{1, 2, 3})
	})
}

func TestParseFilterRequiresColonAfterKey(t *testing.T) {
	f, err := ParseFilter("dimensions: 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, f.Dimensions)

	_, err = ParseFilter("dimensions 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must end in ':'")

	_, err = ParseFilter("dimensions: 2 instance_indices 1")
	assert.Error(t, err)
}

func TestParseIndexList(t *testing.T) {
	got, err := parseIndexList("1-3,7")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 7}, got)

	_, err = parseIndexList("3-1")
	assert.Error(t, err)
	_, err = parseIndexList("x")
	assert.Error(t, err)
}
