package bench

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/cocobench/pkg/suite"
)

func readFilePrefix(path string, n int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) > n {
		data = data[:n]
	}
	return data, nil
}

func TestAscetime(t *testing.T) {
	assert.Equal(t, "12.3s", ascetime(12300*time.Millisecond))
	assert.Equal(t, "2m03.0s", ascetime(123*time.Second))
	assert.Equal(t, "1h01m", ascetime(3660*time.Second))
}

func TestProgressPrinterMarkers(t *testing.T) {
	var buf bytes.Buffer
	pp := newProgressPrinter(&buf)
	tm := Timings{}

	pp.Problem(&fakeProblem{id: "a", dim: 2}, 0, tm)
	pp.Problem(&fakeProblem{id: "b", dim: 2}, 3, tm)
	pp.Problem(&fakeProblem{id: "c", dim: 2, hitAtEvals: 1, evals: 1}, 1, tm)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "d=2: "))
	assert.Contains(t, out, ".3+")
}

func TestProgressPrinterDimensionGroups(t *testing.T) {
	var buf bytes.Buffer
	pp := newProgressPrinter(&buf)
	tm := Timings{}
	tm.Add(2, 1e-5)

	pp.Problem(&fakeProblem{id: "a", dim: 2}, 0, tm)
	pp.Problem(&fakeProblem{id: "b", dim: 3}, 0, tm)
	pp.Summary(tm, 1, 1)

	out := buf.String()
	assert.Contains(t, out, "2-D done in 1.0e-05 seconds/evaluations")
	assert.Contains(t, out, "d=3: ")
	assert.Contains(t, out, "Full experiment done in")
	assert.Contains(t, out, "Timing summary:")
}

func TestProgressPrinterBatchMessage(t *testing.T) {
	var buf bytes.Buffer
	pp := newProgressPrinter(&buf)

	pp.Summary(Timings{}, 8, 2)
	assert.Contains(t, buf.String(), "Batch 2 of 8 batches finished")
	assert.Contains(t, buf.String(), "run *all* batches")
}

func TestFolderObserverTraces(t *testing.T) {
	dir := t.TempDir()
	obs, err := NewFolderObserver(dir + "/results")
	require.NoError(t, err)

	p := &fakeProblem{id: "fake_f001_i01_d02", index: 0, dim: 2}
	wrapped, err := obs.Observe(p)
	require.NoError(t, err)

	// Improvements only: fakeProblem's objective grows with every
	// evaluation, so just the first value is recorded
	wrapped.Evaluate([]float64{0, 0})
	wrapped.Evaluate([]float64{1, 1})
	require.NoError(t, obs.Close())

	assert.Equal(t, 2, p.Evaluations(), "wrapper delegates counting")

	data, err := os.ReadFile(obs.ResultFolder() + "/fake_f001_i01_d02.tdat")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2) // header + one improvement
	assert.True(t, strings.HasPrefix(lines[0], "%"))
	assert.True(t, strings.HasPrefix(lines[1], "1 "))
}

func TestFolderObserverAvoidsReuse(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFolderObserver(dir + "/exp")
	require.NoError(t, err)
	second, err := NewFolderObserver(dir + "/exp")
	require.NoError(t, err)

	assert.NotEqual(t, first.ResultFolder(), second.ResultFolder())
	assert.Equal(t, dir+"/exp-001", second.ResultFolder())
}

var _ suite.Problem = (*fakeProblem)(nil)
