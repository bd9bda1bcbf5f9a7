package bench

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingsMedian(t *testing.T) {
	tm := Timings{}
	assert.Equal(t, 0.0, tm.Median(2))

	tm.Add(2, 3.0)
	assert.Equal(t, 3.0, tm.Median(2))

	tm.Add(2, 1.0)
	tm.Add(2, 2.0)
	assert.Equal(t, 2.0, tm.Median(2))

	tm.Add(2, 10.0)
	assert.Equal(t, 2.5, tm.Median(2), "even count averages the middle two")
}

func TestTimingsDimensionsSorted(t *testing.T) {
	tm := Timings{}
	tm.Add(20, 1)
	tm.Add(2, 1)
	tm.Add(5, 1)

	assert.Equal(t, []int{2, 5, 20}, tm.Dimensions())
}

func TestExportParquet(t *testing.T) {
	tm := Timings{}
	tm.Add(2, 1e-6)
	tm.Add(2, 2e-6)
	tm.Add(10, 5e-5)

	path := filepath.Join(t.TempDir(), "timings.parquet")
	require.NoError(t, tm.ExportParquet(path))

	// Parquet files start with the PAR1 magic
	data, err := readFilePrefix(path, 4)
	require.NoError(t, err)
	assert.Equal(t, "PAR1", string(data))
}

func TestExportParquetEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	assert.NoError(t, Timings{}.ExportParquet(path))
}
