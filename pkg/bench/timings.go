package bench

import (
	"os"
	"sort"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
)

// Timings collects per-evaluation elapsed-time samples grouped by problem
// dimension. Used for progress reporting and the final summary; persisted
// only through the optional Parquet export.
type Timings map[int][]float64

// Add records one seconds-per-evaluation sample for a dimension.
func (t Timings) Add(dimension int, secondsPerEval float64) {
	t[dimension] = append(t[dimension], secondsPerEval)
}

// Dimensions returns the dimensions with at least one sample, sorted.
func (t Timings) Dimensions() []int {
	dims := make([]int, 0, len(t))
	for d := range t {
		dims = append(dims, d)
	}
	sort.Ints(dims)
	return dims
}

// Median returns the median seconds-per-evaluation for a dimension, zero
// when no samples exist.
func (t Timings) Median(dimension int) float64 {
	samples := t[dimension]
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// ExportParquet writes all timing samples to a Parquet file with one row
// per sample (dimension, seconds_per_evaluation).
func (t Timings) ExportParquet(path string) error {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "dimension", Type: arrow.PrimitiveTypes.Int64},
		{Name: "seconds_per_evaluation", Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	dimBuilder := builder.Field(0).(*array.Int64Builder)
	secBuilder := builder.Field(1).(*array.Float64Builder)
	for _, dim := range t.Dimensions() {
		for _, s := range t[dim] {
			dimBuilder.Append(int64(dim))
			secBuilder.Append(s)
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer table.Release()

	f, err := os.Create(path)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "failed to create timings file"),
			errors.Fields{"path": path},
		)
	}
	defer f.Close()

	chunkSize := table.NumRows()
	if chunkSize == 0 {
		chunkSize = 1
	}
	if err := pqarrow.WriteTable(table, f, chunkSize,
		parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "failed to write timings parquet"),
			errors.Fields{"path": path},
		)
	}
	return nil
}
