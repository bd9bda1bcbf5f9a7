package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/XiaoConstantine/cocobench/pkg/suite"
)

// progressPrinter emits the compact per-problem progress the classic
// experiment scripts print: one marker per problem, a line per finished
// dimension group and a closing timing summary.
type progressPrinter struct {
	w       io.Writer
	start   time.Time
	lastDim int
	inGroup bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w, start: time.Now()}
}

// Problem prints the marker for one finished problem: '.' for a single
// solver invocation, the restart count for restarted problems, '+' when the
// final target was hit.
func (pp *progressPrinter) Problem(p suite.Problem, restarts int, timings Timings) {
	if p.Dimension() != pp.lastDim {
		if pp.inGroup {
			pp.DimensionDone(pp.lastDim, timings)
		}
		fmt.Fprintf(pp.w, "d=%d: ", p.Dimension())
		pp.lastDim = p.Dimension()
		pp.inGroup = true
	}

	marker := "."
	switch {
	case p.FinalTargetHit():
		marker = "+"
	case restarts > 0:
		marker = fmt.Sprintf("%d", restarts%10)
	}
	fmt.Fprint(pp.w, marker)
}

// DimensionDone prints elapsed time and the median seconds/evaluation for
// a finished dimension group.
func (pp *progressPrinter) DimensionDone(dimension int, timings Timings) {
	fmt.Fprintf(pp.w, "\n   %s %d-D done in %.1e seconds/evaluations\n",
		ascetime(time.Since(pp.start)), dimension, timings.Median(dimension))
}

// Summary prints the final timing table and the closing message.
func (pp *progressPrinter) Summary(timings Timings, batches, currentBatch int) {
	if pp.inGroup {
		pp.DimensionDone(pp.lastDim, timings)
	}

	if batches > 1 {
		fmt.Fprintf(pp.w, "*** Batch %d of %d batches finished in %s."+
			" Make sure to run *all* batches ***\n",
			currentBatch, batches, ascetime(time.Since(pp.start)))
	} else {
		fmt.Fprintf(pp.w, "*** Full experiment done in %s ***\n",
			ascetime(time.Since(pp.start)))
	}

	fmt.Fprint(pp.w, "Timing summary:\n"+
		"  dimension  median seconds/evaluations\n"+
		"  -------------------------------------\n")
	for _, dim := range timings.Dimensions() {
		fmt.Fprintf(pp.w, "    %3d       %.1e\n", dim, timings.Median(dim))
	}
	fmt.Fprint(pp.w, "  -------------------------------------\n")
}

// ascetime renders a duration the way the COCO utilities do: seconds below
// a minute, then minutes, then hours.
func ascetime(d time.Duration) string {
	s := d.Seconds()
	switch {
	case s < 60:
		return fmt.Sprintf("%.1fs", s)
	case s < 3600:
		return fmt.Sprintf("%dm%04.1fs", int(s)/60, s-float64(int(s)/60*60))
	default:
		h := int(s) / 3600
		m := (int(s) % 3600) / 60
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
