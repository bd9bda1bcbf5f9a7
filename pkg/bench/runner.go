// Package bench contains the experiment driver: restart scheduling, budget
// accounting, batch partitioning, progress printing and results
// persistence.
package bench

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/XiaoConstantine/cocobench/pkg/config"
	"github.com/XiaoConstantine/cocobench/pkg/errors"
	"github.com/XiaoConstantine/cocobench/pkg/logging"
	"github.com/XiaoConstantine/cocobench/pkg/solvers"
	"github.com/XiaoConstantine/cocobench/pkg/suite"
)

// RestartRecorder receives every restart outcome and timing sample, in
// addition to the pydict results file. The SQLite archive implements it.
type RestartRecorder interface {
	RecordRestart(problemID string, problemIndex, restart int, conditions solvers.StopSet) error
	RecordTiming(problemID string, dimension int, secondsPerEval float64) error
}

// Runner drives one experiment: a solver across the problems of a suite
// that fall into the configured batch.
type Runner struct {
	Config   *config.Config
	Suite    *suite.Suite
	Solver   solvers.Solver
	Observer Observer        // optional, NoopObserver when nil
	Recorder RestartRecorder // optional
	Logger   *logging.Logger // optional, global logger when nil
	Out      io.Writer       // progress output, os.Stdout when nil
}

// Report summarizes a finished run.
type Report struct {
	Stoppings     Stoppings
	Timings       Timings
	Processed     []int // suite indices processed by this batch
	ResultFolder  string
	StoppingsPath string
	Elapsed       time.Duration
}

// Run executes the experiment. Any solver, suite or I/O failure aborts the
// whole run; the only recovery mechanism is the restart loop itself.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	cfg := r.Config
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}
	observer := r.Observer
	if observer == nil {
		observer = NoopObserver{}
	}

	report := &Report{
		Stoppings:     Stoppings{},
		Timings:       Timings{},
		ResultFolder:  observer.ResultFolder(),
		StoppingsPath: cfg.StoppingsPath(r.Solver.Name(), r.Solver.Module()),
	}

	fmt.Fprintf(out, "*** benchmarking %s from %s on suite %s ***\n",
		r.Solver.Name(), r.Solver.Module(), r.Suite.Name())
	progress := newProgressPrinter(out)
	start := time.Now()

	for i := 0; i < r.Suite.Len(); i++ {
		if !cfg.InBatch(i) {
			continue
		}
		if err := errors.CheckContext(ctx, "experiment"); err != nil {
			return nil, err
		}

		problem, err := observer.Observe(r.Suite.Problem(i))
		if err != nil {
			return nil, err
		}
		if err := r.runProblem(ctx, problem, report); err != nil {
			return nil, err
		}
		report.Processed = append(report.Processed, i)

		progress.Problem(problem, len(report.Stoppings[problem.Index()])-1, report.Timings)

		// Rewritten after every problem so a crash loses at most the
		// problem in flight
		if err := WriteStoppingsFile(report.StoppingsPath, report.Stoppings); err != nil {
			return nil, err
		}
	}

	progress.Summary(report.Timings, cfg.Batches, cfg.CurrentBatch)
	report.Elapsed = time.Since(start)

	if cfg.TimingsFile != "" {
		if err := report.Timings.ExportParquet(cfg.TimingsFile); err != nil {
			return nil, err
		}
	}
	if err := observer.Close(); err != nil {
		return nil, err
	}
	return report, nil
}

// runProblem applies restarts to one problem until its budget is exhausted
// or its final target is hit.
func (r *Runner) runProblem(ctx context.Context, p suite.Problem, report *Report) error {
	cfg := r.Config
	logger := r.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}
	pctx := logging.WithProblemID(ctx, p.ID())

	// One evaluation at the domain center makes solvers more comparable
	p.Evaluate(make([]float64, p.Dimension()))

	evalsLeft := func() int {
		budget := int(float64(p.Dimension())*cfg.BudgetMultiplier) + 1
		return budget - max(p.Evaluations(), p.EvaluationsConstraints())
	}

	basePopsize := solvers.DefaultPopulationSize(p.Dimension())
	problemStart := time.Now()

	restart := -1
	for evalsLeft() > 0 && !p.FinalTargetHit() {
		restart++
		rctx := logging.WithRestart(pctx, restart)

		popsize := int(float64(basePopsize) * math.Pow(cfg.PopsizeGrowth, float64(restart)))
		logger.Evaluation(rctx, p.ID(), &logging.EvalInfo{
			Evaluations:            p.Evaluations(),
			EvaluationsConstraints: p.EvaluationsConstraints(),
			BudgetRemaining:        evalsLeft(),
		})

		result, err := r.Solver.Minimize(rctx, p, p.InitialSolutionProposal(), solvers.Options{
			MaxEvaluations: evalsLeft(),
			PopulationSize: popsize,
			Seed:           restartSeed(cfg.Seed, p.Index(), restart),
			StopRequested:  p.FinalTargetHit,
		})
		if err != nil {
			return errors.WithFields(
				errors.Wrap(err, errors.SolverFailed, "solver invocation failed"),
				errors.Fields{"problem": p.ID(), "restart": restart},
			)
		}

		report.Stoppings[p.Index()] = append(report.Stoppings[p.Index()], result.Stoppings)
		if r.Recorder != nil {
			if err := r.Recorder.RecordRestart(p.ID(), p.Index(), restart, result.Stoppings); err != nil {
				return err
			}
		}

		// Cap restarts for practical runtime bounds
		if restart >= cfg.MaxRestarts {
			break
		}
	}

	secondsPerEval := 0.0
	if p.Evaluations() > 0 {
		secondsPerEval = time.Since(problemStart).Seconds() / float64(p.Evaluations())
	}
	report.Timings.Add(p.Dimension(), secondsPerEval)
	if r.Recorder != nil {
		if err := r.Recorder.RecordTiming(p.ID(), p.Dimension(), secondsPerEval); err != nil {
			return err
		}
	}

	logger.Debug(pctx, "problem done: restarts=%d, evaluations=%d, target_hit=%t",
		restart, p.Evaluations(), p.FinalTargetHit())
	return nil
}

func restartSeed(base int64, problemIndex, restart int) int64 {
	if base == 0 {
		return 0 // solvers fall back to time-based seeding
	}
	return base + int64(problemIndex)*1009 + int64(restart+1)
}

// WriteStoppingsFile writes the outcome record with its re-reading
// instructions as a comment header.
func WriteStoppingsFile(path string, s Stoppings) error {
	var b strings.Builder
	b.WriteString("# code to read in these data:\n")
	b.WriteString("# import ast\n")
	fmt.Fprintf(&b, "# with open('%s', 'rt') as file_:\n", filepath.Base(path))
	b.WriteString("#     stoppings = ast.literal_eval(file_.read())\n")
	b.WriteString(RenderStoppings(s))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "failed to write stopping conditions"),
			errors.Fields{"path": path},
		)
	}
	return nil
}
