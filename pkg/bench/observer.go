package bench

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
	"github.com/XiaoConstantine/cocobench/pkg/suite"
)

// Observer generates the per-evaluation data an external post-processing
// tool consumes. Problems are wrapped before the solver sees them, so the
// observer sits on the evaluation path without the driver's involvement.
type Observer interface {
	// Observe wraps a problem for data recording.
	Observe(p suite.Problem) (suite.Problem, error)

	// ResultFolder is the folder post-processing runs on.
	ResultFolder() string

	Close() error
}

// NoopObserver records nothing; used in batch smoke tests.
type NoopObserver struct{}

func (NoopObserver) Observe(p suite.Problem) (suite.Problem, error) { return p, nil }
func (NoopObserver) ResultFolder() string                           { return "" }
func (NoopObserver) Close() error                                   { return nil }

// FolderObserver writes one improvement-trace file per problem into the
// result folder: a line per improvement with the evaluation count and the
// best objective value so far.
type FolderObserver struct {
	folder  string
	current *os.File
}

// NewFolderObserver creates the result folder. Re-runs keep the classic
// "-001", "-002" suffix convention instead of mixing data.
func NewFolderObserver(folder string) (*FolderObserver, error) {
	candidate := folder
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			break
		}
		candidate = fmt.Sprintf("%s-%03d", folder, i)
	}
	if err := os.MkdirAll(candidate, 0o755); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "failed to create result folder"),
			errors.Fields{"folder": candidate},
		)
	}
	return &FolderObserver{folder: candidate}, nil
}

func (o *FolderObserver) ResultFolder() string { return o.folder }

func (o *FolderObserver) Observe(p suite.Problem) (suite.Problem, error) {
	if err := o.closeCurrent(); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(o.folder, p.ID()+".tdat"))
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "failed to create trace file"),
			errors.Fields{"problem": p.ID()},
		)
	}
	fmt.Fprintf(f, "%% evaluations | best objective value, problem %s\n", p.ID())
	o.current = f
	return &observedProblem{Problem: p, out: f}, nil
}

func (o *FolderObserver) closeCurrent() error {
	if o.current == nil {
		return nil
	}
	err := o.current.Close()
	o.current = nil
	if err != nil {
		return errors.Wrap(err, errors.IOFailed, "failed to close trace file")
	}
	return nil
}

func (o *FolderObserver) Close() error { return o.closeCurrent() }

// observedProblem forwards everything to the underlying problem and logs
// improvements on the evaluation path.
type observedProblem struct {
	suite.Problem
	out  *os.File
	best float64
	any  bool
}

func (p *observedProblem) Evaluate(x []float64) float64 {
	f := p.Problem.Evaluate(x)
	if !p.any || f < p.best {
		p.any = true
		p.best = f
		fmt.Fprintf(p.out, "%d %.12e\n", p.Problem.Evaluations(), f)
	}
	return f
}
