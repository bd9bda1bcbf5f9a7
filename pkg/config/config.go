package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
)

// Config represents the complete configuration for one benchmarking
// experiment. It replaces the mutable module-level state of the classic
// COCO example scripts with a single value constructed up front and passed
// into the driver.
type Config struct {
	// Solver selects the registered optimizer to benchmark.
	Solver string `yaml:"solver" validate:"required"`

	// SuiteName selects the registered benchmark suite.
	SuiteName string `yaml:"suite_name" validate:"required"`

	// SuiteFilterOptions restricts the suite, e.g.
	// "dimensions: 2,3,5 instance_indices: 1-5".
	SuiteFilterOptions string `yaml:"suite_filter_options,omitempty"`

	// BudgetMultiplier scales the per-problem evaluation budget:
	// budget = dimension * BudgetMultiplier.
	BudgetMultiplier float64 `yaml:"budget_multiplier" validate:"gt=0"`

	// Batches and CurrentBatch partition the suite for distributed offline
	// execution. Only CurrentBatch modulo Batches is relevant.
	Batches      int `yaml:"batches" validate:"min=1"`
	CurrentBatch int `yaml:"current_batch" validate:"min=1"`

	// OutputFolder is the folder-name prefix; the experiment identifier is
	// appended, see ResultFolder.
	OutputFolder string `yaml:"output_folder,omitempty"`

	// MaxRestarts caps the restart loop per problem for practical runtime
	// bounds. The solver is invoked at most MaxRestarts+1 times.
	MaxRestarts int `yaml:"max_restarts" validate:"min=0"`

	// PopsizeGrowth multiplies the population-size hint between restarts.
	PopsizeGrowth float64 `yaml:"popsize_growth" validate:"gte=1"`

	// Threads is handed to external numeric libraries via environment
	// variables to keep timing measurements comparable.
	Threads int `yaml:"threads" validate:"min=1"`

	// ArchivePath enables the SQLite results archive when non-empty.
	ArchivePath string `yaml:"archive_path,omitempty"`

	// TimingsFile enables Parquet export of timing samples when non-empty.
	TimingsFile string `yaml:"timings_file,omitempty"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR, FATAL.
	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=DEBUG INFO WARN ERROR FATAL"`

	// PostProcess launches the external report generator after a
	// single-batch run. Disabled with cocopp=None on the command line.
	PostProcess bool `yaml:"post_process"`

	// Seed for the solver's random source. Zero means time-based.
	Seed int64 `yaml:"seed,omitempty"`
}

// Default returns the configuration the classic example experiment starts
// from: full suite, single batch, budget 2e5 times dimension.
func Default() *Config {
	return &Config{
		Solver:           "mulambda-es",
		SuiteName:        "toy-bbob",
		BudgetMultiplier: 2e5,
		Batches:          1,
		CurrentBatch:     1,
		MaxRestarts:      9,
		PopsizeGrowth:    2.0,
		Threads:          1,
		LogLevel:         "INFO",
		PostProcess:      true,
	}
}

// LoadYAML overlays settings from a YAML file onto c.
func (c *Config) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.IOFailed, "failed to read config file"),
			errors.Fields{"path": path},
		)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to parse config file"),
			errors.Fields{"path": path},
		)
	}
	return nil
}

// Validate checks field constraints and cross-field consistency.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}
	// CurrentBatch > Batches is tolerated: only CurrentBatch mod Batches
	// matters, see InBatch.
	return nil
}

// InBatch reports whether the problem at the given suite index belongs to
// the current batch. Indices are partitioned by index mod Batches, so for
// any (i, n) every index lands in exactly one batch and batch=9/8 selects
// the same partition as batch=1/8.
func (c *Config) InBatch(index int) bool {
	if c.Batches <= 1 {
		return true
	}
	return index%c.Batches == c.CurrentBatch%c.Batches
}

// ResultFolder derives the output folder name from the solver identity,
// the budget multiplier and the suite name, with a batch suffix when
// running more than one batch.
func (c *Config) ResultFolder(solverName, solverModule string) string {
	folder := fmt.Sprintf("%s%s_of_%s_%dD_on_%s",
		c.OutputFolder, solverName, solverModule, int(c.BudgetMultiplier), c.SuiteName)
	if c.Batches > 1 {
		folder += fmt.Sprintf("_batch%03dof%d", c.CurrentBatch, c.Batches)
	}
	return folder
}

// StoppingsPath is the results file rewritten after every finished problem.
func (c *Config) StoppingsPath(solverName, solverModule string) string {
	return c.ResultFolder(solverName, solverModule) + "_stopping_conditions.pydict"
}
