// Command cocobench runs a registered solver on a registered benchmark
// suite and writes the results for post-processing.
//
// All experiment parameters are overridable as name=value arguments:
//
//	cocobench budget_multiplier=3                 # quick test run
//	cocobench budget_multiplier=1e4 cocopp=None   # run without post-processing
//	cocobench budget_multiplier=1e4 batches=16 batch=1
//
// A batched experiment is distributed by launching one process per batch
// value; each process works a disjoint part of the suite and writes into
// its own result folder.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/cocobench/pkg/archive"
	"github.com/XiaoConstantine/cocobench/pkg/bench"
	"github.com/XiaoConstantine/cocobench/pkg/config"
	"github.com/XiaoConstantine/cocobench/pkg/logging"
	"github.com/XiaoConstantine/cocobench/pkg/numenv"
	"github.com/XiaoConstantine/cocobench/pkg/postproc"
	"github.com/XiaoConstantine/cocobench/pkg/solvers"
	"github.com/XiaoConstantine/cocobench/pkg/suite"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cocobench [name=value ...]",
	Short: "Benchmark an optimizer on a synthetic problem suite",
	Long: `cocobench benchmarks a registered solver on a registered problem suite
with independent restarts under a dimension-proportional evaluation budget,
and records the stopping conditions of every solver invocation.

Examples:
  cocobench budget_multiplier=3                 # quick test run
  cocobench budget_multiplier=1e4 cocopp=None   # without post-processing
  cocobench budget_multiplier=1e4 batches=16 batch=1
  cocobench solver=random-search "suite_filter_options=dimensions: 2,3"

Any configuration field can be set as name=value; values are parsed as
literals (1e4, True, None, 'quoted string'). batch=i/n is shorthand for
current_batch=i batches=n.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file, overlaid before name=value arguments")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg := config.Default()
	if configFile != "" {
		if err := cfg.LoadYAML(configFile); err != nil {
			return err
		}
	}
	if err := cfg.ApplyArgs(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.LogLevel),
		Outputs:  []logging.Output{logging.NewConsoleOutput(true)},
	})
	logging.SetLogger(logger)

	if err := numenv.SetNumThreads(ctx, cfg.Threads, logger); err != nil {
		return err
	}

	solver, err := solvers.New(cfg.Solver)
	if err != nil {
		logger.Error(ctx, "known solvers: %v", solvers.Names())
		return err
	}
	problems, err := suite.New(cfg.SuiteName, cfg.SuiteFilterOptions)
	if err != nil {
		logger.Error(ctx, "known suites: %v", suite.Names())
		return err
	}

	observer, err := bench.NewFolderObserver(cfg.ResultFolder(solver.Name(), solver.Module()))
	if err != nil {
		return err
	}

	runner := &bench.Runner{
		Config:   cfg,
		Suite:    problems,
		Solver:   solver,
		Observer: observer,
		Logger:   logger,
	}
	if cfg.ArchivePath != "" {
		store, err := archive.New(cfg.ArchivePath)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info(ctx, "archiving results to %s (run %s)", cfg.ArchivePath, store.RunID())
		runner.Recorder = store
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", color.GreenString("results written to"), report.ResultFolder)
	fmt.Printf("%s %s\n", color.GreenString("stopping conditions in"), report.StoppingsPath)

	if cfg.Batches > 1 {
		logger.Info(ctx, "*** batch %d of %d done, post-process after all batches ***",
			cfg.CurrentBatch, cfg.Batches)
		return nil
	}
	if !cfg.PostProcess {
		return nil
	}
	return postProcess(ctx, logger, report.ResultFolder)
}

// postProcess generates the report for the finished run and opens it in
// the browser. A missing cocopp installation only skips this step.
func postProcess(ctx context.Context, logger *logging.Logger, resultFolder string) error {
	tool, ok := postproc.Find()
	if !ok {
		logger.Warn(ctx, "cocopp not found, skipping post-processing")
		return nil
	}
	if err := tool.Run(ctx, resultFolder); err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	index := "file://" + filepath.Join(cwd, "ppdata", "index.html")
	if err := postproc.OpenBrowser(index); err != nil {
		logger.Warn(ctx, "could not open browser: %v", err)
	}
	return nil
}
