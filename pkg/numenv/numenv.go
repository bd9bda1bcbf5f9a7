// Package numenv pins external numeric libraries to a fixed number of
// computation threads. The harness itself is strictly single-threaded; the
// pinning only keeps per-evaluation timing comparable across machines and
// runs when solvers link against threaded BLAS implementations.
package numenv

import (
	"context"
	"os"
	"runtime"
	"strconv"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
	"github.com/XiaoConstantine/cocobench/pkg/logging"
)

// threadVars are the environment switches honored by the common numeric
// backends (OpenBLAS, numexpr, OpenMP, MKL).
var threadVars = []string{
	"OPENBLAS_NUM_THREADS",
	"NUMEXPR_NUM_THREADS",
	"OMP_NUM_THREADS",
	"MKL_NUM_THREADS",
}

// SetNumThreads requests n computation threads from external numeric
// libraries. Must run once at process start, before any such library
// initializes its thread pool. Skipped on darwin and windows, matching the
// classic experiment scripts.
func SetNumThreads(ctx context.Context, n int, logger *logging.Logger) error {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		logger.Debug(ctx, "thread pinning skipped on %s", runtime.GOOS)
		return nil
	}
	if err := applyThreadEnv(n); err != nil {
		return err
	}
	logger.Info(ctx, "setting numeric library threads to %d", n)
	return nil
}

func applyThreadEnv(n int) error {
	value := strconv.Itoa(n)
	for _, name := range threadVars {
		if err := os.Setenv(name, value); err != nil {
			return errors.WithFields(
				errors.Wrap(err, errors.Unknown, "failed to set environment variable"),
				errors.Fields{"name": name},
			)
		}
	}
	return nil
}
