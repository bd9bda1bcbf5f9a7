// Package cocobench is a benchmarking harness for numerical black-box
// optimizers. It drives a solver across a suite of synthetic test problems,
// applying independent restarts with a growing population-size hint until a
// per-problem evaluation budget is exhausted or the problem's final target
// is hit.
//
// The harness records one termination-condition set per restart, keeps
// per-evaluation timing samples grouped by problem dimension, and rewrites
// its results file after every finished problem so an interrupted run loses
// at most the problem in flight. When running as a single batch it can hand
// the result folder to an external post-processing tool and open the
// generated report in a browser.
//
// Key components:
//
//   - Suite: named, ordered collections of benchmark problems. Problems
//     expose a dimension, evaluation counters, bounds and a final-target
//     flag; the built-in toy-bbob suite provides classic test functions
//     across shifted instances and a range of dimensions.
//
//   - Solvers: the optimizer interface plus reference implementations
//     (random search and a small Gaussian evolution strategy). Solvers
//     honor an exact evaluation budget and a population-size hint.
//
//   - Bench: the experiment driver. Restart scheduling, budget accounting,
//     batch partitioning for distributed offline runs, progress printing
//     and results persistence.
//
//   - Archive: optional SQLite archive of stopping records and timing
//     statistics, keyed by a per-run identifier.
//
// Experiments are configured through name=value command-line assignments,
// mirroring the conventions of the COCO/BBOB experiment scripts:
//
//	cocobench budget_multiplier=3
//	cocobench budget_multiplier=1e4 suite_name=toy-bbob
//	cocobench budget_multiplier=1000 batch=1/16
//
// For details see the cocobench command under cmd/cocobench.
package cocobench
