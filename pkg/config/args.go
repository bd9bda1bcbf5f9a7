package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
)

// Literal is one parsed command-line value. Exactly one of the fields is
// meaningful, discriminated by Kind.
type Literal struct {
	Kind   LiteralKind
	Number float64
	Int    int64
	Str    string
	Bool   bool
}

type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralString
	LiteralBool
)

// ParseLiteral interprets a command-line value the way the Python example
// scripts do: as a single literal. Integers, floats (including scientific
// notation), quoted strings, True/False and None are recognized; anything
// else falls back to a bare string, which keeps shell invocations like
// suite_name=toy-bbob free of nested quoting.
func ParseLiteral(s string) Literal {
	switch s {
	case "None":
		return Literal{Kind: LiteralNone}
	case "True":
		return Literal{Kind: LiteralBool, Bool: true}
	case "False":
		return Literal{Kind: LiteralBool, Bool: false}
	}

	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return Literal{Kind: LiteralString, Str: s[1 : len(s)-1]}
		}
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Literal{Kind: LiteralInt, Int: i, Number: float64(i)}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Literal{Kind: LiteralFloat, Number: f}
	}

	return Literal{Kind: LiteralString, Str: s}
}

func (l Literal) asInt(name string) (int, error) {
	switch l.Kind {
	case LiteralInt:
		return int(l.Int), nil
	case LiteralFloat:
		// 1e3 style assignments are common for counters
		if l.Number == float64(int64(l.Number)) {
			return int(l.Number), nil
		}
	}
	return 0, errors.WithFields(
		errors.New(errors.InvalidInput, "expected an integer value"),
		errors.Fields{"name": name},
	)
}

func (l Literal) asFloat(name string) (float64, error) {
	if l.Kind == LiteralInt || l.Kind == LiteralFloat {
		return l.Number, nil
	}
	return 0, errors.WithFields(
		errors.New(errors.InvalidInput, "expected a numeric value"),
		errors.Fields{"name": name},
	)
}

func (l Literal) asString(name string) (string, error) {
	if l.Kind == LiteralString {
		return l.Str, nil
	}
	return "", errors.WithFields(
		errors.New(errors.InvalidInput, "expected a string value"),
		errors.Fields{"name": name},
	)
}

// ApplyArgs consumes name=value assignment tokens and updates c in place.
// The special token batch=i/n sets CurrentBatch and Batches together.
// Unknown names or malformed values are fatal.
func (c *Config) ApplyArgs(args []string) error {
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found {
			return errors.WithFields(
				errors.New(errors.InvalidInput, "arguments must have the form name=value"),
				errors.Fields{"argument": arg},
			)
		}

		if name == "batch" {
			if err := c.applyBatch(value); err != nil {
				return err
			}
			continue
		}

		if err := c.applyAssignment(name, ParseLiteral(value)); err != nil {
			return err
		}
	}
	return nil
}

// applyBatch handles batch=i/n, assigning both the current batch number and
// the batch count.
func (c *Config) applyBatch(value string) error {
	cur, total, found := strings.Cut(value, "/")
	if !found {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "batch must have the form batch=i/n"),
			errors.Fields{"value": value},
		)
	}
	i, err1 := strconv.Atoi(cur)
	n, err2 := strconv.Atoi(total)
	if err1 != nil || err2 != nil || i < 1 || n < 1 {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "batch numbers must be positive integers"),
			errors.Fields{"value": value},
		)
	}
	c.CurrentBatch = i
	c.Batches = n
	return nil
}

func (c *Config) applyAssignment(name string, lit Literal) error {
	var err error
	switch name {
	case "solver", "fmin":
		c.Solver, err = lit.asString(name)
	case "suite_name":
		c.SuiteName, err = lit.asString(name)
	case "suite_filter_options":
		c.SuiteFilterOptions, err = lit.asString(name)
	case "budget_multiplier":
		c.BudgetMultiplier, err = lit.asFloat(name)
	case "batches":
		c.Batches, err = lit.asInt(name)
	case "current_batch":
		c.CurrentBatch, err = lit.asInt(name)
	case "output_folder":
		c.OutputFolder, err = lit.asString(name)
	case "max_restarts":
		c.MaxRestarts, err = lit.asInt(name)
	case "popsize_growth":
		c.PopsizeGrowth, err = lit.asFloat(name)
	case "threads":
		c.Threads, err = lit.asInt(name)
	case "archive_path":
		c.ArchivePath, err = lit.asString(name)
	case "timings_file":
		c.TimingsFile, err = lit.asString(name)
	case "log_level":
		c.LogLevel, err = lit.asString(name)
	case "seed":
		var seed int
		seed, err = lit.asInt(name)
		c.Seed = int64(seed)
	case "cocopp", "post_process":
		// cocopp=None omits post-processing, as in the original scripts
		switch lit.Kind {
		case LiteralNone:
			c.PostProcess = false
		case LiteralBool:
			c.PostProcess = lit.Bool
		default:
			err = errors.WithFields(
				errors.New(errors.InvalidInput, "expected None, True or False"),
				errors.Fields{"name": name},
			)
		}
	default:
		return errors.WithFields(
			errors.New(errors.InvalidInput, fmt.Sprintf("unknown parameter %q", name)),
			errors.Fields{"name": name},
		)
	}
	return err
}
