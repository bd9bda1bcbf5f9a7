package suite

import (
	"strconv"
	"strings"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
)

// Filter restricts a suite to a subset of functions, instances and
// dimensions. Zero-length slices mean "no restriction".
type Filter struct {
	FunctionIndices []int // 1-based
	InstanceIndices []int // 1-based
	Dimensions      []int
}

// ParseFilter parses a filter-option string of the form
//
//	"dimensions: 2,3,5,10,20 instance_indices: 1-5 function_indices: 1,3"
//
// Keys may appear in any order; values are comma-separated integers or
// dash ranges.
func ParseFilter(s string) (Filter, error) {
	var f Filter
	fields := strings.Fields(s)

	i := 0
	for i < len(fields) {
		key, ok := strings.CutSuffix(fields[i], ":")
		if !ok {
			return Filter{}, errors.WithFields(
				errors.New(errors.InvalidInput, "filter key must end in ':'"),
				errors.Fields{"key": fields[i]},
			)
		}
		if i+1 >= len(fields) {
			return Filter{}, errors.WithFields(
				errors.New(errors.InvalidInput, "filter key without values"),
				errors.Fields{"key": key},
			)
		}
		values, err := parseIndexList(fields[i+1])
		if err != nil {
			return Filter{}, errors.WithFields(
				errors.Wrap(err, errors.InvalidInput, "bad filter values"),
				errors.Fields{"key": key},
			)
		}
		switch key {
		case "dimensions":
			f.Dimensions = values
		case "instance_indices":
			f.InstanceIndices = values
		case "function_indices":
			f.FunctionIndices = values
		default:
			return Filter{}, errors.WithFields(
				errors.New(errors.InvalidInput, "unknown filter key"),
				errors.Fields{"key": key},
			)
		}
		i += 2
	}
	return f, nil
}

func parseIndexList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		if lo, hi, found := strings.Cut(part, "-"); found {
			a, err1 := strconv.Atoi(lo)
			b, err2 := strconv.Atoi(hi)
			if err1 != nil || err2 != nil || a > b {
				return nil, errors.New(errors.InvalidInput, "bad range "+part)
			}
			for v := a; v <= b; v++ {
				out = append(out, v)
			}
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.New(errors.InvalidInput, "bad index "+part)
		}
		out = append(out, v)
	}
	return out, nil
}

func (f Filter) allowsDimension(d int) bool { return allows(f.Dimensions, d) }
func (f Filter) allowsInstance(i int) bool  { return allows(f.InstanceIndices, i) }
func (f Filter) allowsFunction(fi int) bool { return allows(f.FunctionIndices, fi) }

func allows(set []int, v int) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
