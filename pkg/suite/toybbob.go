package suite

var (
	toyDimensions = []int{2, 3, 5, 10, 20, 40}
	toyInstances  = 5
)

func init() {
	Register("toy-bbob", buildToyBBOB)
}

// buildToyBBOB assembles the built-in suite: every function crossed with
// the instance and dimension grids, ordered with dimension outermost so
// runs progress from cheap to expensive problems.
func buildToyBBOB(filter string) (*Suite, error) {
	f, err := ParseFilter(filter)
	if err != nil {
		return nil, err
	}

	s := &Suite{name: "toy-bbob"}
	index := 0
	for _, dim := range toyDimensions {
		if !f.allowsDimension(dim) {
			continue
		}
		for fnIndex, fn := range toyFunctions {
			if !f.allowsFunction(fnIndex + 1) {
				continue
			}
			for instance := 1; instance <= toyInstances; instance++ {
				if !f.allowsInstance(instance) {
					continue
				}
				s.problems = append(s.problems,
					newBenchmarkProblem(s.name, index, fnIndex+1, instance, dim, fn))
				index++
			}
		}
	}
	return s, nil
}
