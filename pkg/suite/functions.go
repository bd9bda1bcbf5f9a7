package suite

import "math"

// Function is an objective in canonical form: minimum value zero at the
// origin. Instances shift the optimum, see benchmarkProblem.
type Function struct {
	Name string
	Eval func(z []float64) float64
}

// toyFunctions are the built-in test functions, ordered by function index.
// The selection mirrors the classic single-objective suites: separable,
// ill-conditioned and multimodal landscapes.
var toyFunctions = []Function{
	{Name: "sphere", Eval: sphere},
	{Name: "ellipsoid", Eval: ellipsoid},
	{Name: "rastrigin", Eval: rastrigin},
	{Name: "rosenbrock", Eval: rosenbrock},
	{Name: "schaffers", Eval: schaffers},
	{Name: "different-powers", Eval: differentPowers},
}

func sphere(z []float64) float64 {
	s := 0.0
	for _, v := range z {
		s += v * v
	}
	return s
}

// ellipsoid with condition number 1e6.
func ellipsoid(z []float64) float64 {
	n := len(z)
	if n == 1 {
		return z[0] * z[0]
	}
	s := 0.0
	for i, v := range z {
		s += math.Pow(1e6, float64(i)/float64(n-1)) * v * v
	}
	return s
}

func rastrigin(z []float64) float64 {
	s := 10.0 * float64(len(z))
	for _, v := range z {
		s += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return s
}

// rosenbrock in canonical form: the banana valley's optimum is moved to
// the origin.
func rosenbrock(z []float64) float64 {
	s := 0.0
	for i := 0; i+1 < len(z); i++ {
		a := z[i] + 1
		b := z[i+1] + 1
		s += 100*(a*a-b)*(a*a-b) + (a-1)*(a-1)
	}
	return s
}

// schaffers F7, canonical form.
func schaffers(z []float64) float64 {
	if len(z) == 1 {
		return math.Abs(z[0])
	}
	s := 0.0
	for i := 0; i+1 < len(z); i++ {
		si := math.Sqrt(z[i]*z[i] + z[i+1]*z[i+1])
		term := math.Sqrt(si) + math.Sqrt(si)*sq(math.Sin(50*math.Pow(si, 0.2)))
		s += term
	}
	s /= float64(len(z) - 1)
	return s * s
}

func differentPowers(z []float64) float64 {
	n := len(z)
	s := 0.0
	for i, v := range z {
		p := 2.0
		if n > 1 {
			p = 2 + 4*float64(i)/float64(n-1)
		}
		s += math.Pow(math.Abs(v), p)
	}
	return math.Sqrt(s)
}

func sq(v float64) float64 { return v * v }
