package cmd

import (
	"sort"

	"github.com/curioloop/sqpcore/config"
	"github.com/curioloop/sqpcore/nlpfunc"
	"github.com/curioloop/sqpcore/sparse"
	"github.com/curioloop/sqpcore/sqp"
)

// scenario names and builds one of the spec's six testable scenarios: the
// NLP problem, the starting point, its bounds, and any option overrides
// (e.g. max_iter or max_iter_ls) the scenario calls for.
type scenario struct {
	build func() (*nlpfunc.Problem, []float64, sqp.Bounds, func(*config.Options))
}

func looseBounds(n int) (lb, ub []float64) {
	lb, ub = make([]float64, n), make([]float64, n)
	for i := range lb {
		lb[i], ub[i] = -1e21, 1e21
	}
	return
}

func quadraticProblem(b []float64) *nlpfunc.Problem {
	n := len(b)
	hsp := sparse.DenseSymmetric(n)
	asp := sparse.DensePattern(0, n)
	jacFG := func(x, p []float64, f *float64, gradF, g, jac []float64) bool {
		sum := 0.0
		for i, xi := range x {
			sum += 0.5*xi*xi - b[i]*xi
			gradF[i] = xi - b[i]
		}
		*f = sum
		return true
	}
	fg := func(x, p []float64, f *float64, g []float64) bool {
		sum := 0.0
		for i, xi := range x {
			sum += 0.5*xi*xi - b[i]*xi
		}
		*f = sum
		return true
	}
	hessL := func(x, p []float64, sigmaF float64, lamG, hess []float64) bool {
		for i := 0; i < n; i++ {
			hess[hsp.At(i, i)] = sigmaF
		}
		return true
	}
	return &nlpfunc.Problem{NX: n, NG: 0, Asp: asp, Hsp: hsp, FG: fg, JacFG: jacFG, HessL: hessL}
}

func rosenbrockProblem() *nlpfunc.Problem {
	hsp := sparse.DenseSymmetric(2)
	asp := sparse.DensePattern(0, 2)
	eval := func(x []float64) (f, g0, g1 float64) {
		a, b := 1-x[0], x[1]-x[0]*x[0]
		f = a*a + 100*b*b
		g0 = -2*a - 400*x[0]*b
		g1 = 200 * b
		return
	}
	fg := func(x, p []float64, f *float64, g []float64) bool {
		*f, _, _ = eval(x)
		return true
	}
	jacFG := func(x, p []float64, f *float64, gradF, g, jac []float64) bool {
		var g0, g1 float64
		*f, g0, g1 = eval(x)
		gradF[0], gradF[1] = g0, g1
		return true
	}
	hessL := func(x, p []float64, sigmaF float64, lamG, hess []float64) bool {
		hess[hsp.At(0, 0)] = sigmaF * (2 - 400*(x[1]-3*x[0]*x[0]))
		hess[hsp.At(1, 1)] = sigmaF * 200
		hess[hsp.At(0, 1)] = sigmaF * -400 * x[0]
		hess[hsp.At(1, 0)] = sigmaF * -400 * x[0]
		return true
	}
	return &nlpfunc.Problem{NX: 2, NG: 0, Asp: asp, Hsp: hsp, FG: fg, JacFG: jacFG, HessL: hessL}
}

// infeasibleProblem encodes min x subject to x >= 1, x <= 0 as bound
// constraints on the single variable -- concrete scenario 4.
func infeasibleProblem() *nlpfunc.Problem {
	hsp := sparse.DenseSymmetric(1)
	asp := sparse.DensePattern(0, 1)
	fg := func(x, p []float64, f *float64, g []float64) bool {
		*f = x[0]
		return true
	}
	jacFG := func(x, p []float64, f *float64, gradF, g, jac []float64) bool {
		*f = x[0]
		gradF[0] = 1
		return true
	}
	hessL := func(x, p []float64, sigmaF float64, lamG, hess []float64) bool {
		hess[0] = 1e-6 * sigmaF
		return true
	}
	return &nlpfunc.Problem{NX: 1, NG: 0, Asp: asp, Hsp: hsp, FG: fg, JacFG: jacFG, HessL: hessL}
}

var scenarios = map[string]scenario{
	"quadratic": {build: func() (*nlpfunc.Problem, []float64, sqp.Bounds, func(*config.Options)) {
		lb, ub := looseBounds(2)
		return quadraticProblem([]float64{1, 2}), []float64{0, 0}, sqp.Bounds{LBX: lb, UBX: ub}, nil
	}},
	"box": {build: func() (*nlpfunc.Problem, []float64, sqp.Bounds, func(*config.Options)) {
		return quadraticProblem([]float64{2}), []float64{0.5}, sqp.Bounds{LBX: []float64{0}, UBX: []float64{1}}, nil
	}},
	"rosenbrock": {build: func() (*nlpfunc.Problem, []float64, sqp.Bounds, func(*config.Options)) {
		lb, ub := looseBounds(2)
		return rosenbrockProblem(), []float64{-1.2, 1.0}, sqp.Bounds{LBX: lb, UBX: ub}, func(o *config.Options) {
			o.Regularize = true
		}
	}},
	"infeasible": {build: func() (*nlpfunc.Problem, []float64, sqp.Bounds, func(*config.Options)) {
		return infeasibleProblem(), []float64{0.5}, sqp.Bounds{LBX: []float64{1}, UBX: []float64{0}}, nil
	}},
	"maxiter": {build: func() (*nlpfunc.Problem, []float64, sqp.Bounds, func(*config.Options)) {
		lb, ub := looseBounds(2)
		return rosenbrockProblem(), []float64{-1.2, 1.0}, sqp.Bounds{LBX: lb, UBX: ub}, func(o *config.Options) {
			o.Regularize = true
			o.MaxIter = 2
		}
	}},
	"nolinesearch": {build: func() (*nlpfunc.Problem, []float64, sqp.Bounds, func(*config.Options)) {
		lb, ub := looseBounds(2)
		return quadraticProblem([]float64{1, 2}), []float64{0, 0}, sqp.Bounds{LBX: lb, UBX: ub}, func(o *config.Options) {
			o.MaxIterLS = 0
		}
	}},
}

// scenarioNames returns the available scenario names in sorted order, used
// both to validate --scenario and to print usage.
func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
