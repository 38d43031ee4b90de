package sqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/sqpcore/config"
	"github.com/curioloop/sqpcore/nlpfunc"
	"github.com/curioloop/sqpcore/qp/activeset"
	"github.com/curioloop/sqpcore/sparse"
)

// quadraticProblem builds f(x) = 1/2 x^T x - b^T x, unconstrained, exact
// identity Hessian -- concrete scenario 1 from the spec's testable
// properties.
func quadraticProblem(b []float64) *nlpfunc.Problem {
	n := len(b)
	hsp := sparse.DenseSymmetric(n)
	asp := sparse.DensePattern(0, n)

	fg := func(x, p []float64, f *float64, g []float64) bool {
		sum := 0.0
		for i, xi := range x {
			sum += 0.5*xi*xi - b[i]*xi
		}
		*f = sum
		return true
	}
	jacFG := func(x, p []float64, f *float64, gradF, g, jac []float64) bool {
		sum := 0.0
		for i, xi := range x {
			sum += 0.5*xi*xi - b[i]*xi
			gradF[i] = xi - b[i]
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

	return &nlpfunc.Problem{
		NX: n, NG: 0, Asp: asp, Hsp: hsp,
		FG: fg, JacFG: jacFG, HessL: hessL,
	}
}

func looseBounds(n int) (lb, ub []float64) {
	lb, ub = make([]float64, n), make([]float64, n)
	for i := range lb {
		lb[i], ub[i] = -1e21, 1e21
	}
	return
}

func TestUnconstrainedQuadraticConvergesInOneIteration(t *testing.T) {
	prob := quadraticProblem([]float64{1, 2})
	opts := config.Default()

	driver, err := New(prob, activeset.Factory, opts, nil, nil)
	require.NoError(t, err)

	lb, ub := looseBounds(2)
	res, err := driver.Solve([]float64{0, 0}, nil, Bounds{LBX: lb, UBX: ub}, nil)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, StatusSolveSucceeded, res.Status)
	assert.Equal(t, 1, res.IterCount)
	assert.InDelta(t, 1.0, res.X[0], 1e-8)
	assert.InDelta(t, 2.0, res.X[1], 1e-8)
	assert.Less(t, res.DuInf, 1e-10)
}

func TestBoxConstrainedLinear(t *testing.T) {
	n := 1
	hsp := sparse.DenseSymmetric(n)
	asp := sparse.DensePattern(0, n)

	fg := func(x, p []float64, f *float64, g []float64) bool {
		*f = -x[0]
		return true
	}
	jacFG := func(x, p []float64, f *float64, gradF, g, jac []float64) bool {
		*f = -x[0]
		gradF[0] = -1
		return true
	}
	hessL := func(x, p []float64, sigmaF float64, lamG, hess []float64) bool {
		// Exactly zero curvature; regularize so the QP stays solvable.
		hess[0] = 1e-8
		return true
	}

	prob := &nlpfunc.Problem{NX: n, NG: 0, Asp: asp, Hsp: hsp, FG: fg, JacFG: jacFG, HessL: hessL}
	opts := config.Default()
	opts.MaxIter = 20

	driver, err := New(prob, activeset.Factory, opts, nil, nil)
	require.NoError(t, err)

	res, err := driver.Solve([]float64{0.5}, nil, Bounds{LBX: []float64{0}, UBX: []float64{1}}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.InDelta(t, 1.0, res.X[0], 1e-4)
}

func TestMaxIterCutoffReportsLimit(t *testing.T) {
	// Rosenbrock-like nonlinearity: objective keeps moving for many
	// iterations, so a tight max_iter should trip the LIMIT state.
	hsp := sparse.DenseSymmetric(2)
	asp := sparse.DensePattern(0, 2)

	fg := func(x, p []float64, f *float64, g []float64) bool {
		a, b := 1-x[0], x[1]-x[0]*x[0]
		*f = a*a + 100*b*b
		return true
	}
	jacFG := func(x, p []float64, f *float64, gradF, g, jac []float64) bool {
		a, b := 1-x[0], x[1]-x[0]*x[0]
		*f = a*a + 100*b*b
		gradF[0] = -2*a - 400*x[0]*b
		gradF[1] = 200 * b
		return true
	}
	hessL := func(x, p []float64, sigmaF float64, lamG, hess []float64) bool {
		hess[hsp.At(0, 0)] = sigmaF * (2 - 400*(x[1]-3*x[0]*x[0]))
		hess[hsp.At(1, 1)] = sigmaF * 200
		hess[hsp.At(0, 1)] = sigmaF * -400 * x[0]
		hess[hsp.At(1, 0)] = sigmaF * -400 * x[0]
		return true
	}

	prob := &nlpfunc.Problem{NX: 2, NG: 0, Asp: asp, Hsp: hsp, FG: fg, JacFG: jacFG, HessL: hessL}
	opts := config.Default()
	opts.MaxIter = 2
	opts.Regularize = true

	driver, err := New(prob, activeset.Factory, opts, nil, nil)
	require.NoError(t, err)

	lb, ub := looseBounds(2)
	res, err := driver.Solve([]float64{-1.2, 1.0}, nil, Bounds{LBX: lb, UBX: ub}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, StatusMaxIterExceeded, res.Status)
	assert.Equal(t, UnifiedLimited, res.Unified)
	assert.Equal(t, 2, res.IterCount)
}

func TestUserCallbackStopsSolve(t *testing.T) {
	prob := quadraticProblem([]float64{1, 2})
	opts := config.Default()

	driver, err := New(prob, activeset.Factory, opts, nil, nil)
	require.NoError(t, err)

	lb, ub := looseBounds(2)
	calls := 0
	res, err := driver.Solve([]float64{0, 0}, nil, Bounds{LBX: lb, UBX: ub}, func(iter int, prInf, duInf, dxInf float64) bool {
		calls++
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, StatusUserStop, res.Status)
	assert.False(t, res.Success)
	assert.Equal(t, 1, calls)
}
