package nlpfunc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curioloop/sqpcore/sparse"
)

func TestProblemForwardsToCallables(t *testing.T) {
	var gotX []float64
	p := &Problem{
		NX: 2, NG: 1,
		Hsp: sparse.DenseSymmetric(2), Asp: sparse.DensePattern(1, 2),
		FG: func(x, param []float64, f *float64, g []float64) bool {
			gotX = x
			*f = x[0] + x[1]
			g[0] = x[0] - x[1]
			return true
		},
		JacFG: func(x, param []float64, f *float64, gradF, g, jac []float64) bool {
			*f = x[0] + x[1]
			gradF[0], gradF[1] = 1, 1
			g[0] = x[0] - x[1]
			jac[0], jac[1] = 1, -1
			return true
		},
		HessL: func(x, param []float64, sigmaF float64, lamG, hess []float64) bool {
			hess[0], hess[1], hess[2], hess[3] = sigmaF, 0, 0, sigmaF
			return true
		},
	}

	var f float64
	g := make([]float64, 1)
	ok := p.EvalFG([]float64{3, 1}, nil, &f, g)
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)
	assert.Equal(t, 2.0, g[0])
	assert.Equal(t, []float64{3, 1}, gotX)

	gradF := make([]float64, 2)
	jac := make([]float64, 2)
	ok = p.EvalJacFG([]float64{3, 1}, nil, &f, gradF, g, jac)
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 1}, gradF)
	assert.Equal(t, []float64{1, -1}, jac)

	hess := make([]float64, 4)
	ok = p.EvalHessL([]float64{3, 1}, nil, 1, nil, hess)
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 0, 0, 1}, hess)
}

func TestProblemNilCallablesFailClosed(t *testing.T) {
	p := &Problem{NX: 1, NG: 0}
	var f float64
	assert.False(t, p.EvalFG([]float64{0}, nil, &f, nil))
	assert.False(t, p.EvalJacFG([]float64{0}, nil, &f, nil, nil, nil))
	assert.False(t, p.EvalHessL([]float64{0}, nil, 1, nil, nil))
	// Grad is the one callable that succeeds vacuously when absent, since
	// the spec allows any of its output slots to be null.
	assert.True(t, p.EvalGrad([]float64{0}, nil, 1, nil, nil, nil, nil, nil))
}
