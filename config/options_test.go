package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curioloop/sqpcore/sparse"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateCatchesOutOfRangeOptions(t *testing.T) {
	cases := []func(*Options){
		func(o *Options) { o.QPSol = "" },
		func(o *Options) { o.MaxIter = 0 },
		func(o *Options) { o.MinIter = -1 },
		func(o *Options) { o.MinIter = o.MaxIter + 1 },
		func(o *Options) { o.MaxIterLS = -1 },
		func(o *Options) { o.TolPr = 0 },
		func(o *Options) { o.C1 = 1 },
		func(o *Options) { o.Beta = 0 },
		func(o *Options) { o.MeritMemory = 0 },
		func(o *Options) { o.LBFGSMemory = 0 },
		func(o *Options) { o.MinStepSize = 0 },
	}
	for _, mutate := range cases {
		o := Default()
		mutate(&o)
		assert.Error(t, o.Validate())
	}
}

func TestHessianApproximationString(t *testing.T) {
	assert.Equal(t, "exact", HessianExact.String())
	assert.Equal(t, "limited-memory", HessianLimitedMemory.String())
}

func TestNewLayoutDerivesCounts(t *testing.T) {
	hsp := sparse.DenseSymmetric(3)
	asp := sparse.DensePattern(2, 3)
	l := NewLayout(3, 2, hsp, asp, Default())
	assert.Equal(t, 3, l.NX)
	assert.Equal(t, 2, l.NG)
	assert.Equal(t, 9, l.NNZHessian)
	assert.Equal(t, 6, l.NNZJacobian)
	assert.Equal(t, 4, l.MeritMemory)
	assert.Greater(t, l.StateFloats(), 0)
}
