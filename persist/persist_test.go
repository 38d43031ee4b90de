package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/sqpcore/config"
	"github.com/curioloop/sqpcore/sparse"
)

func TestRoundTrip(t *testing.T) {
	opts := config.Default()
	opts.QPSol = "activeset"
	opts.HessianApproximation = config.HessianLimitedMemory
	opts.MaxIter = 25

	hsp := sparse.DenseSymmetric(3)
	asp := sparse.DensePattern(2, 3)

	out, err := Marshal(opts, hsp, asp)
	require.NoError(t, err)

	gotOpts, gotHsp, gotAsp, err := Unmarshal(out)
	require.NoError(t, err)

	assert.Equal(t, opts.QPSol, gotOpts.QPSol)
	assert.Equal(t, opts.HessianApproximation, gotOpts.HessianApproximation)
	assert.Equal(t, opts.MaxIter, gotOpts.MaxIter)
	assert.Equal(t, opts.MeritMemory, gotOpts.MeritMemory)
	assert.Equal(t, hsp, gotHsp)
	assert.Equal(t, asp, gotAsp)
}

func TestUnmarshalRejectsUnknownSchema(t *testing.T) {
	_, _, _, err := Unmarshal([]byte("schema: Other\nversion: 1\n"))
	assert.Error(t, err)
}

func TestUnmarshalRejectsFutureVersion(t *testing.T) {
	_, _, _, err := Unmarshal([]byte("schema: Sqpmethod\nversion: 2\n"))
	assert.Error(t, err)
}
