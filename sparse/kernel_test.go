package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxpyScalDot(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{4, 5, 6}
	Axpy(2, x, y)
	assert.Equal(t, []float64{6, 9, 12}, y)

	Scal(0.5, y)
	assert.Equal(t, []float64{3, 4.5, 6}, y)

	assert.Equal(t, 1*3+2*4.5+3*6, Dot(x, y))
}

func TestNormInfAndMaxViol(t *testing.T) {
	x := []float64{-1, 4, -7, 2}
	assert.Equal(t, 7.0, NormInf(x))

	z := []float64{0.5, 2.5, -1.0}
	lb := []float64{0, 0, 0}
	ub := []float64{1, 1, 1}
	assert.Equal(t, 1.5, MaxViol(z, lb, ub))
}

func TestVFMax(t *testing.T) {
	assert.Equal(t, 5.0, VFMax([]float64{1, 5, -2}, 0))
	assert.Equal(t, 10.0, VFMax([]float64{1, 5, -2}, 10))
}

func TestFillCopyZero(t *testing.T) {
	v := make([]float64, 4)
	Fill(v, 3)
	assert.Equal(t, []float64{3, 3, 3, 3}, v)
	Zero(v)
	assert.Equal(t, []float64{0, 0, 0, 0}, v)

	dst := make([]float64, 4)
	Copy([]float64{1, 2, 3}, dst)
	assert.Equal(t, []float64{1, 2, 3, 0}, dst)
}

func TestSparseMVDenseMatchesDenseFallback(t *testing.T) {
	// A is 2x3 stored column-major dense.
	A := []float64{
		1, 4, // col 0
		2, 5, // col 1
		3, 6, // col 2
	}
	sp := DensePattern(2, 3)
	x := []float64{1, 1, 1}
	y := make([]float64, 2)
	SparseMV(A, sp, x, y, false)
	assert.Equal(t, []float64{6, 15}, y)

	yt := make([]float64, 3)
	SparseMV(A, sp, []float64{1, 1}, yt, true)
	assert.Equal(t, []float64{5, 7, 9}, yt)
}

func TestSparseMVCompressedColumn(t *testing.T) {
	// 2x2 matrix [[2,0],[0,3]] stored sparse.
	sp := Pattern{
		Rows: 2, Cols: 2,
		ColPtr: []int{0, 1, 2},
		RowIdx: []int{0, 1},
	}
	A := []float64{2, 3}
	y := make([]float64, 2)
	SparseMV(A, sp, []float64{1, 1}, y, false)
	assert.Equal(t, []float64{2, 3}, y)
}

func TestBilinear(t *testing.T) {
	sp := DenseSymmetric(2)
	B := []float64{2, 0, 0, 3} // column-major [[2,0],[0,3]]
	x := []float64{1, 1}
	y := []float64{1, 1}
	assert.Equal(t, 5.0, Bilinear(B, sp, x, y, make([]float64, 2)))
}

func TestLBEigGershgorin(t *testing.T) {
	sp := DenseSymmetric(3)
	// diag(4,5,6) minus off-diag row sums 1, 1, 0 -> 3,4,6
	B := []float64{
		4, 1, 0,
		1, 5, 0,
		0, 0, 6,
	}
	assert.Equal(t, 3.0, LBEig(sp, B, make([]float64, 3), make([]float64, 3)))
}

func TestRegularizeAndReset(t *testing.T) {
	sp := DenseSymmetric(2)
	B := []float64{1, 2, 2, -1}
	Regularize(sp, B, 3)
	assert.Equal(t, []float64{4, 2, 2, 2}, B)

	BFGSReset(sp, B)
	assert.Equal(t, []float64{1, 0, 0, 1}, B)
}

func TestBFGSIdentityUnderZeroStep(t *testing.T) {
	sp := DenseSymmetric(2)
	B := []float64{1, 0, 0, 1}
	s := []float64{0, 0}
	y1 := []float64{1, 2}
	y0 := []float64{0, 1}
	work := make([]float64, 4)
	BFGS(sp, B, s, y1, y0, work)
	assert.Equal(t, []float64{1, 0, 0, 1}, B)
}

func TestBFGSPreservesSymmetryAndCurvature(t *testing.T) {
	sp := DenseSymmetric(2)
	B := []float64{1, 0, 0, 1}
	s := []float64{1, 0}
	yNew := []float64{3, 1}
	yOld := []float64{1, 0}
	work := make([]float64, 4)
	BFGS(sp, B, s, yNew, yOld, work)
	require.Len(t, B, 4)
	assert.InDelta(t, B[sp.At(0, 1)], B[sp.At(1, 0)], 1e-12)
	// curvature condition: s^T B s should grow toward s^T y = 2
	sBs := Bilinear(B, sp, s, s, make([]float64, 2))
	assert.Greater(t, sBs, 0.0)
}
