// Package sparse provides the in-place BLAS-like kernel vocabulary the SQP
// driver is written against: fill, copy, axpy, scal, dot, norms, sparse
// matrix-vector products, bilinear forms, a Gershgorin eigenvalue bound,
// diagonal regularization and a damped BFGS update. All operations work on
// caller-supplied buffers and never allocate.
package sparse

// Pattern describes the sparsity of an m x n matrix stored in compressed
// column form: ColPtr has n+1 entries, RowIdx has NNZ entries sorted by
// column, and values are stored in the same order as RowIdx. A Pattern with
// Dense set to true is iterated densely by the kernels below regardless of
// ColPtr/RowIdx contents, matching the teacher's "dense fallback when sp is
// dense" convention.
type Pattern struct {
	Rows, Cols int
	ColPtr     []int
	RowIdx     []int
	Dense      bool
}

// NNZ returns the number of stored entries.
func (p Pattern) NNZ() int {
	if p.Dense {
		return p.Rows * p.Cols
	}
	if len(p.ColPtr) == 0 {
		return 0
	}
	return p.ColPtr[len(p.ColPtr)-1]
}

// DensePattern builds a fully dense m x n pattern.
func DensePattern(rows, cols int) Pattern {
	return Pattern{Rows: rows, Cols: cols, Dense: true}
}

// DenseSymmetric builds a dense n x n symmetric pattern (used for Hsp when
// quasi-Newton Hessian approximation is selected).
func DenseSymmetric(n int) Pattern {
	return DensePattern(n, n)
}

// DenseDiag returns the storage index of entry (i,i) in a dense square
// pattern's column-major layout, or -1 for sparse or non-square patterns,
// where the caller must use ColPtr/RowIdx directly.
func (p Pattern) DenseDiag(i int) int {
	if !p.Dense || p.Rows != p.Cols {
		return -1
	}
	return i*p.Cols + i
}

// At returns the column-major storage index of entry (r,c) for dense
// patterns.
func (p Pattern) At(r, c int) int {
	return c*p.Rows + r
}
