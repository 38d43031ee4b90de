package sparse

import "math"

// Fill sets v[i] = alpha for all i, adapted from the teacher's dzero (which
// only ever zeroed buffers); this generalizes to an arbitrary fill value.
func Fill(v []float64, alpha float64) {
	for i := range v {
		v[i] = alpha
	}
}

// Copy copies src into dst, dst must be at least len(src).
func Copy(src, dst []float64) {
	copy(dst[:len(src)], src)
}

// Axpy computes y += alpha*x in place.
func Axpy(alpha float64, x, y []float64) {
	if alpha == 0 {
		return
	}
	n := len(x)
	for i := 0; i < n; i++ {
		y[i] += alpha * x[i]
	}
}

// Scal computes x *= alpha in place.
func Scal(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}

// Dot returns the inner product of x and y.
func Dot(x, y []float64) float64 {
	var sum float64
	n := len(x)
	for i := 0; i < n; i++ {
		sum += x[i] * y[i]
	}
	return sum
}

// NormInf returns max |x_i|, the teacher's dnrm2 generalized from the
// Euclidean to the infinity norm the spec's convergence tests require.
func NormInf(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// MaxViol computes max_i max(lb_i - z_i, z_i - ub_i, 0), the worst bound
// violation across z, used for both primal-infeasibility diagnostics and
// the L1 merit function's penalty term.
func MaxViol(z, lb, ub []float64) float64 {
	viol := 0.0
	for i, zi := range z {
		if v := lb[i] - zi; v > viol {
			viol = v
		}
		if v := zi - ub[i]; v > viol {
			viol = v
		}
	}
	return viol
}

// VFMax returns max(acc, max_i v_i).
func VFMax(v []float64, acc float64) float64 {
	m := acc
	for _, x := range v {
		if x > m {
			m = x
		}
	}
	return m
}

// Zero fills v with zero; a thin alias over Fill kept for call sites that
// read more naturally as "zero this buffer" (mirrors the teacher's dzero).
func Zero(v []float64) { Fill(v, 0) }

// SparseMV computes y += A^T x (transpose=true) or y += A x (transpose=false)
// using the column-compressed sparsity pattern sp. A holds nnz values in
// the same column-major order as sp.RowIdx. Dense patterns fall back to a
// straightforward double loop.
func SparseMV(A []float64, sp Pattern, x, y []float64, transpose bool) {
	if sp.Dense {
		sparseMVDense(A, sp, x, y, transpose)
		return
	}
	for c := 0; c < sp.Cols; c++ {
		xc := x[c]
		for k := sp.ColPtr[c]; k < sp.ColPtr[c+1]; k++ {
			r := sp.RowIdx[k]
			v := A[k]
			if transpose {
				y[c] += v * x[r]
			} else {
				y[r] += v * xc
			}
		}
	}
}

func sparseMVDense(A []float64, sp Pattern, x, y []float64, transpose bool) {
	for c := 0; c < sp.Cols; c++ {
		for r := 0; r < sp.Rows; r++ {
			v := A[sp.At(r, c)]
			if transpose {
				y[c] += v * x[r]
			} else {
				y[r] += v * x[c]
			}
		}
	}
}

// Bilinear returns x^T B y where B is stored per sp (square pattern).
// scratch is a caller-owned buffer of length sp.Rows, overwritten.
func Bilinear(B []float64, sp Pattern, x, y, scratch []float64) float64 {
	Zero(scratch)
	SparseMV(B, sp, y, scratch, false)
	return Dot(x, scratch)
}

// LBEig returns the Gershgorin lower bound on the eigenvalues of the
// symmetric matrix B stored per sp: min_i (B_ii - sum_{j!=i} |B_ij|). diag
// and offSum are caller-owned buffers of length sp.Rows, overwritten.
func LBEig(sp Pattern, B []float64, diag, offSum []float64) float64 {
	n := sp.Rows
	Zero(diag)
	Zero(offSum)
	if sp.Dense {
		for c := 0; c < n; c++ {
			for r := 0; r < n; r++ {
				v := B[sp.At(r, c)]
				if r == c {
					diag[r] = v
				} else {
					offSum[r] += math.Abs(v)
				}
			}
		}
	} else {
		for c := 0; c < sp.Cols; c++ {
			for k := sp.ColPtr[c]; k < sp.ColPtr[c+1]; k++ {
				r := sp.RowIdx[k]
				v := B[k]
				if r == c {
					diag[r] = v
				} else {
					offSum[r] += math.Abs(v)
				}
			}
		}
	}
	bound := math.Inf(1)
	for i := 0; i < n; i++ {
		if v := diag[i] - offSum[i]; v < bound {
			bound = v
		}
	}
	return bound
}

// Regularize adds r to every diagonal entry of B present in sp. The caller
// guarantees the diagonal is part of the pattern (true for Hsp by
// construction of the Hessian of the Lagrangian).
func Regularize(sp Pattern, B []float64, r float64) {
	if r == 0 {
		return
	}
	n := sp.Rows
	if sp.Dense {
		for i := 0; i < n; i++ {
			B[sp.At(i, i)] += r
		}
		return
	}
	for c := 0; c < sp.Cols; c++ {
		for k := sp.ColPtr[c]; k < sp.ColPtr[c+1]; k++ {
			if sp.RowIdx[k] == c {
				B[k] += r
			}
		}
	}
}

// BFGSReset writes the identity matrix over B under pattern sp.
func BFGSReset(sp Pattern, B []float64) {
	Fill(B, 0)
	n := sp.Rows
	if sp.Dense {
		for i := 0; i < n; i++ {
			B[sp.At(i, i)] = 1
		}
		return
	}
	for c := 0; c < sp.Cols; c++ {
		for k := sp.ColPtr[c]; k < sp.ColPtr[c+1]; k++ {
			if sp.RowIdx[k] == c {
				B[k] = 1
			}
		}
	}
}
