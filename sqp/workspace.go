package sqp

import (
	"github.com/curioloop/sqpcore/config"
	"github.com/curioloop/sqpcore/sparse"
)

// Bounds holds the static box bounds on x and the static bounds on g(x);
// together they form the stacked [lbz; ubz] the spec's data model
// describes. A bound left at +-1e20 or beyond is treated as absent,
// matching activeset.Options.InfBound's convention.
type Bounds struct {
	LBX, UBX []float64
	LBG, UBG []float64
}

// workspace is the single per-solve memory record: every buffer the main
// loop touches, reserved once at Driver construction and reused (counters
// reset, buffers overwritten) on every call to Solve. This mirrors the
// spec's resource-discipline note that a solve's buffers are owned by one
// memory record valid across repeated solves, and the teacher's analogous
// Workspace type (curioloop-optimizer/slsqp/optimize.go).
type workspace struct {
	z, lam     []float64 // nx+ng each: [x; g(x)], [lam_x; lam_g]
	lbz, ubz   []float64 // nx+ng each, static for the solve
	lbdz, ubdz []float64 // nx+ng each, recomputed every iteration

	dx   []float64 // nx, the (possibly scaled) primal step
	dlam []float64 // nx+ng, QP dual warm start / output

	gf      []float64 // nx, gradient of f
	jac     []float64 // Asp.NNZ(), constraint Jacobian per Asp
	hess    []float64 // Hsp.NNZ(), Hessian of the Lagrangian per Hsp
	gLag    []float64 // nx
	gLagOld []float64 // nx

	zCand []float64 // nx+ng, line-search scratch
	gCand []float64 // ng, line-search scratch

	bfgsWork []float64 // 2*nx

	denseH []float64 // nx*nx row-major, densified hess for the QP input
	denseA []float64 // ng*nx row-major, densified jac for the QP input

	bilinearScratch []float64 // nx, Bilinear's caller-owned scratch
	lbEigDiag       []float64 // nx, LBEig's caller-owned scratch
	lbEigOffSum     []float64 // nx, LBEig's caller-owned scratch
}

func newWorkspace(layout config.Layout, hsp, asp sparse.Pattern) *workspace {
	nx, ng := layout.NX, layout.NG
	w := &workspace{
		z: make([]float64, nx+ng), lam: make([]float64, nx+ng),
		lbz: make([]float64, nx+ng), ubz: make([]float64, nx+ng),
		lbdz: make([]float64, nx+ng), ubdz: make([]float64, nx+ng),
		dx: make([]float64, nx), dlam: make([]float64, nx+ng),
		gf: make([]float64, nx), jac: make([]float64, asp.NNZ()),
		hess: make([]float64, hsp.NNZ()), gLag: make([]float64, nx), gLagOld: make([]float64, nx),
		zCand: make([]float64, nx+ng), gCand: make([]float64, ng),
		bfgsWork: make([]float64, 2*nx),
		denseH:   make([]float64, nx*nx), denseA: make([]float64, ng*nx),
		bilinearScratch: make([]float64, nx),
		lbEigDiag:       make([]float64, nx), lbEigOffSum: make([]float64, nx),
	}
	return w
}

// reset clears the counters/buffers that must not leak between solves;
// the problem-shaped slices are reused without reallocation.
func (w *workspace) reset(x0 []float64, bounds Bounds) {
	nx := len(w.gf)
	copy(w.z[:nx], x0)
	sparse.Zero(w.z[nx:])
	sparse.Zero(w.lam)
	copy(w.lbz[:nx], bounds.LBX)
	copy(w.ubz[:nx], bounds.UBX)
	copy(w.lbz[nx:], bounds.LBG)
	copy(w.ubz[nx:], bounds.UBG)
	sparse.Zero(w.dx)
	sparse.Zero(w.dlam)
	sparse.Zero(w.gLag)
	sparse.Zero(w.gLagOld)
}

// denseRowMajor expands a matrix stored per sp (compressed-column or dense
// column-major, per sparse.Pattern's convention) into a row-major dense
// buffer: out[r*sp.Cols+c] = value at (r,c). Both qp.Input.H and
// qp.Input.A are specified row-major, so every Hessian/Jacobian the driver
// hands to the QP subsolver passes through this regardless of whether the
// problem's own patterns are dense or sparse.
func denseRowMajor(sp sparse.Pattern, vals, out []float64) {
	for i := range out {
		out[i] = 0
	}
	if sp.Dense {
		for c := 0; c < sp.Cols; c++ {
			for r := 0; r < sp.Rows; r++ {
				out[r*sp.Cols+c] = vals[sp.At(r, c)]
			}
		}
		return
	}
	for c := 0; c < sp.Cols; c++ {
		for k := sp.ColPtr[c]; k < sp.ColPtr[c+1]; k++ {
			r := sp.RowIdx[k]
			out[r*sp.Cols+c] = vals[k]
		}
	}
}
