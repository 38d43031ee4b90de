// Package activeset implements the default conic-QP qp.Solver: a dense
// primal active-set solver for
//
//	minimize    1/2 dx^T H dx + G^T dx
//	subject to  LBX <= dx   <= UBX
//	            LBA <= A dx <= UBA
//
// Every two-sided bound is split into equality rows (when lower == upper)
// and one- or two-sided inequality rows in the canonical "coef*x >= rhs"
// form, following the standard primal active-set method for convex QP
// (Nocedal & Wright, Numerical Optimization, Algorithm 16.3): repeatedly
// solve the equality-constrained QP over the current working set via its
// KKT system, then either walk to the nearest blocking constraint and add
// it to the working set, or drop the most infeasible-looking multiplier
// and retry. The KKT system is solved with gonum's dense linear solver,
// in the style of the VecDense-based linear algebra helpers in
// armadaproject-armada's internal/common/linalg and
// internal/common/optimisation packages.
package activeset

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/sqpcore/qp"
	"github.com/curioloop/sqpcore/sparse"
)

// Options configures a Solver constructed via Factory.
type Options struct {
	// MaxIterLS bounds the active-set iteration count; zero means a
	// package default scaled to the problem size.
	MaxIterLS int
	// InfBound is the magnitude above which a bound is treated as absent
	// even when finite, matching the convention of a large sentinel
	// rather than +-Inf for "no bound" in numerically generated problems.
	// Defaults to 1e20.
	InfBound float64
}

// Solver is the default qp.Solver, bound to fixed problem dimensions.
type Solver struct {
	nx, na int
	opts   Options
}

// Factory is a qp.Factory constructing a Solver over the given sparsity
// patterns. hsp must be square (the Hessian of the Lagrangian); asp's
// column count must equal hsp's.
func Factory(hsp, asp sparse.Pattern, opts qp.Options) (qp.Solver, error) {
	if hsp.Rows != hsp.Cols {
		return nil, errors.Errorf("activeset: hessian pattern must be square, got %dx%d", hsp.Rows, hsp.Cols)
	}
	if asp.Cols != 0 && asp.Cols != hsp.Rows {
		return nil, errors.Errorf("activeset: jacobian pattern has %d columns, want %d", asp.Cols, hsp.Rows)
	}
	o := Options{InfBound: 1e20}
	if v, ok := opts["max_iter_ls"]; ok {
		n, ok := v.(int)
		if !ok {
			return nil, errors.New("activeset: max_iter_ls option must be an int")
		}
		o.MaxIterLS = n
	}
	if v, ok := opts["inf_bound"]; ok {
		f, ok := v.(float64)
		if !ok {
			return nil, errors.New("activeset: inf_bound option must be a float64")
		}
		o.InfBound = f
	}
	return &Solver{nx: hsp.Rows, na: asp.Rows, opts: o}, nil
}

func (s *Solver) unbounded(v float64, lower bool) bool {
	if lower {
		return v <= -s.opts.InfBound
	}
	return v >= s.opts.InfBound
}

// constraint is one row of the canonical "coef . x >= rhs" form (or, when
// eq is set, "coef . x = rhs"); kind/idx/side identify which LBX/UBX or
// LBA/UBA slot it was derived from, so Solve can fold its multiplier back
// into Output.LamX/LamA. The folded multipliers satisfy
// G + H x + LamX + A^T LamA = 0 at the solution: positive where an upper
// bound is active, negative where a lower bound is active.
type constraint struct {
	coef []float64
	rhs  float64
	eq   bool
	kind string // "box" or "linear"
	idx  int
	side int // +1 lower bound active, -1 upper bound active, 0 for eq
}

const tol = 1e-9

// Solve implements qp.Solver.
func (s *Solver) Solve(in *qp.Input) (*qp.Output, error) {
	n := s.nx
	if len(in.H) != n*n || len(in.G) != n {
		return nil, errors.Errorf("activeset: H/G do not match dimension %d", n)
	}
	na := s.na
	if na > 0 && len(in.A) != na*n {
		return nil, errors.Errorf("activeset: A does not match %d x %d", na, n)
	}
	if len(in.LBX) != n || len(in.UBX) != n {
		return nil, errors.New("activeset: LBX/UBX must have length n")
	}

	var cons []constraint
	start := make([]float64, n)

	for i := 0; i < n; i++ {
		lo, hi := in.LBX[i], in.UBX[i]
		if lo > hi+tol {
			return nil, errors.Errorf("activeset: box bound %d is infeasible (%g > %g)", i, lo, hi)
		}
		if lo == hi {
			unit := make([]float64, n)
			unit[i] = 1
			cons = append(cons, constraint{coef: unit, rhs: lo, eq: true, kind: "box", idx: i})
			start[i] = lo
			continue
		}
		loB, hiB := s.unbounded(lo, true), s.unbounded(hi, false)
		v := 0.0
		if !loB && v < lo {
			v = lo
		}
		if !hiB && v > hi {
			v = hi
		}
		start[i] = v
		if !loB {
			unit := make([]float64, n)
			unit[i] = 1
			cons = append(cons, constraint{coef: unit, rhs: lo, kind: "box", idx: i, side: 1})
		}
		if !hiB {
			unit := make([]float64, n)
			unit[i] = -1
			cons = append(cons, constraint{coef: unit, rhs: -hi, kind: "box", idx: i, side: -1})
		}
	}

	for i := 0; i < na; i++ {
		lo, hi := in.LBA[i], in.UBA[i]
		if lo > hi+tol {
			return nil, errors.Errorf("activeset: linear bound %d is infeasible (%g > %g)", i, lo, hi)
		}
		coef := append([]float64(nil), in.A[i*n:i*n+n]...)
		if lo == hi {
			cons = append(cons, constraint{coef: coef, rhs: lo, eq: true, kind: "linear", idx: i})
			continue
		}
		loB, hiB := s.unbounded(lo, true), s.unbounded(hi, false)
		if !loB {
			cons = append(cons, constraint{coef: coef, rhs: lo, kind: "linear", idx: i, side: 1})
		}
		if !hiB {
			neg := make([]float64, n)
			for j, c := range coef {
				neg[j] = -c
			}
			cons = append(cons, constraint{coef: neg, rhs: -hi, kind: "linear", idx: i, side: -1})
		}
	}

	// The initial working set holds every equality row (its residual is
	// resolved by the very first KKT solve below, so the starting point
	// need not already satisfy it) plus any box inequality the clamped
	// start touches exactly. Linear inequality rows only join the working
	// set via the ratio test; if one is already violated at start there
	// is no feasible point to walk toward, since this solver has no
	// separate phase-1 search.
	var active []int
	for i, c := range cons {
		if c.eq {
			active = append(active, i)
			continue
		}
		slack := sparse.Dot(c.coef, start) - c.rhs
		if slack < -tol {
			return nil, errors.Errorf("activeset: %s row %d infeasible at the starting point", c.kind, c.idx)
		}
		if c.kind == "box" && slack <= tol {
			active = append(active, i)
		}
	}

	maxIter := s.opts.MaxIterLS
	if maxIter <= 0 {
		maxIter = 50 * (n + len(cons) + 1)
	}

	xk := append([]float64(nil), start...)
	var lam map[int]float64

	for iter := 0; ; iter++ {
		if iter >= maxIter {
			return nil, errors.New("activeset: exceeded max iterations without reaching a KKT point")
		}

		p, y, err := kktSolve(in.H, in.G, n, cons, active, xk)
		if err != nil {
			return nil, errors.Wrap(err, "activeset: solving KKT system")
		}
		lam = y

		if sparse.NormInf(p) <= tol {
			worst, worstLam := -1, -tol
			for _, ci := range active {
				if cons[ci].eq {
					continue
				}
				if l := lam[ci]; l < worstLam {
					worst, worstLam = ci, l
				}
			}
			if worst < 0 {
				break // KKT point reached: all active multipliers are nonnegative.
			}
			active = dropIndex(active, worst)
			continue
		}

		alpha, blocking := 1.0, -1
		for i, c := range cons {
			if containsIndex(active, i) {
				continue
			}
			d := sparse.Dot(c.coef, p)
			if d >= -tol {
				continue
			}
			slack := sparse.Dot(c.coef, xk) - c.rhs
			if slack < 0 {
				slack = 0
			}
			if a := slack / -d; a < alpha {
				alpha, blocking = a, i
			}
		}

		for i := range xk {
			xk[i] += alpha * p[i]
		}
		if blocking >= 0 {
			active = append(active, blocking)
		}
	}

	lamX := make([]float64, n)
	lamA := make([]float64, na)
	for _, ci := range active {
		c := cons[ci]
		l := lam[ci]
		target := lamX
		if c.kind == "linear" {
			target = lamA
		}
		switch {
		case c.eq:
			target[c.idx] = -l
		case c.side > 0:
			target[c.idx] -= l
		default:
			target[c.idx] += l
		}
	}

	return &qp.Output{X: xk, LamX: lamX, LamA: lamA}, nil
}

// kktSolve solves the equality-constrained QP subproblem over the active
// working set at xk: minimize 1/2 p^T H p + g_k^T p subject to
// coef_i . (xk+p) = rhs_i for i in active, where g_k = H xk + G. Returns
// the step p and the Lagrange multiplier of every active constraint in
// the "coef . x >= rhs, lambda >= 0 at optimum" convention.
func kktSolve(H, G []float64, n int, cons []constraint, active []int, xk []float64) ([]float64, map[int]float64, error) {
	m := len(active)
	dim := n + m

	A := mat.NewDense(dim, dim, nil)
	b := mat.NewVecDense(dim, nil)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			A.Set(i, j, H[i*n+j])
		}
	}
	gk := make([]float64, n)
	for i := 0; i < n; i++ {
		gk[i] = sparse.Dot(H[i*n:i*n+n], xk) + G[i]
	}
	for i := 0; i < n; i++ {
		b.SetVec(i, -gk[i])
	}

	for k, ci := range active {
		c := cons[ci]
		for j := 0; j < n; j++ {
			A.Set(n+k, j, c.coef[j])
			A.Set(j, n+k, c.coef[j])
		}
		b.SetVec(n+k, c.rhs-sparse.Dot(c.coef, xk))
	}

	var sol mat.Dense
	if err := sol.Solve(A, b); err != nil {
		return nil, nil, err
	}

	p := make([]float64, n)
	for i := 0; i < n; i++ {
		p[i] = sol.At(i, 0)
	}
	lam := make(map[int]float64, m)
	for k, ci := range active {
		lam[ci] = -sol.At(n+k, 0)
	}
	return p, lam, nil
}

func containsIndex(set []int, i int) bool {
	for _, v := range set {
		if v == i {
			return true
		}
	}
	return false
}

func dropIndex(set []int, i int) []int {
	out := set[:0]
	for _, v := range set {
		if v != i {
			out = append(out, v)
		}
	}
	return out
}

var _ qp.Factory = Factory
