// Package sqp implements the main driver (component C5): the per-iteration
// loop that evaluates the NLP, maintains the Hessian of the Lagrangian,
// forms and solves a QP subproblem, and applies a line-search-damped step,
// until one of the termination states in the spec's state machine is
// reached. It is grounded on the control flow of
// curioloop-optimizer/slsqp.sqpSolver.mainLoop, restructured around the
// spec's explicit 12-step iteration (exact vs. damped-BFGS Hessian, the
// non-monotone merit line search of package linesearch, and the
// dependency-injected qp.Factory/qp.Solver of package qp) in place of the
// teacher's packed-LDLT/global-registry design.
package sqp

import (
	"github.com/pkg/errors"

	"github.com/curioloop/sqpcore/config"
	"github.com/curioloop/sqpcore/linesearch"
	"github.com/curioloop/sqpcore/logging"
	"github.com/curioloop/sqpcore/nlpfunc"
	"github.com/curioloop/sqpcore/qp"
	"github.com/curioloop/sqpcore/sparse"
)

// Callback is invoked once per iteration after diagnostics are computed
// but before the step is formed, matching the spec's ordering note in
// section 5. Returning true requests termination with StatusUserStop.
type Callback func(iter int, prInf, duInf, dxInf float64) bool

// Driver holds everything reserved once at construction: the problem
// descriptor, the QP subsolver instance (built by a single Factory call),
// the line-search configuration, the option set, and the per-solve
// workspace. A Driver is not safe for concurrent Solve calls against the
// same workspace; construct one Driver per goroutine over a shared,
// read-only Problem, mirroring the teacher's Optimizer/Workspace split.
type Driver struct {
	prob   *nlpfunc.Problem
	qpSolv qp.Solver
	opts   config.Options
	layout config.Layout
	ws     *workspace
	table  *logging.Table
	diag   *logging.Diagnostics
}

// New constructs a Driver. qpFactory is called exactly once, against the
// problem's own Hsp/Asp, to build the QP subsolver the driver reuses for
// every iteration of every subsequent Solve call. table may be nil, in
// which case no iteration log is printed; a nil diag is replaced by
// diagnostics on logrus's standard logger.
func New(prob *nlpfunc.Problem, qpFactory qp.Factory, opts config.Options, table *logging.Table, diag *logging.Diagnostics) (*Driver, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "sqp: invalid options")
	}
	if prob == nil {
		return nil, errors.New("sqp: problem is required")
	}
	solver, err := qpFactory(prob.Hsp, prob.Asp, opts.QPSolOptions)
	if err != nil {
		return nil, errors.Wrap(err, "sqp: constructing qp subsolver")
	}
	layout := config.NewLayout(prob.NX, prob.NG, prob.Hsp, prob.Asp, opts)
	if diag == nil {
		diag = logging.NewDiagnostics(nil)
	}
	return &Driver{
		prob: prob, qpSolv: solver, opts: opts, layout: layout,
		ws: newWorkspace(layout, prob.Hsp, prob.Asp),
		table: table, diag: diag,
	}, nil
}

// Result reports the outcome of a single Solve call.
type Result struct {
	X, G       []float64
	F          float64
	LamX, LamG []float64
	Status     ReturnStatus
	Unified    UnifiedStatus
	Success    bool
	IterCount  int
	PrInf      float64
	DuInf      float64
}

// Stats returns the end-of-solve statistics dictionary the spec's external
// interface describes: return_status, iter_count, plus the infeasibility
// residuals a caller commonly wants alongside them.
func (r *Result) Stats() map[string]any {
	return map[string]any{
		"return_status": string(r.Status),
		"iter_count":    r.IterCount,
		"pr_inf":        r.PrInf,
		"du_inf":        r.DuInf,
		"success":       r.Success,
	}
}

// Solve runs the SQP loop from primal start x0 with parameter vector p and
// static bounds, following the spec's 12-step per-iteration algorithm.
func (d *Driver) Solve(x0, p []float64, bounds Bounds, cb Callback) (*Result, error) {
	nx := d.prob.NX
	if len(x0) != nx {
		return nil, errors.Errorf("sqp: x0 has length %d, want %d", len(x0), nx)
	}

	w := d.ws
	w.reset(x0, bounds)
	searcher := linesearch.New(linesearch.Config{
		MaxIterLS: d.opts.MaxIterLS, Beta: d.opts.Beta, C1: d.opts.C1, MeritMemory: d.opts.MeritMemory,
	})

	fg := func(x, pp []float64, f *float64, g []float64) bool { return d.prob.EvalFG(x, pp, f, g) }

	var f float64
	k := 0
	reg := 0.0
	dxInf := 0.0
	lastLSFailed := false

	for {
		// 1. Evaluate.
		if ok := d.prob.EvalJacFG(w.z[:nx], p, &f, w.gf, w.z[nx:], w.jac); !ok {
			return nil, errors.New("sqp: eval_jac_fg failed")
		}

		// 2. Lagrangian gradient: gLag = gf + Jk^T lam_g + lam_x.
		copy(w.gLag, w.gf)
		sparse.SparseMV(w.jac, d.prob.Asp, w.lam[nx:], w.gLag, true)
		sparse.Axpy(1, w.lam[:nx], w.gLag)

		// 3. Diagnostics.
		prInf := sparse.MaxViol(w.z, w.lbz, w.ubz)
		duInf := sparse.NormInf(w.gLag)

		// 4. Print / callback.
		if d.table != nil {
			d.table.Row(k, f, prInf, duInf, dxInf, reg, lastLSFailed)
		}
		if cb != nil && cb(k, prInf, duInf, dxInf) {
			return d.finish(StatusUserStop, false, k, f, prInf, duInf), nil
		}

		// 5. Convergence tests, in order.
		if k >= d.opts.MinIter && prInf < d.opts.TolPr && duInf < d.opts.TolDu {
			return d.finish(StatusSolveSucceeded, true, k, f, prInf, duInf), nil
		}
		if k >= d.opts.MaxIter {
			return d.finish(StatusMaxIterExceeded, false, k, f, prInf, duInf), nil
		}
		if k >= 1 && k >= d.opts.MinIter && dxInf <= d.opts.MinStepSize {
			return d.finish(StatusStall, false, k, f, prInf, duInf), nil
		}

		// 6. Hessian.
		reg = 0
		if d.opts.HessianApproximation == config.HessianExact {
			if ok := d.prob.EvalHessL(w.z[:nx], p, 1, w.lam[nx:], w.hess); !ok {
				return nil, errors.New("sqp: eval_hess_L failed")
			}
			if d.opts.Regularize {
				lbEig := sparse.LBEig(d.prob.Hsp, w.hess, w.lbEigDiag, w.lbEigOffSum)
				reg = max(0, -lbEig)
				if reg > 0 {
					sparse.Regularize(d.prob.Hsp, w.hess, reg)
					d.diag.Regularized(k, reg)
				}
			}
		} else if k == 0 {
			sparse.Fill(w.hess, 1)
			sparse.BFGSReset(d.prob.Hsp, w.hess)
		} else {
			if k%d.opts.LBFGSMemory == 0 {
				sparse.BFGSReset(d.prob.Hsp, w.hess)
			}
			sparse.BFGS(d.prob.Hsp, w.hess, w.dx, w.gLag, w.gLagOld, w.bfgsWork)
		}

		// 7. Form QP.
		for i := range w.lbdz {
			w.lbdz[i] = w.lbz[i] - w.z[i]
			w.ubdz[i] = w.ubz[i] - w.z[i]
		}
		copy(w.dlam, w.lam)
		sparse.Zero(w.dx)
		k++

		// 8. Solve QP via C3.
		denseRowMajor(d.prob.Hsp, w.hess, w.denseH)
		denseRowMajor(d.prob.Asp, w.jac, w.denseA)
		out, err := d.qpSolv.Solve(&qp.Input{
			H: w.denseH, G: w.gf, A: w.denseA,
			LBX: w.lbdz[:nx], UBX: w.ubdz[:nx],
			LBA: w.lbdz[nx:], UBA: w.ubdz[nx:],
			X0: w.dx, LamX0: w.dlam[:nx], LamA0: w.dlam[nx:],
		})
		if err != nil {
			return nil, errors.Wrap(err, "sqp: qp subsolver")
		}
		copy(w.dx, out.X)
		copy(w.dlam[:nx], out.LamX)
		copy(w.dlam[nx:], out.LamA)

		// 9. Indefiniteness check.
		if gain := sparse.Bilinear(w.hess, d.prob.Hsp, w.dx, w.dx, w.bilinearScratch); gain < 0 {
			d.diag.Indefinite(k, gain)
		}

		// 10. Line search (or full step if disabled).
		searcher.IterCount = k
		res := searcher.Search(fg, w.z[:nx], w.dx, w.lam, w.dlam, f, w.z, w.lbz, w.ubz, p, w.gf, w.zCand, w.gCand)
		lastLSFailed = !res.Success
		if lastLSFailed {
			d.diag.LineSearchExhausted(k, res.T)
		}
		dxInf = sparse.NormInf(w.dx)

		// 12. For BFGS only: gLag_old at new duals, old x.
		if d.opts.HessianApproximation == config.HessianLimitedMemory {
			copy(w.gLagOld, w.gf)
			sparse.SparseMV(w.jac, d.prob.Asp, w.lam[nx:], w.gLagOld, true)
			sparse.Axpy(1, w.lam[:nx], w.gLagOld)
		}
	}
}

func (d *Driver) finish(status ReturnStatus, success bool, iter int, f, prInf, duInf float64) *Result {
	nx, ng := d.prob.NX, d.prob.NG
	w := d.ws
	if d.table != nil {
		d.table.Status(string(status), iter)
	}
	return &Result{
		X: append([]float64(nil), w.z[:nx]...), G: append([]float64(nil), w.z[nx:nx+ng]...),
		F: f, LamX: append([]float64(nil), w.lam[:nx]...), LamG: append([]float64(nil), w.lam[nx:]...),
		Status: status, Unified: unifiedOf(status), Success: success,
		IterCount: iter, PrInf: prInf, DuInf: duInf,
	}
}
