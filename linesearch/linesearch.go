// Package linesearch implements the non-monotone L1-merit Armijo line
// search (component C4): given a step direction from the QP subproblem, it
// backtracks along that direction until the candidate point sufficiently
// decreases an L1 exact-penalty merit function, judged against a sliding
// window of recent merit values rather than only the immediately preceding
// one. Grounded on the backtracking/merit-function structure of
// curioloop-optimizer/slsqp.sqpSolver.lineSearch, generalized from that
// solver's single non-monotone memory slot to the spec's M-sized circular
// merit buffer and decoupled from any particular Hessian-update strategy.
package linesearch

import (
	"github.com/curioloop/sqpcore/nlpfunc"
	"github.com/curioloop/sqpcore/sparse"
)

// Config holds the tunable constants of the search.
type Config struct {
	// MaxIterLS bounds the number of backtracking steps; zero disables
	// the search entirely (full step, duals replaced by dlam).
	MaxIterLS int
	// Beta is the backtracking factor applied to t on rejection.
	Beta float64
	// C1 is the Armijo sufficient-decrease constant.
	C1 float64
	// MeritMemory is the size M of the non-monotone merit window.
	MeritMemory int
}

// DefaultConfig matches the spec's default tuning.
func DefaultConfig() Config {
	return Config{MaxIterLS: 3, Beta: 0.8, C1: 1e-4, MeritMemory: 4}
}

// Searcher holds the non-monotone merit window and penalty parameter
// across SQP iterations. IterCount mirrors the shared iteration counter of
// the main loop; the caller increments it once per major iteration before
// invoking Search, exactly as C5 increments its own k before calling into
// C4.
type Searcher struct {
	cfg       Config
	sigma     float64
	meritMem  []float64
	meritInd  int
	IterCount int
}

// New constructs a Searcher with a zeroed merit window and penalty.
func New(cfg Config) *Searcher {
	if cfg.MeritMemory <= 0 {
		cfg.MeritMemory = 1
	}
	return &Searcher{cfg: cfg, meritMem: make([]float64, cfg.MeritMemory)}
}

// Sigma returns the current L1 penalty parameter.
func (s *Searcher) Sigma() float64 { return s.sigma }

// Result reports the outcome of a call to Search.
type Result struct {
	// T is the accepted step fraction in (0, 1].
	T float64
	// Success is false when the search exhausted MaxIterLS without
	// satisfying the Armijo condition and accepted the last candidate
	// regardless.
	Success bool
}

// Search performs the backtracking line search described in the spec's
// component C4. x and lam are updated in place (x += t*dx, lam interpolated
// toward dlam); dx is scaled in place to t*dx on return, matching the
// teacher's convention that the caller's direction buffer becomes the
// actual step taken.
//
// f is the objective value at the current x (already evaluated by the
// caller this iteration). z, lbz, ubz are the nx+ng stacked [x; g(x)]
// iterate and its bounds. zCand and gCand are caller-owned scratch buffers
// of matching shape, overwritten on every trial. gradF is grad f(x)
// (length nx). eval evaluates f and g at a candidate x, following
// nlpfunc.EvalFG's contract.
func (s *Searcher) Search(
	eval nlpfunc.EvalFG,
	x, dx []float64,
	lam, dlam []float64,
	f float64,
	z, lbz, ubz []float64,
	p []float64,
	gradF []float64,
	zCand, gCand []float64,
) Result {

	nx := len(x)

	if s.cfg.MaxIterLS == 0 {
		sparse.Axpy(1, dx, x)
		copy(lam, dlam)
		return Result{T: 1, Success: true}
	}

	infeasCurrent := sparse.MaxViol(z, lbz, ubz)

	// 1. Monotone penalty update.
	if dn := sparse.NormInf(dlam); 1.01*dn > s.sigma {
		s.sigma = 1.01 * dn
	}

	// 2. Directional derivative of the merit function along dx.
	l1dir := sparse.Dot(gradF, dx) - s.sigma*infeasCurrent

	// 3. Current merit, written into the circular buffer.
	mCurr := f + s.sigma*infeasCurrent
	s.meritMem[s.meritInd] = mCurr
	s.meritInd = (s.meritInd + 1) % len(s.meritMem)

	// 4. Non-monotone reference: the upper envelope over the window,
	// combining the first slot with the tail up to k. This exact formula
	// (not a plain max over the whole window) is what makes the envelope
	// non-monotone across window wraps; preserve it as written.
	k := min(s.IterCount, len(s.meritMem)) - 1
	meritmax := s.meritMem[0]
	for i := 1; i <= k && i < len(s.meritMem); i++ {
		if s.meritMem[i] > meritmax {
			meritmax = s.meritMem[i]
		}
	}

	// 5. Backtracking.
	t := 1.0
	success := false
	for lsIter := 0; ; lsIter++ {
		for i := 0; i < nx; i++ {
			zCand[i] = x[i] + t*dx[i]
		}

		var fCand float64
		ok := eval(zCand[:nx], p, &fCand, gCand)
		if !ok {
			if lsIter == s.cfg.MaxIterLS {
				success = false
				break
			}
			t *= s.cfg.Beta
			continue
		}
		copy(zCand[nx:], gCand)

		infeasCand := sparse.MaxViol(zCand, lbz, ubz)
		mCand := fCand + s.sigma*infeasCand

		if mCand <= meritmax+t*s.cfg.C1*l1dir {
			success = true
			break
		}
		if lsIter == s.cfg.MaxIterLS {
			success = false
			break
		}
		t *= s.cfg.Beta
	}

	// 6. Apply the accepted step.
	for i := range lam {
		lam[i] = (1-t)*lam[i] + t*dlam[i]
	}
	sparse.Scal(t, dx)
	sparse.Axpy(1, dx, x)

	return Result{T: t, Success: success}
}
