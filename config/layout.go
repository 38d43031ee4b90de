package config

import "github.com/curioloop/sqpcore/sparse"

// Layout describes the deterministic sizing of every per-solve buffer,
// grounded on curioloop-optimizer/slsqp.Optimizer.Init, which computes a
// single totwk float64 count from n, m, meq before allocating. The SQP
// driver reserves one Layout's worth of buffers at construction time and
// never grows them during a solve.
type Layout struct {
	NX, NG      int
	NNZHessian  int
	NNZJacobian int
	MeritMemory int
}

// NewLayout derives a Layout from the problem's dimensions and sparsity
// patterns and the option set's merit_memory.
func NewLayout(nx, ng int, hsp, asp sparse.Pattern, opts Options) Layout {
	return Layout{
		NX:          nx,
		NG:          ng,
		NNZHessian:  hsp.NNZ(),
		NNZJacobian: asp.NNZ(),
		MeritMemory: opts.MeritMemory,
	}
}

// StateFloats returns the total count of float64 scratch entries the
// driver's per-solve state occupies: z, lam, lbz/ubz, dx/dlam, lbdz/ubdz,
// gf, Jk (dense ng x nx), Bk (dense nx x nx), gLag/gLag_old, z_cand
// (nx+ng), and the merit memory ring, matching the fields enumerated by
// the spec's solve-state data model.
func (l Layout) StateFloats() int {
	n, m := l.NX, l.NG
	return (n+m)*8 /* z,lam,lbz,ubz,lbdz,ubdz,dlam,zCand */ +
		n*3 /* dx,gf,gLagOld */ +
		n /* gLag */ +
		m*n /* Jk dense fallback */ +
		n*n /* Bk dense */ +
		l.MeritMemory
}
