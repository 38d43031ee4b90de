// Package qp defines the canonical conic-QP subsolver contract the SQP
// driver programs against. Mapping an SQP iterate onto a QP subproblem is
// done by the driver in package sqp, which fills an Input per iteration.
//
// The spec's design notes call out the teacher's (CasADi's) QP subsolver
// as a string-keyed, process-wide plugin registry and ask for it to be
// re-architected as an explicit, dependency-injected factory: the SQP
// driver holds a Factory and stores the Solver it returns, rather than
// looking one up by name at solve time.
package qp

import "github.com/curioloop/sqpcore/sparse"

// Input holds the named input slots of the canonical conic-QP problem
//
//	minimize    1/2 dx^T H dx + G^T dx
//	subject to  LBX <= dx       <= UBX
//	            LBA <= A dx     <= UBA
//
// with primal/dual warm starts X0, LamX0, LamA0. Unused slots are left nil;
// a concrete Solver decides what nil means for each slot it supports.
type Input struct {
	// H is the dense symmetric Hessian, n x n, row-major (row i at
	// H[i*n:i*n+n]); symmetry means callers may equivalently treat it as
	// column-major. G is the length-n gradient.
	H, G []float64
	// A is the dense constraint Jacobian, na x n row-major (row i at
	// A[i*n:i*n+n]).
	A        []float64
	LBX, UBX []float64
	LBA, UBA []float64
	X0       []float64
	LamX0    []float64
	LamA0    []float64
}

// Output holds the named output slots: the primal solution and the dual
// variables for bound and linear constraints respectively.
type Output struct {
	X     []float64
	LamX  []float64
	LamA  []float64
}

// Solver solves one instance of the conic QP described by Input, writing
// into Output. Implementations may reuse internal workspace across calls
// but must be safe to call repeatedly for a single sequential SQP solve.
type Solver interface {
	Solve(in *Input) (*Output, error)
}

// Options carries subsolver-specific configuration, forwarded verbatim by
// the SQP driver's Factory call; its shape is subsolver-defined (mirrors
// the spec's qpsol_options dict).
type Options map[string]any

// Factory constructs a Solver bound to fixed sparsity patterns for the
// Hessian (hsp) and Jacobian (asp). The SQP driver calls Factory exactly
// once, at solver construction time, and reuses the resulting Solver for
// every major iteration of every subsequent solve.
type Factory func(hsp, asp sparse.Pattern, opts Options) (Solver, error)
