// Package nlpfunc adapts the injected NLP callables (objective, constraint,
// Jacobian and Hessian evaluators) to the fixed-workspace calling
// convention the SQP driver expects. It performs no numerical work of its
// own: it packs pointers, invokes the callable, and reports failure. This
// mirrors the teacher's sqpSolver.evalLoc in curioloop-optimizer/slsqp,
// generalized from a single in-process Object/EqCons/NeqCons set of
// closures to the spec's four-callable eval_fg/eval_jac_fg/eval_hess_L/
// eval_grad contract operating over sparse Jacobian/Hessian patterns.
package nlpfunc

import "github.com/curioloop/sqpcore/sparse"

// EvalFG computes f(x) into *f and g(x) into g; x and p are read-only.
// Returns false on failure.
type EvalFG func(x, p []float64, f *float64, g []float64) bool

// EvalJacFG computes f(x), grad f(x), g(x) and the constraint Jacobian
// (stored per the Jacobian sparsity pattern) in one pass.
type EvalJacFG func(x, p []float64, f *float64, gradF, g, jac []float64) bool

// EvalHessL computes the Hessian of sigmaF*f(x) + lamG.g(x), stored per the
// Hessian sparsity pattern.
type EvalHessL func(x, p []float64, sigmaF float64, lamG, hess []float64) bool

// EvalGrad performs the optional post-solve gradient extraction. Any of
// f, g, gradXL, gradPL may be nil, meaning the caller does not want that
// output.
type EvalGrad func(x, p []float64, sigmaF float64, lamG []float64, f *float64, g, gradXL, gradPL []float64) bool

// Problem binds the four callables together with the problem dimensions
// and the two sparsity patterns, immutable after construction.
type Problem struct {
	NX, NG, NP int
	Asp        sparse.Pattern // constraint Jacobian, NG x NX
	Hsp        sparse.Pattern // Hessian of the Lagrangian, NX x NX, symmetric

	FG     EvalFG
	JacFG  EvalJacFG
	HessL  EvalHessL
	Grad   EvalGrad // optional, may be nil
}

// EvalFG invokes the objective/constraint evaluator, returning false on
// failure without panicking the caller.
func (p *Problem) EvalFG(x, param []float64, f *float64, g []float64) bool {
	if p.FG == nil {
		return false
	}
	return p.FG(x, param, f, g)
}

// EvalJacFG invokes the combined function+Jacobian evaluator.
func (p *Problem) EvalJacFG(x, param []float64, f *float64, gradF, g, jac []float64) bool {
	if p.JacFG == nil {
		return false
	}
	return p.JacFG(x, param, f, gradF, g, jac)
}

// EvalHessL invokes the Hessian-of-the-Lagrangian evaluator.
func (p *Problem) EvalHessL(x, param []float64, sigmaF float64, lamG, hess []float64) bool {
	if p.HessL == nil {
		return false
	}
	return p.HessL(x, param, sigmaF, lamG, hess)
}

// EvalGrad invokes the optional post-solve gradient extractor. It is a
// no-op success when the callable was not supplied, matching the spec's
// "any res[i] may be null" contract at the interface boundary.
func (p *Problem) EvalGrad(x, param []float64, sigmaF float64, lamG []float64, f *float64, g, gradXL, gradPL []float64) bool {
	if p.Grad == nil {
		return true
	}
	return p.Grad(x, param, sigmaF, lamG, f, g, gradXL, gradPL)
}
