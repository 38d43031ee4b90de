// Package config holds the tunable options and deterministic workspace
// sizing for the SQP driver (component C6), grounded on the
// Problem/Termination/LineSearch option grouping of
// curioloop-optimizer/slsqp.Problem (optimize.go) and generalized to the
// spec's full option table, including the quasi-Newton and non-monotone
// line-search knobs the teacher's Problem does not have.
package config

import (
	"github.com/pkg/errors"

	"github.com/curioloop/sqpcore/qp"
)

// HessianApproximation selects how the driver maintains the Hessian of the
// Lagrangian across iterations.
type HessianApproximation int

const (
	// HessianExact calls eval_hess_L every iteration.
	HessianExact HessianApproximation = iota
	// HessianLimitedMemory runs the damped-BFGS update instead, resetting
	// to the identity every LBFGSMemory iterations.
	HessianLimitedMemory
)

func (h HessianApproximation) String() string {
	if h == HessianLimitedMemory {
		return "limited-memory"
	}
	return "exact"
}

// Options collects every tunable named in the spec's configuration table.
// Zero-value Options is not valid; use Default to obtain a struct with the
// documented defaults, then override individual fields.
type Options struct {
	// QPSol names the QP subsolver plugin. The teacher resolves this by
	// string from a process-wide registry; the driver instead takes a
	// qp.Factory directly (see sqp.New), so QPSol/QPSolOptions here only
	// round-trip through Persist for descriptive/serialization purposes.
	QPSol        string
	QPSolOptions qp.Options

	HessianApproximation HessianApproximation

	MaxIter   int
	MinIter   int
	MaxIterLS int

	TolPr float64
	TolDu float64

	C1   float64
	Beta float64

	MeritMemory int
	LBFGSMemory int

	Regularize bool

	PrintHeader    bool
	PrintIteration bool
	PrintStatus    bool

	MinStepSize float64
}

// Default returns the option set with every default from the spec's
// configuration table applied.
func Default() Options {
	return Options{
		QPSol:                 "qpoases",
		HessianApproximation:  HessianExact,
		MaxIter:               50,
		MinIter:               0,
		MaxIterLS:             3,
		TolPr:                 1e-6,
		TolDu:                 1e-6,
		C1:                    1e-4,
		Beta:                  0.8,
		MeritMemory:           4,
		LBFGSMemory:           10,
		Regularize:            false,
		PrintHeader:           true,
		PrintIteration:        true,
		PrintStatus:           true,
		MinStepSize:           1e-10,
	}
}

// Validate reports a setup error for any option outside its documented
// domain, following the teacher's Problem.New validation style (a sequence
// of range checks surfaced as the first error encountered) but using
// pkg/errors so callers get a stack trace at the point of failure.
func (o Options) Validate() error {
	switch {
	case o.QPSol == "":
		return errors.New("config: qpsol name is required")
	case o.MaxIter <= 0:
		return errors.New("config: max_iter must be greater than 0")
	case o.MinIter < 0:
		return errors.New("config: min_iter must not be negative")
	case o.MinIter > o.MaxIter:
		return errors.New("config: min_iter must not exceed max_iter")
	case o.MaxIterLS < 0:
		return errors.New("config: max_iter_ls must not be negative")
	case o.TolPr <= 0 || o.TolDu <= 0:
		return errors.New("config: tol_pr/tol_du must be positive")
	case o.C1 <= 0 || o.C1 >= 1:
		return errors.New("config: c1 must lie in (0, 1)")
	case o.Beta <= 0 || o.Beta >= 1:
		return errors.New("config: beta must lie in (0, 1)")
	case o.MeritMemory <= 0:
		return errors.New("config: merit_memory must be greater than 0")
	case o.LBFGSMemory <= 0:
		return errors.New("config: lbfgs_memory must be greater than 0")
	case o.MinStepSize <= 0:
		return errors.New("config: min_step_size must be positive")
	}
	return nil
}
