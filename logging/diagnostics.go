package logging

import "github.com/sirupsen/logrus"

// Diagnostics emits the driver's non-fatal warnings (indefiniteness,
// regularization, line-search exhaustion) as structured logrus entries
// rather than table rows, so they can be filtered/aggregated independently
// of the fixed-width iteration log.
type Diagnostics struct {
	Log *logrus.Entry
}

// NewDiagnostics wraps a logrus logger, defaulting to the package-level
// standard logger when nil.
func NewDiagnostics(log *logrus.Entry) *Diagnostics {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Diagnostics{Log: log}
}

// Indefinite warns that the current QP step has a negative curvature gain
// Δx^T Bk Δx, a non-fatal condition the spec says to log and continue from.
func (d *Diagnostics) Indefinite(iter int, gain float64) {
	d.Log.WithFields(logrus.Fields{"iter": iter, "gain": gain}).Warn("sqp: indefinite QP step, continuing")
}

// Regularized notes that Gershgorin regularization added r to the Hessian
// diagonal this iteration.
func (d *Diagnostics) Regularized(iter int, r float64) {
	d.Log.WithFields(logrus.Fields{"iter": iter, "reg": r}).Debug("sqp: regularized hessian")
}

// LineSearchExhausted warns that the backtracking search accepted a step
// without satisfying the Armijo condition.
func (d *Diagnostics) LineSearchExhausted(iter int, t float64) {
	d.Log.WithFields(logrus.Fields{"iter": iter, "t": t}).Warn("sqp: line search exhausted max_iter_ls, accepting last step")
}
