// Package logging provides the SQP driver's iteration table and structured
// diagnostic warnings. The table printer is grounded on the LogLevel/Logger
// pairing of curioloop-optimizer/lbfgsb.Logger (optimize.go): a writer plus
// a verbosity gate, reprinting a header periodically rather than on every
// row. Diagnostics use logrus, matching the structured-logging style of
// this repo's other pack-mate, armadaproject-armada.
package logging

import (
	"fmt"
	"io"
	"math"
)

// Table prints the spec's fixed-width iteration log:
//
//	iter objective inf_pr inf_du ||d|| lg(rg) ls
//
// The header reprints every 10 rows. A line-search failure appends "F" to
// its row; when the regularization term is zero the lg(rg) column prints
// "-" instead of a (meaningless) log of zero.
type Table struct {
	Out     io.Writer
	Enabled bool
	rows    int
}

// NewTable constructs a Table writing to out. Enabled defaults to true;
// set it false to silence Header/Row without removing call sites (mirrors
// print_iteration / print_header in the option set).
func NewTable(out io.Writer) *Table {
	return &Table{Out: out, Enabled: true}
}

// Header writes the column header row.
func (t *Table) Header() {
	if !t.Enabled {
		return
	}
	fmt.Fprintf(t.Out, "%4s %15s %9s %9s %9s %7s %s\n",
		"iter", "objective", "inf_pr", "inf_du", "||d||", "lg(rg)", "ls")
}

// Row writes one iteration's diagnostics, reprinting the header every 10
// rows as the spec requires.
func (t *Table) Row(iter int, objective, prInf, duInf, dInf, reg float64, lsFailed bool) {
	if !t.Enabled {
		return
	}
	if t.rows%10 == 0 {
		t.Header()
	}
	t.rows++

	regCol := "      -"
	if reg > 0 {
		regCol = fmt.Sprintf("%7.2f", math.Log10(reg))
	}
	lsCol := ""
	if lsFailed {
		lsCol = "F"
	}
	fmt.Fprintf(t.Out, "%4d %15.6e %9.2e %9.2e %9.2e %7s %s\n",
		iter, objective, prInf, duInf, dInf, regCol, lsCol)
}

// Status prints the final return status line.
func (t *Table) Status(status string, iterCount int) {
	if !t.Enabled {
		return
	}
	fmt.Fprintf(t.Out, "%s after %d iterations\n", status, iterCount)
}
