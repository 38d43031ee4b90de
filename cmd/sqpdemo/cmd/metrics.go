package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Grounded on armadaproject-armada/internal/server/event/metrics.go's
// promauto package-level collector style: one gauge per solve, labeled by
// the scenario name that was just run.
var (
	lastIterCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sqpdemo_last_iter_count",
			Help: "Number of SQP iterations performed by the most recent solve of each scenario.",
		},
		[]string{"scenario"},
	)
	lastDuInf = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sqpdemo_last_du_inf",
			Help: "Dual infeasibility residual of the most recent solve of each scenario.",
		},
		[]string{"scenario"},
	)
	solveOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqpdemo_solve_outcomes_total",
			Help: "Count of solves by return status.",
		},
		[]string{"scenario", "status"},
	)
)
