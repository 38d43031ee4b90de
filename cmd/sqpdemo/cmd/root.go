// Package cmd wires the sqpdemo CLI, grounded on the cobra/viper root
// command style of armadaproject-armada's cmd/testsuite/cmd (RootCmd plus
// one cobra.Command per subcommand, flags forwarded into viper so a config
// file and CLI flags compose the same way).
package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/curioloop/sqpcore/config"
	"github.com/curioloop/sqpcore/logging"
	"github.com/curioloop/sqpcore/persist"
	"github.com/curioloop/sqpcore/qp/activeset"
	"github.com/curioloop/sqpcore/sqp"
)

const configFlag = "config"

// RootCmd is the root Cobra command invoked from main.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sqpdemo",
		Short: "sqpdemo exercises the SQP driver against the spec's testable scenarios.",
		Long: `sqpdemo runs one of the named testable scenarios (quadratic, box,
rosenbrock, infeasible, maxiter, nolinesearch) through the SQP driver and
prints its iteration log and final status.

Options may also be supplied via a YAML config file (the same schema
persist.Marshal writes); pass its path with --config.`,
	}

	root.PersistentFlags().String(configFlag, "", "path to a persisted YAML option set")
	_ = viper.BindPFlag(configFlag, root.PersistentFlags().Lookup(configFlag))

	root.AddCommand(runCmd(), persistCmd(), metricsCmd())
	return root
}

func loadOptions() (config.Options, error) {
	opts := config.Default()
	opts.QPSol = "activeset"

	path := viper.GetString(configFlag)
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config %s: %w", path, err)
	}
	loaded, _, _, err := persist.Unmarshal(data)
	if err != nil {
		return opts, err
	}
	return loaded, nil
}

func runCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one named scenario and print its iteration log and outcome.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, ok := scenarios[name]
			if !ok {
				return fmt.Errorf("unknown scenario %q, want one of %v", name, scenarioNames())
			}
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			prob, x0, bounds, override := sc.build()
			if override != nil {
				override(&opts)
			}

			table := logging.NewTable(os.Stdout)
			diag := logging.NewDiagnostics(logrus.WithField("scenario", name))

			driver, err := sqp.New(prob, activeset.Factory, opts, table, diag)
			if err != nil {
				return err
			}
			res, err := driver.Solve(x0, nil, bounds, nil)
			if err != nil {
				return err
			}

			lastIterCount.WithLabelValues(name).Set(float64(res.IterCount))
			lastDuInf.WithLabelValues(name).Set(res.DuInf)
			solveOutcomes.WithLabelValues(name, string(res.Status)).Inc()

			fmt.Printf("status=%s iter_count=%d x=%v pr_inf=%.3e du_inf=%.3e\n",
				res.Status, res.IterCount, res.X, res.PrInf, res.DuInf)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "scenario", "quadratic", fmt.Sprintf("scenario to run, one of %v", scenarioNames()))
	return cmd
}

func persistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "persist",
		Short: "Print the default option set as a persisted-state YAML document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			prob := quadraticProblem([]float64{1})
			out, err := persist.Marshal(opts, prob.Hsp, prob.Asp)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}

func metricsCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve this process's Prometheus metrics over HTTP; solves from separate `run` invocations are not included.",
		RunE: func(cmd *cobra.Command, args []string) error {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logrus.Infof("sqpdemo: serving metrics on %s", addr)
			return http.ListenAndServe(addr, mux)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9090", "listen address for the /metrics endpoint")
	return cmd
}
