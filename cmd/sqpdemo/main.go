// Command sqpdemo runs the SQP driver against the spec's named testable
// scenarios, for manual inspection of the iteration log and termination
// status. It is not a general-purpose NLP modeling front end: the
// scenarios are wired in code (cmd/sqpdemo/cmd/scenarios.go) rather than
// parsed from a modeling language.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/curioloop/sqpcore/cmd/sqpdemo/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("sqpdemo: failed")
		os.Exit(1)
	}
}
