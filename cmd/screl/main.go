// Command screl computes the reliability of redundant computing schemes
// described in declarative YAML scheme documents.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev" // set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "screl",
	Short: "Reliability computation for redundant, reconfigurable computing schemes",
	Long: `screl loads a declarative scheme document (elements, processors, recovery
plans, and a scheme function) and computes its steady-state reliability by
exhaustively sweeping the element state space, reconfiguring failed
processors per the chosen strategy, and aggregating the result.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./screl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveMetricsCmd)
}

// Commands are defined in separate files:
// - computeCmd in compute.go
// - validateCmd in validate.go
// - serveMetricsCmd in serve_metrics.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
