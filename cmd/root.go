// Package cmd implements the disketch CLI using the cobra framework.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	appConfigFile string
	logLevel      string
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "disketch",
	Short: "DiSketch - distributed sketch-based traffic measurement simulator",
	Long: `DiSketch replays a packet capture through a simulated topology of
measurement fragments, each running an approximate counting sketch over a
rotating sample of the traffic it sees, and reconstructs per-flow heavy
hitter estimates by combining what every fragment on a flow's path
observed. It reports how that reconstruction compares against a single
monolithic sketch sized to the same total memory budget.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and runs it. It
// is called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&appConfigFile, "app-config", "",
		"ambient config file (logging/metrics/output); unset uses defaults")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"override the configured log level (trace|debug|info|warn|error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
