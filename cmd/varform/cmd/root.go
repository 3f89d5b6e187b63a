package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "varform",
	Short: "Collect VaR/CVaR stress-test parameters",
	Long: `varform collects the parameters of a VaR/CVaR stress test: time horizon,
rolling period, confidence level, fund count, date range and an optional fund
selection. Submitted parameters are written to the diagnostic log.

Run "varform tui" for the interactive form or "varform snapshot" to build a
snapshot from flags.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
