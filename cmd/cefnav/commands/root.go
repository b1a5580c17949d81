package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cefnav",
	Short: "Closed-end fund NAV discount reporter",
	Long: `cefnav pulls closed-end fund and NAV index closing prices for a
valuation date, computes the price/NAV discount per fund, and exports
the result to a spreadsheet.

Usage:
  cefnav serve                     start the API server
  cefnav report --date 2024-07-03  one-shot report run
  cefnav catalog                   fetch and print the ticker catalog`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
