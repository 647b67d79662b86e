package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError carries a deliberate process exit code through cobra's error
// return.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "parity",
	Short: "Snapshot parity checker for Yahoo Finance data producers",
	Long: `parity compares the output of a candidate snapshot producer against
Yahoo Finance for a list of symbols: quote, price history, earnings
calendar and income statement, each scored with field-group tolerances.

Usage:
  go run ./cmd/parity run --symbols AAPL,MSFT
  go run ./cmd/parity snapshot --symbol AAPL --source yahoo`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
