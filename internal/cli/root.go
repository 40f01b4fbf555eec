// Package cli implements the quill command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Client for QLDB-style ledger databases",
	Long: `quill talks to a ledger database: it runs PartiQL statements inside
automatically retried transactions, lists the ledger's active tables, and
probes session liveness.

Connection settings come from flags, quill.yaml in the working directory,
and the environment (including a .env file), in that order of precedence.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Could not establish or keep a ledger session
  12 - Transaction aborted
  13 - Statement execution failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("ledger", "", "Ledger name (overrides quill.yaml)")
	rootCmd.PersistentFlags().String("region", "", "AWS region (overrides quill.yaml and $AWS_REGION)")
	rootCmd.PersistentFlags().String("endpoint", "", "Service endpoint override, for local ledgers")
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing quill.yaml")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
