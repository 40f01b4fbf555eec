package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List active tables in the ledger",
	Long: `List the names of all active tables in the ledger.

One table name per line goes to stdout, so the output pipes cleanly:

  quill tables --ledger my-ledger | sort`,
	Args: cobra.NoArgs,
	RunE: runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	session, cleanup, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	names, err := session.ListTableNames(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	if isInteractive() {
		fmt.Fprintf(os.Stderr, "%d active table(s)\n", len(names))
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
