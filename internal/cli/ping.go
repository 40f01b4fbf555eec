package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that a ledger session can be established",
	Long: `Connect to the ledger and probe the session for liveness.

Exits 0 when the session answers, non-zero otherwise. Useful as a
readiness check before running statements:

  quill ping --ledger my-ledger && quill query "SELECT 1"`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	session, cleanup, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("ledger session is not healthy: %w", err)
	}
	fmt.Fprintln(os.Stderr, "✓ Ledger session is healthy")
	return nil
}
