package cli

import (
	"fmt"
	"os"

	"github.com/amzn/ion-go/ion"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <statement>",
	Short: "Run a PartiQL statement in a retried transaction",
	Long: `Execute a single PartiQL statement against the ledger.

The statement runs inside its own transaction; transient faults and
optimistic concurrency conflicts are retried automatically. Result rows
are printed to stdout as Ion text, one value per line.

Parameters bind to ? placeholders in order. Each --param value is parsed
as Ion text, so strings need their quotes:

  quill query "SELECT * FROM People WHERE age > ?" --param 21
  quill query "SELECT * FROM People WHERE name = ?" --param '"Ada"'`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var queryParams []string

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringArrayVar(&queryParams, "param", nil, "Ion text value bound to the next ? placeholder (repeatable)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	statement := args[0]

	parameters := make([]any, 0, len(queryParams))
	for i, raw := range queryParams {
		var value any
		if err := ion.UnmarshalString(raw, &value); err != nil {
			return fmt.Errorf("parameter %d is not valid Ion text: %w", i+1, err)
		}
		parameters = append(parameters, value)
	}

	session, cleanup, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := session.ExecuteStatement(cmd.Context(), statement, parameters...)
	if err != nil {
		return fmt.Errorf("statement failed: %w", err)
	}

	rows := 0
	for result.Next(cmd.Context()) {
		text, err := ionBinaryToText(result.GetCurrentData())
		if err != nil {
			return err
		}
		fmt.Println(text)
		rows++
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("reading results: %w", err)
	}

	if isInteractive() {
		fmt.Fprintf(os.Stderr, "%d row(s)\n", rows)
	}
	return nil
}

// ionBinaryToText re-renders one Ion binary value as Ion text.
func ionBinaryToText(data []byte) (string, error) {
	var value any
	if err := ion.Unmarshal(data, &value); err != nil {
		return "", fmt.Errorf("decoding result row: %w", err)
	}
	text, err := ion.MarshalText(value)
	if err != nil {
		return "", fmt.Errorf("rendering result row: %w", err)
	}
	return string(text), nil
}
