package cli

import (
	"os"

	"golang.org/x/term"
)

// isInteractive reports whether a human is likely at the terminal.
//
// Returns false if:
//   - stdout is not a terminal (piped output, CI/CD)
//   - QUILL_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//
// Decorative output is suppressed in non-interactive runs so that piped
// stdout carries only the data.
func isInteractive() bool {
	if os.Getenv("QUILL_NON_INTERACTIVE") == "1" {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
