package quill

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to establish or keep a ledger session
	ExitAborted         = 12 // Caller aborted the transaction
	ExitExecutionFailed = 13 // Statement execution failed
)

const (
	// DefaultRetryLimit is the default inclusive bound on retries per
	// Execute call (4 retries = up to 5 attempts).
	DefaultRetryLimit = 4

	// DefaultBackoffBase is the default base of the capped exponential
	// backoff between attempts.
	DefaultBackoffBase = 10 * time.Millisecond

	// DefaultBackoffCap is the default upper bound on the exponential
	// backoff term. The jittered sleep is strictly below cap + 1ms.
	DefaultBackoffCap = 5000 * time.Millisecond
)

// tableNamesQuery is the fixed catalog query behind ListTableNames.
// Dropped tables keep a catalog row with a non-ACTIVE status and are
// excluded here.
const tableNamesQuery = "SELECT name FROM information_schema.user_tables WHERE status = 'ACTIVE'"
