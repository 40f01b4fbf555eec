package quill

// Logger provides a pluggable logging interface for driver diagnostics.
// Implementations must be safe for concurrent use by multiple goroutines.
type Logger interface {
	// Verbose logs detailed diagnostic information (retries, conflicts).
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations, such as a
	// session being replaced after invalidation.
	Info(format string, args ...interface{})

	// Error logs error messages, including failures swallowed during
	// best-effort aborts.
	Error(format string, args ...interface{})
}
