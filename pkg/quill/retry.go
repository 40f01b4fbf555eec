package quill

import "time"

// BackoffStrategy calculates the delay before the next retry attempt.
type BackoffStrategy interface {
	// Delay returns the duration to sleep before the given attempt.
	// attempt is the 1-based cumulative retry number within one Execute
	// call.
	Delay(attempt int) time.Duration
}
