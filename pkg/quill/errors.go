package quill

import (
	"errors"
	"fmt"
)

// Sentinel errors for control flow and lifecycle failures.
// Callers distinguish them with errors.Is().
var (
	// ErrAbort is the distinguished abort signal. Executor.Abort returns it;
	// returning it from a work function unwinds the current attempt without
	// a commit and without any retry, regardless of remaining retry budget.
	ErrAbort = errors.New("transaction aborted by caller")

	// ErrSessionClosed indicates an operation on a Session after Close.
	ErrSessionClosed = errors.New("session is closed")

	// ErrExecutorDisposed indicates use of an Executor after its work
	// function returned and the owning transaction was torn down.
	ErrExecutorDisposed = errors.New("executor is disposed")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Kind classifies a failure for the retry loop. The transport attaches a
// Kind to every error it produces, so retry policy is a table lookup rather
// than error-type dispatch.
type Kind int

const (
	// KindNone marks an error that did not come from the transport and is
	// not a recognized control signal. Treated like KindClient.
	KindNone Kind = iota

	// KindUserAbort is the caller's explicit abort signal. Never retried.
	KindUserAbort

	// KindSessionInvalid means the ledger session backing the channel is no
	// longer usable. Retried on a freshly dialed channel.
	KindSessionInvalid

	// KindOccConflict is a commit-time optimistic concurrency rejection.
	// The transaction is already gone server-side; retried without abort.
	KindOccConflict

	// KindTransientService is a service-side fault with a status the driver
	// classifies as transient (internal error, service unavailable).
	KindTransientService

	// KindClient covers malformed requests and every other transport
	// failure. Never retried.
	KindClient

	// KindClosed marks operations against an already closed resource.
	KindClosed
)

func (k Kind) String() string {
	switch k {
	case KindUserAbort:
		return "user abort"
	case KindSessionInvalid:
		return "session invalid"
	case KindOccConflict:
		return "occ conflict"
	case KindTransientService:
		return "transient service error"
	case KindClient:
		return "client error"
	case KindClosed:
		return "resource closed"
	default:
		return "unclassified"
	}
}

// decision is the handling policy for one error kind.
type decision struct {
	// Retryable allows another attempt while retry budget remains.
	Retryable bool
	// ReplaceSession dials a fresh channel before the next attempt.
	ReplaceSession bool
	// AbortTransaction performs a best-effort abort of the open transaction
	// before retrying or re-raising.
	AbortTransaction bool
}

// retryPolicy is the classification table the engine consults. Policy is
// data: one row per kind, matching the driver's failure taxonomy.
var retryPolicy = map[Kind]decision{
	KindUserAbort:        {Retryable: false, ReplaceSession: false, AbortTransaction: true},
	KindSessionInvalid:   {Retryable: true, ReplaceSession: true, AbortTransaction: false},
	KindOccConflict:      {Retryable: true, ReplaceSession: false, AbortTransaction: false},
	KindTransientService: {Retryable: true, ReplaceSession: false, AbortTransaction: true},
	KindClient:           {Retryable: false, ReplaceSession: false, AbortTransaction: true},
	KindClosed:           {Retryable: false, ReplaceSession: false, AbortTransaction: false},
}

func decisionFor(k Kind) decision {
	if d, ok := retryPolicy[k]; ok {
		return d
	}
	return retryPolicy[KindClient]
}

// Error is a transport failure with its classification attached.
// The wrapped error is preserved so callers can reach the underlying
// service exception with errors.As.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // HTTP status when known, 0 otherwise
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies an arbitrary error. Control signals take priority over
// transport classification; anything unrecognized is a client error.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAbort):
		return KindUserAbort
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrExecutorDisposed):
		return KindClosed
	}
	var qerr *Error
	if errors.As(err, &qerr) {
		return qerr.Kind
	}
	return KindClient
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for classified
// errors, and ExitGeneralError (1) for everything else.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrInvalidConfig) {
		return ExitConfigError
	}
	switch KindOf(err) {
	case KindUserAbort:
		return ExitAborted
	case KindSessionInvalid, KindTransientService:
		return ExitConnectionError
	case KindOccConflict, KindClient:
		return ExitExecutionFailed
	}
	return ExitGeneralError
}
