package quill

import "context"

// Executor is the per-attempt facade handed to a work function. It is
// valid only for the duration of that one invocation; the Session disposes
// it when the work function returns, whatever the outcome.
type Executor interface {
	// Execute runs a PartiQL statement in the attempt's transaction.
	// Failures propagate unmodified to the Session's retry classifier.
	Execute(ctx context.Context, statement string, parameters ...any) (Result, error)

	// Abort returns the abort signal. Return it from the work function to
	// unwind the attempt: no commit happens, no retry is made, and the
	// caller of Execute observes the signal unchanged.
	Abort() error
}

// WorkFunc is a unit of work run inside one transaction. It may be invoked
// more than once, so it must be free of side effects outside the ledger.
type WorkFunc func(ctx context.Context, q Executor) (any, error)

type transactionExecutor struct {
	txn      *Transaction
	disposed bool
}

func (e *transactionExecutor) Execute(ctx context.Context, statement string, parameters ...any) (Result, error) {
	if e.disposed {
		return nil, ErrExecutorDisposed
	}
	return e.txn.Execute(ctx, statement, parameters...)
}

func (e *transactionExecutor) Abort() error {
	if e.disposed {
		return ErrExecutorDisposed
	}
	return ErrAbort
}
