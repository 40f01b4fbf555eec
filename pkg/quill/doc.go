// Package quill is a client driver for Amazon QLDB-style ledger databases.
//
// The central type is Session: it owns one ledger session (a Channel),
// runs caller-supplied units of work inside transactions, and transparently
// retries the whole unit of work when the failure is recoverable (optimistic
// concurrency conflicts, invalidated sessions, transient service errors).
// User-initiated aborts and client errors are never retried.
//
// # Example Usage
//
//	dialer, err := transport.Connect(ctx, "us-east-1", "", logger)
//	session, err := quill.New(ctx, "my-ledger", dialer)
//	defer session.Close(ctx)
//
//	value, err := session.Execute(ctx, func(ctx context.Context, q quill.Executor) (any, error) {
//	    return q.Execute(ctx, "SELECT * FROM Wallets WHERE id = ?", walletID)
//	})
//
// # Retry Semantics
//
// The work function may run more than once; it must be free of side effects
// outside the ledger. Each recoverable failure is classified into a Kind and
// handled per the policy table in errors.go: invalid sessions are replaced
// with a freshly dialed channel, conflicts and transient service errors are
// retried after a full-jitter backoff, everything else surfaces unchanged.
//
// # Thread Safety
//
// A Session drives exactly one underlying ledger session and is NOT safe for
// concurrent use. Run one Session per goroutine; pooling sessions across
// goroutines is a layer above this package.
package quill
