package quill

import "context"

// Page is one chunk of a statement's result stream. Values hold binary Ion
// documents in server-returned order; a nil NextPageToken marks the last
// page.
type Page struct {
	Values        [][]byte
	NextPageToken *string
}

// Channel is one authenticated, stateful session against the ledger
// service. A Session owns exactly one Channel at a time and replaces it
// wholesale when the service reports the session invalid.
//
// Implementations raise *Error values so the retry loop can classify
// failures by Kind. At most one transaction may be open on a Channel at any
// instant; the driver never opens a second one.
type Channel interface {
	// StartTransaction opens a transaction and returns its id.
	StartTransaction(ctx context.Context) (string, error)

	// Execute runs a statement inside the given transaction. Parameters are
	// binary Ion values. Returns the first page of results.
	Execute(ctx context.Context, txnID, statement string, parameters [][]byte) (*Page, error)

	// FetchPage retrieves a follow-up page of a statement's results.
	FetchPage(ctx context.Context, txnID, pageToken string) (*Page, error)

	// Commit commits the transaction, presenting the commit digest as proof
	// the client and server agree on what was executed.
	Commit(ctx context.Context, txnID string, commitDigest []byte) error

	// Abort aborts the transaction currently open on this channel, if any.
	// Safe to send against an idle channel; the service treats it as a
	// no-op, which makes it usable as a liveness probe.
	Abort(ctx context.Context) error

	// End releases the session. The channel is unusable afterwards.
	End(ctx context.Context) error

	// SessionID returns the opaque session identity, for diagnostics.
	SessionID() string

	// LedgerName returns the ledger this channel is bound to.
	LedgerName() string
}

// Dialer establishes Channels. The Session keeps one to replace its channel
// when the current session is invalidated.
type Dialer interface {
	Dial(ctx context.Context, ledgerName string) (Channel, error)
}
