package quill

import (
	"context"
	"fmt"
	"time"

	"github.com/amzn/ion-go/ion"

	"github.com/vvka-141/quill/internal/logging"
	"github.com/vvka-141/quill/internal/retry"
)

// Session drives one ledger session: it owns the Channel, runs units of
// work inside transactions, and retries recoverable failures.
//
// Thread-Safety: NOT safe for concurrent use. The channel slot is written
// only between attempts by the retry loop, which is sound only while a
// single goroutine calls into the Session. Use one Session per goroutine.
//
// Lifecycle:
//  1. Created by New(), which dials the initial channel
//  2. Used for Execute / ExecuteStatement / ListTableNames / StartTransaction
//  3. Cleaned up via Close() (idempotent)
type Session struct {
	ledgerName string
	dialer     Dialer
	channel    Channel
	retryLimit int
	backoff    BackoffStrategy
	logger     Logger
	closed     bool
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(logger Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithRetryLimit sets the inclusive bound on retries per Execute call.
// A limit of N allows up to N+1 attempts. Must be non-negative.
func WithRetryLimit(limit int) Option {
	return func(s *Session) {
		s.retryLimit = limit
	}
}

// WithBackoff sets the backoff strategy used between attempts.
func WithBackoff(strategy BackoffStrategy) Option {
	return func(s *Session) {
		s.backoff = strategy
	}
}

// New dials a session on the named ledger and returns a Session bound to it.
func New(ctx context.Context, ledgerName string, dialer Dialer, opts ...Option) (*Session, error) {
	if ledgerName == "" {
		return nil, fmt.Errorf("ledger name cannot be empty")
	}
	if dialer == nil {
		return nil, fmt.Errorf("dialer cannot be nil")
	}

	s := &Session{
		ledgerName: ledgerName,
		dialer:     dialer,
		retryLimit: DefaultRetryLimit,
		backoff:    retry.NewFullJitter(DefaultBackoffBase, DefaultBackoffCap),
		logger:     logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.retryLimit < 0 {
		return nil, fmt.Errorf("retry limit cannot be negative")
	}

	channel, err := dialer.Dial(ctx, ledgerName)
	if err != nil {
		return nil, err
	}
	s.channel = channel
	return s, nil
}

type executeConfig struct {
	onRetry func(attempt int)
}

// ExecuteOption configures one Execute call.
type ExecuteOption func(*executeConfig)

// WithOnRetry registers an observer invoked once per handled recoverable
// failure, after classification and before the backoff sleep, with the
// 1-based cumulative attempt number.
func WithOnRetry(fn func(attempt int)) ExecuteOption {
	return func(cfg *executeConfig) {
		cfg.onRetry = fn
	}
}

// Execute runs work inside a transaction, committing on success and
// retrying the whole unit of work on recoverable failures.
//
// If work directly returns a live Result, Execute materializes it into a
// *BufferedResult before committing, since commit invalidates open streams.
// A live Result nested inside a composite return value is NOT rewritten and
// is invalid after Execute returns; iterate or buffer such results inside
// the work function.
//
// Non-retryable errors and errors that exhaust the retry budget surface
// with their identity intact.
func (s *Session) Execute(ctx context.Context, work WorkFunc, opts ...ExecuteOption) (any, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	var cfg executeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	attempt := 0
	for {
		txn, result, err := s.executeAttempt(ctx, work)
		if err == nil {
			return result, nil
		}

		kind := KindOf(err)
		d := decisionFor(kind)
		if d.AbortTransaction {
			s.abortQuietly(ctx, txn)
		}
		if !d.Retryable || attempt >= s.retryLimit {
			return nil, err
		}
		if d.ReplaceSession {
			// The old channel is already unusable; no point aborting on it.
			channel, dialErr := s.dialer.Dial(ctx, s.ledgerName)
			if dialErr != nil {
				return nil, dialErr
			}
			s.channel = channel
			s.logger.Info("ledger session invalidated; continuing on new session %s", channel.SessionID())
		}
		if kind == KindOccConflict {
			s.logger.Info("optimistic concurrency conflict; retrying transaction")
		}

		attempt++
		s.logger.Verbose("retry %d/%d after %s: %v", attempt, s.retryLimit, kind, err)
		if cfg.onRetry != nil {
			cfg.onRetry(attempt)
		}
		if err := s.sleep(ctx, s.backoff.Delay(attempt)); err != nil {
			return nil, err
		}
	}
}

// executeAttempt runs one full attempt: open transaction, run work,
// materialize a directly returned live result, commit. The transaction is
// returned even on failure so the caller can attempt cleanup.
func (s *Session) executeAttempt(ctx context.Context, work WorkFunc) (*Transaction, any, error) {
	txnID, err := s.channel.StartTransaction(ctx)
	if err != nil {
		return nil, nil, err
	}
	txn, err := newTransaction(s.channel, txnID)
	if err != nil {
		return nil, nil, err
	}

	exec := &transactionExecutor{txn: txn}
	result, err := work(ctx, exec)
	exec.disposed = true
	if err != nil {
		return txn, nil, err
	}

	// Only a directly returned live stream is buffered. A stream buried in
	// a composite return value stays bound to this transaction and dies at
	// commit; that asymmetry is deliberate.
	if live, ok := result.(*stream); ok {
		buffered, err := bufferResult(ctx, live)
		if err != nil {
			return txn, nil, err
		}
		result = buffered
	}

	if err := txn.Commit(ctx); err != nil {
		return txn, nil, err
	}
	return txn, result, nil
}

// abortQuietly attempts to abort the transaction. Abort failures never
// surface; the original error is the one the caller needs to see.
func (s *Session) abortQuietly(ctx context.Context, txn *Transaction) {
	if txn == nil {
		return
	}
	if err := txn.Abort(ctx); err != nil {
		s.logger.Error("failed to abort transaction %s: %v", txn.ID(), err)
	}
}

func (s *Session) sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExecuteStatement runs a single statement in its own auto-retried
// transaction and returns the fully buffered result.
func (s *Session) ExecuteStatement(ctx context.Context, statement string, parameters ...any) (Result, error) {
	value, err := s.Execute(ctx, func(ctx context.Context, q Executor) (any, error) {
		return q.Execute(ctx, statement, parameters...)
	})
	if err != nil {
		return nil, err
	}
	return value.(Result), nil
}

// StartTransaction opens an explicit transaction. The caller owns commit
// and abort, and receives NO automatic retry: after an unexpected error the
// transaction's state is ambiguous, so replaying it is not safe here.
func (s *Session) StartTransaction(ctx context.Context) (*Transaction, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	txnID, err := s.channel.StartTransaction(ctx)
	if err != nil {
		return nil, err
	}
	return newTransaction(s.channel, txnID)
}

// ListTableNames returns the names of the ledger's active tables, in the
// order the catalog query returns them.
func (s *Session) ListTableNames(ctx context.Context) ([]string, error) {
	value, err := s.Execute(ctx, func(ctx context.Context, q Executor) (any, error) {
		return q.Execute(ctx, tableNamesQuery)
	})
	if err != nil {
		return nil, err
	}

	result := value.(Result)
	var names []string
	for result.Next(ctx) {
		var name string
		if err := ion.Unmarshal(result.GetCurrentData(), &name); err != nil {
			return nil, fmt.Errorf("decoding table name: %w", err)
		}
		names = append(names, name)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// Ping probes session liveness by sending an abort against the idle
// channel. Only call it when no transaction is in flight. On failure the
// session is marked closed and the error returned.
func (s *Session) Ping(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.channel.Abort(ctx); err != nil {
		s.closed = true
		return err
	}
	return nil
}

// Close ends the underlying session. Idempotent: the first call sends End
// exactly once, later calls are no-ops. End failures are logged, not
// returned; the session is unusable either way.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.channel.End(ctx); err != nil {
		s.logger.Error("failed to end session %s: %v", s.channel.SessionID(), err)
	}
	return nil
}
