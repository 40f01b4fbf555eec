package quill

import (
	"context"
	"fmt"

	"github.com/amzn/ion-go/ion"

	"github.com/vvka-141/quill/internal/qldbhash"
)

// Transaction is one open transaction on a Channel. It is created per
// attempt by the Session (or explicitly via Session.StartTransaction) and
// becomes invalid once it commits, aborts, or its channel is replaced.
// Never reuse a Transaction across attempts.
type Transaction struct {
	channel    Channel
	id         string
	commitHash *qldbhash.Hash
}

func newTransaction(channel Channel, id string) (*Transaction, error) {
	// The commit digest is seeded from the transaction id and folded with
	// every statement executed; the service rejects a commit whose digest
	// does not match its own view of the transaction.
	seed, err := qldbhash.Of(id)
	if err != nil {
		return nil, fmt.Errorf("seeding commit digest for transaction %s: %w", id, err)
	}
	return &Transaction{channel: channel, id: id, commitHash: seed}, nil
}

// ID returns the service-assigned transaction id.
func (t *Transaction) ID() string {
	return t.id
}

// Execute runs a PartiQL statement in this transaction. Parameters are
// marshaled to binary Ion. The returned Result streams lazily and is valid
// only until the transaction commits or aborts.
func (t *Transaction) Execute(ctx context.Context, statement string, parameters ...any) (Result, error) {
	stmtHash, err := qldbhash.Of(statement)
	if err != nil {
		return nil, fmt.Errorf("hashing statement: %w", err)
	}

	ionParams := make([][]byte, len(parameters))
	for i, parameter := range parameters {
		data, err := ion.MarshalBinary(parameter)
		if err != nil {
			return nil, fmt.Errorf("marshaling parameter %d: %w", i, err)
		}
		paramHash, err := qldbhash.OfIonBinary(data)
		if err != nil {
			return nil, fmt.Errorf("hashing parameter %d: %w", i, err)
		}
		stmtHash = stmtHash.Dot(paramHash)
		ionParams[i] = data
	}

	// The running hash must cover the statement whether or not the wire
	// call succeeds; the service folds it in as soon as it sees the
	// request.
	t.commitHash = t.commitHash.Dot(stmtHash)

	page, err := t.channel.Execute(ctx, t.id, statement, ionParams)
	if err != nil {
		return nil, err
	}
	return newStream(t.channel, t.id, page), nil
}

// Commit commits the transaction, presenting the running commit digest.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.channel.Commit(ctx, t.id, t.commitHash.Sum())
}

// Abort aborts the transaction.
func (t *Transaction) Abort(ctx context.Context) error {
	return t.channel.Abort(ctx)
}
