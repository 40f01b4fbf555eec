// Package transport implements the driver's wire channel over the AWS QLDB
// session API. One Channel wraps one service-side session; all traffic goes
// through the single SendCommand operation.
package transport

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession/types"

	"github.com/vvka-141/quill/pkg/quill"
)

// SendCommander is the narrow slice of the QLDB session API the transport
// needs. Decoupling from *qldbsession.Client keeps tests in-process.
type SendCommander interface {
	SendCommand(ctx context.Context, params *qldbsession.SendCommandInput, optFns ...func(*qldbsession.Options)) (*qldbsession.SendCommandOutput, error)
}

// Channel is one authenticated ledger session. It implements quill.Channel;
// every failure it returns carries a quill.Kind for the retry classifier.
type Channel struct {
	api          SendCommander
	sessionToken string
	ledgerName   string
	logger       quill.Logger
}

func (c *Channel) send(ctx context.Context, input *qldbsession.SendCommandInput) (*qldbsession.SendCommandOutput, error) {
	input.SessionToken = aws.String(c.sessionToken)
	out, err := c.api.SendCommand(ctx, input)
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// StartTransaction opens a transaction on this session.
func (c *Channel) StartTransaction(ctx context.Context) (string, error) {
	out, err := c.send(ctx, &qldbsession.SendCommandInput{
		StartTransaction: &types.StartTransactionRequest{},
	})
	if err != nil {
		return "", err
	}
	if out.StartTransaction == nil || out.StartTransaction.TransactionId == nil {
		return "", clientErrorf("service returned no transaction id")
	}
	return *out.StartTransaction.TransactionId, nil
}

// Execute runs a statement in the given transaction and returns the first
// result page.
func (c *Channel) Execute(ctx context.Context, txnID, statement string, parameters [][]byte) (*quill.Page, error) {
	holders := make([]types.ValueHolder, len(parameters))
	for i, p := range parameters {
		holders[i] = types.ValueHolder{IonBinary: p}
	}
	out, err := c.send(ctx, &qldbsession.SendCommandInput{
		ExecuteStatement: &types.ExecuteStatementRequest{
			TransactionId: aws.String(txnID),
			Statement:     aws.String(statement),
			Parameters:    holders,
		},
	})
	if err != nil {
		return nil, err
	}
	if out.ExecuteStatement == nil || out.ExecuteStatement.FirstPage == nil {
		return nil, clientErrorf("service returned no result page")
	}
	return pageFrom(out.ExecuteStatement.FirstPage), nil
}

// FetchPage retrieves a follow-up result page.
func (c *Channel) FetchPage(ctx context.Context, txnID, pageToken string) (*quill.Page, error) {
	out, err := c.send(ctx, &qldbsession.SendCommandInput{
		FetchPage: &types.FetchPageRequest{
			TransactionId: aws.String(txnID),
			NextPageToken: aws.String(pageToken),
		},
	})
	if err != nil {
		return nil, err
	}
	if out.FetchPage == nil || out.FetchPage.Page == nil {
		return nil, clientErrorf("service returned no result page")
	}
	return pageFrom(out.FetchPage.Page), nil
}

// Commit commits the transaction. The service echoes the commit digest it
// verified; a mismatch means client and server disagree on what ran, which
// is not recoverable by retrying.
func (c *Channel) Commit(ctx context.Context, txnID string, commitDigest []byte) error {
	out, err := c.send(ctx, &qldbsession.SendCommandInput{
		CommitTransaction: &types.CommitTransactionRequest{
			TransactionId: aws.String(txnID),
			CommitDigest:  commitDigest,
		},
	})
	if err != nil {
		return err
	}
	if out.CommitTransaction == nil || !bytes.Equal(out.CommitTransaction.CommitDigest, commitDigest) {
		return clientErrorf("commit digest mismatch for transaction %s", txnID)
	}
	return nil
}

// Abort aborts whatever transaction is open on this session. Sent against
// an idle session the service treats it as a no-op.
func (c *Channel) Abort(ctx context.Context) error {
	_, err := c.send(ctx, &qldbsession.SendCommandInput{
		AbortTransaction: &types.AbortTransactionRequest{},
	})
	return err
}

// End releases the session server-side.
func (c *Channel) End(ctx context.Context) error {
	_, err := c.send(ctx, &qldbsession.SendCommandInput{
		EndSession: &types.EndSessionRequest{},
	})
	return err
}

// SessionID returns the opaque session token.
func (c *Channel) SessionID() string {
	return c.sessionToken
}

// LedgerName returns the ledger this session is bound to.
func (c *Channel) LedgerName() string {
	return c.ledgerName
}

func pageFrom(page *types.Page) *quill.Page {
	values := make([][]byte, len(page.Values))
	for i, holder := range page.Values {
		values[i] = holder.IonBinary
	}
	return &quill.Page{Values: values, NextPageToken: page.NextPageToken}
}
