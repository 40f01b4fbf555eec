package transport

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession/types"

	"github.com/vvka-141/quill/pkg/quill"
)

// Dialer establishes ledger sessions. It implements quill.Dialer; the
// driver uses it both for the initial session and for replacements after
// the service invalidates one.
type Dialer struct {
	api    SendCommander
	logger quill.Logger
}

// NewDialer creates a Dialer on an already-constructed session API client.
func NewDialer(api SendCommander, logger quill.Logger) (*Dialer, error) {
	if api == nil {
		return nil, fmt.Errorf("session API client cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Dialer{api: api, logger: logger}, nil
}

// Connect builds a Dialer using the default AWS credential chain
// (environment variables, config files, IAM roles, etc.). endpoint
// optionally overrides the service endpoint, for local ledgers.
func Connect(ctx context.Context, region, endpoint string, logger quill.Logger) (*Dialer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := qldbsession.NewFromConfig(cfg, func(o *qldbsession.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewDialer(client, logger)
}

// Dial starts a session on the named ledger and returns the channel bound
// to it.
func (d *Dialer) Dial(ctx context.Context, ledgerName string) (quill.Channel, error) {
	out, err := d.api.SendCommand(ctx, &qldbsession.SendCommandInput{
		StartSession: &types.StartSessionRequest{
			LedgerName: aws.String(ledgerName),
		},
	})
	if err != nil {
		return nil, classify(err)
	}
	if out.StartSession == nil || out.StartSession.SessionToken == nil {
		return nil, clientErrorf("service returned no session token")
	}

	d.logger.Verbose("started session on ledger %s", ledgerName)
	return &Channel{
		api:          d.api,
		sessionToken: *out.StartSession.SessionToken,
		ledgerName:   ledgerName,
		logger:       d.logger,
	}, nil
}
