package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/quill/internal/config"
	"github.com/vvka-141/quill/internal/logging"
	"github.com/vvka-141/quill/internal/retry"
	"github.com/vvka-141/quill/internal/transport"
	"github.com/vvka-141/quill/pkg/quill"
)

// connectionSettings is the merged view of flags, quill.yaml, and the
// environment. Flags win over the file, the file wins over the
// environment.
type connectionSettings struct {
	ledger      string
	region      string
	endpoint    string
	retryLimit  int
	backoffBase time.Duration
	backoffCap  time.Duration
}

func resolveSettings(cmd *cobra.Command) (*connectionSettings, error) {
	// .env is optional; ignore a missing file
	_ = godotenv.Load()

	dir, _ := cmd.Flags().GetString("dir")
	cfg, err := config.Load(dir)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: %v", quill.ErrInvalidConfig, err)
		}
		cfg = &config.ProjectConfig{}
	}

	settings := &connectionSettings{
		ledger:     cfg.Connection.Ledger,
		region:     cfg.Connection.Region,
		endpoint:   cfg.Connection.Endpoint,
		retryLimit: quill.DefaultRetryLimit,
	}
	if cfg.Retry.Limit != nil {
		settings.retryLimit = *cfg.Retry.Limit
	}
	settings.backoffBase, settings.backoffCap, err = cfg.Retry.BackoffDurations(quill.DefaultBackoffBase, quill.DefaultBackoffCap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", quill.ErrInvalidConfig, err)
	}

	if ledger, _ := cmd.Flags().GetString("ledger"); ledger != "" {
		settings.ledger = ledger
	}
	if region, _ := cmd.Flags().GetString("region"); region != "" {
		settings.region = region
	}
	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		settings.endpoint = endpoint
	}
	if settings.region == "" {
		settings.region = os.Getenv("AWS_REGION")
	}

	if settings.ledger == "" {
		return nil, fmt.Errorf("%w: ledger name is required (use --ledger or quill.yaml)", quill.ErrInvalidConfig)
	}
	if settings.region == "" {
		return nil, fmt.Errorf("%w: region is required (use --region, quill.yaml, or $AWS_REGION)", quill.ErrInvalidConfig)
	}
	return settings, nil
}

// openSession connects to the ledger described by the command's settings.
// The returned cleanup closes the session and must always be called.
func openSession(ctx context.Context, cmd *cobra.Command) (*quill.Session, func(), error) {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))
	runID := uuid.New().String()[:8]
	logger.Verbose("run %s: connecting to ledger %s in %s", runID, settings.ledger, settings.region)

	dialer, err := transport.Connect(ctx, settings.region, settings.endpoint, logger)
	if err != nil {
		return nil, nil, err
	}

	session, err := quill.New(ctx, settings.ledger, dialer,
		quill.WithLogger(logger),
		quill.WithRetryLimit(settings.retryLimit),
		quill.WithBackoff(retry.NewFullJitter(settings.backoffBase, settings.backoffCap)),
	)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		session.Close(context.Background())
	}
	return session, cleanup, nil
}
