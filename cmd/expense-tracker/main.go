package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/shell"
)

func main() {
	// Load .env file for local development (ignore errors when absent)
	cli.LoadEnvFile()

	cfg, cfgErr := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)
	if cfgErr != nil {
		cli.Fatal(logger, "Configuration validation failed", cfgErr)
	}

	ctx, stop := cli.SignalContext(context.Background())
	err := run(ctx, cfg, logger, os.Stdin, os.Stdout)
	stop()
	if err != nil {
		cli.Fatal(logger, "Session ended with an error", err)
	}
}

// run serves one session and releases the backend and the publisher before
// returning, so the caller may exit right after.
func run(ctx context.Context, cfg *config.Config, logger *applog.Logger, in io.Reader, out io.Writer) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}

	factory := backend.NewFactory(logger)
	res, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	opts := shell.Options{
		In:         in,
		Out:        out,
		Repository: res.Repository,
		Logger:     logger,
	}
	if publisher := factory.CreatePublisher(ctx, backendCfg); publisher != nil {
		defer publisher.Close()
		opts.Publisher = publisher
	}

	err = shell.New(opts).Run(ctx)
	logger.LogFields(ctx, slog.LevelInfo, "Session finished", applog.NewFields().
		WithOperation(applog.OpShutdown).
		WithError(err))
	return err
}
