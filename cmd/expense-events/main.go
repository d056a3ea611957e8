package main

import (
	"context"
	"errors"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/cli"
	applog "expensetracker/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors when absent)
	cli.LoadEnvFile()

	cfg, cfgErr := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(applog.ComponentEvents)
	if cfgErr != nil {
		cli.Fatal(logger, "Configuration validation failed", cfgErr)
	}
	if cfg.AMQPURL == "" {
		cli.Fatal(logger, "Cannot consume events", errors.New("AMQP_URL is not set"))
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	logger.Info("Starting expense-events", "queue", cfg.AMQPQueue)

	client, err := amqp.NewClient(ctx, amqp.Options{
		URL:            cfg.AMQPURL,
		Exchange:       cfg.AMQPExchange,
		Queue:          cfg.AMQPQueue,
		DialRetries:    cfg.AMQPDialRetries,
		PublishTimeout: cfg.AMQPTimeout,
		Logger:         logger,
	})
	if err != nil {
		stop()
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}

	err = client.ConsumeEvents(ctx, func(ctx context.Context, ev *amqp.Event) error {
		fields := applog.NewFields().WithOperation(applog.OpConsume)
		fields[applog.FieldEventType] = ev.Type
		switch ev.Type {
		case amqp.EventExpenseAdded:
			if ev.Expense == nil {
				logger.LogFields(ctx, slog.LevelWarn, "Dropping event without expense", fields)
				return nil
			}
			fields.WithExpense(ev.Expense.ID, ev.Expense.Description, ev.Expense.Amount, ev.Expense.Category)
		case amqp.EventExpensesSaved:
			fields.WithLocation(ev.Location).WithCount(ev.Count)
		}
		logger.LogFields(ctx, slog.LevelInfo, "Received expense event", fields)
		return nil
	})
	client.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		stop()
		cli.Fatal(logger, "Message consumption failed", err)
	}

	logger.LogFields(ctx, slog.LevelInfo, "Shutdown complete", applog.NewFields().WithOperation(applog.OpShutdown))
}
