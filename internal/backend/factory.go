package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/amqp"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
	gsheet "expensetracker/internal/storage/google"
	"expensetracker/internal/storage/memory"
	"expensetracker/internal/storage/textfile"
)

var _ Factory = (*DefaultFactory)(nil)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *DefaultFactory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *Result
		err    error
	)
	switch config.Type {
	case FileBackend:
		result = &Result{Repository: textfile.New(config.ExpensesFile)}
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case SheetsBackend:
		result, err = f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		result, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.logger.LogFields(ctx, slog.LevelInfo, "Initialized backend", applog.NewFields().
		WithOperation(applog.OpStartup).
		WithStorage(config.Type.String(), result.Repository.Location()))
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	return &Result{
		Repository: sqliteRepo,
		Cleanup:    sqliteRepo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*Result, error) {
	cli, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SheetName:       config.GoogleSheetName,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	return &Result{Repository: cli}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	store, err := memory.NewFromFile(config.ExpensesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}
	return &Result{Repository: store}, nil
}

// CreatePublisher connects the expense event publisher. It returns nil when
// events are disabled or the broker cannot be reached.
func (f *DefaultFactory) CreatePublisher(ctx context.Context, config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(ctx, amqp.Options{
		URL:            config.AMQPURL,
		Exchange:       config.AMQPExchange,
		Queue:          config.AMQPQueue,
		DialRetries:    config.AMQPDialRetries,
		PublishTimeout: config.AMQPPublishTimeout,
		Logger:         f.logger,
	})
	if err != nil {
		f.logger.LogFields(ctx, slog.LevelWarn, "Failed to initialize AMQP client, continuing without events",
			applog.NewFields().WithOperation(applog.OpStartup).WithError(err))
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
