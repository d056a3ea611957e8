package backend

import (
	"context"
	"time"

	"expensetracker/internal/storage"
)

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// Result contains the repository and optional cleanup function
type Result struct {
	Repository storage.Repository
	Cleanup    CleanupFunc
}

// Close runs the cleanup function if there is one
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates repositories based on configuration
type Factory interface {
	// CreateBackend creates a repository based on the provided config
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Text file and memory seed
	ExpensesFile string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Expense events, empty URL disables them
	AMQPURL            string
	AMQPExchange       string
	AMQPQueue          string
	AMQPDialRetries    int
	AMQPPublishTimeout time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
