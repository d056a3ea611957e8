package backend

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/memory"
	"expensetracker/internal/storage/textfile"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietFactory() *DefaultFactory {
	return NewFactory(applog.New(applog.Config{Output: io.Discard}))
}

func sampleExpenses() []core.Expense {
	return []core.Expense{{
		ID: 1, Description: "Coffee", Amount: decimal.RequireFromString("4.5"),
		Date: core.NewDate(2025, 1, 3), Category: core.Other,
	}}
}

func TestCreateFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: FileBackend, ExpensesFile: path})
	require.NoError(t, err)
	defer res.Close()

	assert.IsType(t, &textfile.File{}, res.Repository)
	assert.Equal(t, path, res.Repository.Location())
	assert.Nil(t, res.Cleanup)
}

func TestCreateMemoryBackendSeedsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,Coffee,4.5,2025-01-03,OTHER"), 0o644))

	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: MemoryBackend, ExpensesFile: path})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, res.Repository)

	got, err := res.Repository.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(sampleExpenses()[0]))

	// Saving never touches the seed file
	require.NoError(t, res.Repository.Save(context.Background(), nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Coffee,4.5,2025-01-03,OTHER", string(data))
}

func TestCreateSQLiteBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "expenses.db")
	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
	require.NoError(t, err)
	require.NotNil(t, res.Cleanup)

	var repo storage.Repository = res.Repository
	require.NoError(t, repo.Save(context.Background(), sampleExpenses()))
	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NoError(t, res.Close())
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"unknown type", Config{Type: "postgres"}},
		{"file without path", Config{Type: FileBackend}},
		{"sqlite without path", Config{Type: SQLiteBackend}},
		{"sheets without spreadsheet", Config{Type: SheetsBackend}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := quietFactory().CreateBackend(context.Background(), tt.config)
			assert.Error(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestCreatePublisherDisabled(t *testing.T) {
	assert.Nil(t, quietFactory().CreatePublisher(context.Background(), Config{Type: FileBackend}))
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "postgres"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:     "sqlite",
		ExpensesFile:    "expenses.txt",
		SQLiteDBPath:    "./data/expenses.db",
		AMQPURL:         "amqp://localhost",
		AMQPDialRetries: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, "./data/expenses.db", cfg.SQLiteDBPath)
	assert.Equal(t, "amqp://localhost", cfg.AMQPURL)
	assert.Equal(t, 3, cfg.AMQPDialRetries)
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"file", "sqlite", "sheets", "memory"}, GetBackendTypeStrings())
}

func TestResultCloseWithoutCleanup(t *testing.T) {
	var res *Result
	assert.NoError(t, res.Close())
	assert.NoError(t, (&Result{}).Close())
}
