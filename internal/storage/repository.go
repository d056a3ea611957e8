package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"

	_ "modernc.org/sqlite"
)

const (
	selectExpensesSQL = `SELECT id, description, amount, date, category FROM expenses ORDER BY position`
	deleteExpensesSQL = `DELETE FROM expenses`
	insertExpenseSQL  = `INSERT INTO expenses (position, id, description, amount, date, category) VALUES (?, ?, ?, ?, ?, ?)`
)

var _ Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("Expenses schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Location() string {
	return r.path
}

// Load returns the stored expenses in saved order. Rows go through the same
// field parsing as the text file, so a bad row fails the whole load.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, selectExpensesSQL)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var id, description, amount, date, category string
		if err := rows.Scan(&id, &description, &amount, &date, &category); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := core.ExpenseFromFields([]string{id, description, amount, date, category})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(expenses)+1, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	slog.DebugContext(ctx, "Expenses loaded from SQLite", "path", r.path, "count", len(expenses))
	return expenses, nil
}

// Save replaces every stored row with expenses inside one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteExpensesSQL); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertExpenseSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range expenses {
		f := e.Fields()
		if _, err := stmt.ExecContext(ctx, i+1, e.ID, f[1], f[2], f[3], f[4]); err != nil {
			return fmt.Errorf("insert expense %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit expenses: %w", err)
	}

	slog.InfoContext(ctx, "Expenses saved to SQLite", "path", r.path, "count", len(expenses))
	return nil
}
