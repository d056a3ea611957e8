package storage

import (
	"context"

	"expensetracker/internal/core"
)

// Ports implemented by every persistence backend.
type (
	// ExpenseLoader returns the persisted expenses in stored order. A backend
	// that has never been written to returns an empty slice and no error.
	ExpenseLoader interface {
		Load(ctx context.Context) ([]core.Expense, error)
	}

	// ExpenseSaver replaces the persisted expenses with the given sequence.
	ExpenseSaver interface {
		Save(ctx context.Context, expenses []core.Expense) error
	}

	// Repository is a complete backend. Location names where the data lives
	// for user-facing messages (a path, a spreadsheet range, ...).
	Repository interface {
		ExpenseLoader
		ExpenseSaver
		Location() string
	}
)
