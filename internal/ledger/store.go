// Package ledger holds the session's expense store and the record
// operations that read and extend it.
package ledger

import "expensetracker/internal/core"

// Store is the ordered sequence of expenses for one session. It has a
// single owner and is not safe for concurrent use.
type Store struct {
	items []core.Expense
}

// NewStore seeds a store with previously loaded records, keeping their order.
func NewStore(loaded []core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), loaded...)}
}

// Append adds e at the end of the store.
func (s *Store) Append(e core.Expense) {
	s.items = append(s.items, e)
}

// Expenses returns the records in insertion order.
func (s *Store) Expenses() []core.Expense {
	return append([]core.Expense(nil), s.items...)
}

func (s *Store) Len() int {
	return len(s.items)
}

// NextID is the id given to the next added record: current size + 1.
func (s *Store) NextID() int {
	return len(s.items) + 1
}
