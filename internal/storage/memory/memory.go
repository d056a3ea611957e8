// Package memory keeps a saved snapshot of expenses in the process only.
// It is useful for trying the tracker against a real file without ever
// writing to it.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/textfile"
)

var _ storage.Repository = (*Store)(nil)

type Store struct {
	mu    sync.Mutex
	items []core.Expense
	saves int
}

func New(seed []core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), seed...)}
}

// NewFromFile seeds the store from a text file in the textfile format.
// A missing file gives an empty store.
func NewFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	seed, err := textfile.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return New(seed), nil
}

// Load returns a copy of the last saved snapshot.
func (s *Store) Load(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.items...), nil
}

// Save replaces the snapshot.
func (s *Store) Save(_ context.Context, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Expense(nil), expenses...)
	s.saves++
	return nil
}

func (s *Store) Location() string {
	return "memory"
}

// Saves reports how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
