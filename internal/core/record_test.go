package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestExpenseFields(t *testing.T) {
	e := Expense{
		ID:          7,
		Description: "Rent",
		Amount:      decimal.RequireFromString("1200.00"),
		Date:        NewDate(2025, 2, 1),
		Category:    Bills,
	}
	got := e.Fields()
	want := []string{"7", "Rent", "1200", "2025-02-01", "BILLS"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	back, err := ExpenseFromFields(got)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !back.Equal(e) {
		t.Fatalf("expected %v, got %v", e, back)
	}
}

func TestExpenseFromFieldsAcceptsLegacyAmounts(t *testing.T) {
	e, err := ExpenseFromFields([]string{"2", "Rent", "1200.0", "2024-11-30", "BILLS"})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !e.Amount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("unexpected amount %s", e.Amount)
	}
}

func TestExpenseFromFieldsErrors(t *testing.T) {
	cases := []struct {
		name   string
		fields []string
		want   error
	}{
		{"too few", []string{"1", "a", "1", "2025-01-01"}, ErrFieldCount},
		{"too many", []string{"1", "a", "b", "1", "2025-01-01", "OTHER"}, ErrFieldCount},
		{"bad id", []string{"x", "a", "1", "2025-01-01", "OTHER"}, ErrInvalidID},
		{"bad amount", []string{"1", "a", "1,5", "2025-01-01", "OTHER"}, ErrInvalidAmount},
		{"bad date", []string{"1", "a", "1", "01/01/2025", "OTHER"}, ErrInvalidDate},
		{"lowercase category", []string{"1", "a", "1", "2025-01-01", "other"}, ErrUnknownCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExpenseFromFields(tc.fields)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
