package core

import (
	"fmt"
	"strconv"
)

// FieldCount is the number of fields in a persisted expense record.
const FieldCount = 5

// Fields returns the persisted form of e in the fixed order
// id, description, amount, date, category.
func (e Expense) Fields() []string {
	return []string{
		strconv.Itoa(e.ID),
		e.Description,
		FormatAmount(e.Amount),
		e.Date.String(),
		string(e.Category),
	}
}

// ExpenseFromFields rebuilds an expense from its persisted fields.
// Any field that fails to parse rejects the whole record.
func ExpenseFromFields(fields []string) (Expense, error) {
	if len(fields) != FieldCount {
		return Expense{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), FieldCount)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Expense{}, fmt.Errorf("%w: %q", ErrInvalidID, fields[0])
	}
	amount, err := parseStoredAmount(fields[2])
	if err != nil {
		return Expense{}, err
	}
	date, err := ParseDate(fields[3])
	if err != nil {
		return Expense{}, err
	}
	category, err := CategoryFromName(fields[4])
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		ID:          id,
		Description: fields[1],
		Amount:      amount,
		Date:        date,
		Category:    category,
	}, nil
}
