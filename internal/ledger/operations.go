package ledger

import (
	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// Add builds an expense dated on and appends it to the store.
// Amount sign, description content and id uniqueness are not checked.
func Add(s *Store, id int, description string, amount decimal.Decimal, category core.Category, on core.Date) core.Expense {
	e := core.Expense{
		ID:          id,
		Description: description,
		Amount:      amount,
		Date:        on,
		Category:    category,
	}
	s.Append(e)
	return e
}

// FilterByCategory returns the records whose category equals c, in their
// original order. The input is not modified.
func FilterByCategory(expenses []core.Expense, c core.Category) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the amounts; an empty sequence totals zero.
func Total(expenses []core.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Summarize totals the expenses and breaks the total down by category in
// enumeration order. Categories without records are left out.
func Summarize(expenses []core.Expense) core.Overview {
	overview := core.Overview{Count: len(expenses), Total: Total(expenses)}
	for _, c := range core.Categories() {
		matching := FilterByCategory(expenses, c)
		if len(matching) == 0 {
			continue
		}
		overview.ByCategory = append(overview.ByCategory, core.CategoryAmount{
			Category: c,
			Amount:   Total(matching),
		})
	}
	return overview
}
