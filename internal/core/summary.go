package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// Overview is the total of a set of expenses with its per-category breakdown.
type Overview struct {
	Count      int
	Total      decimal.Decimal
	ByCategory []CategoryAmount
}
