// Package core provides the expense domain types and their text forms.
//
// This file contains the amount parsing used for interactive input and
// for records read back from storage.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input to a decimal amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// The sign is not checked, so refunds may be recorded as negative amounts.
//
// Examples:
//
//	ParseAmount("4.50")  -> 4.5, nil
//	ParseAmount("4,50")  -> 4.5, nil
//	ParseAmount("-3")    -> -3, nil
//	ParseAmount("four")  -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	return parseStoredAmount(s)
}

// parseStoredAmount is the strict form used for persisted records, where
// the comma is never a decimal separator.
func parseStoredAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return amount, nil
}

// FormatAmount renders an amount the way it is stored: shortest exact form.
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}
