package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Groceries     Category = "GROCERIES"
	Bills         Category = "BILLS"
	Entertainment Category = "ENTERTAINMENT"
	Transport     Category = "TRANSPORT"
	Other         Category = "OTHER"
)

// DateLayout is the calendar form used wherever a date is written as text.
const DateLayout = "2006-01-02"

type (
	Category string

	Date struct {
		time.Time
	}

	Expense struct {
		ID          int
		Description string
		Amount      decimal.Decimal
		Date        Date
		Category    Category
	}
)

var (
	ErrUnknownCategory = errors.New("unrecognized category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidID       = errors.New("invalid id")
	ErrFieldCount      = errors.New("wrong number of fields")
)

var categories = []Category{Groceries, Bills, Entertainment, Transport, Other}

// Categories returns the enumeration in declaration order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoryNames returns the textual names joined for prompts, e.g. "GROCERIES, BILLS, ...".
func CategoryNames() string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// CategoryFromName matches a stored category name exactly (case-sensitive).
func CategoryFromName(name string) (Category, error) {
	for _, c := range categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// ParseCategory normalizes free-text user input before matching it.
func ParseCategory(input string) (Category, error) {
	return CategoryFromName(strings.ToUpper(strings.TrimSpace(input)))
}

func (c Category) String() string {
	return string(c)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate reads a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (e Expense) String() string {
	return fmt.Sprintf("#%d %s %s %s %s", e.ID, e.Description, e.Amount.String(), e.Date, e.Category)
}

// Equal reports field-wise equality; amounts compare by value.
func (e Expense) Equal(o Expense) bool {
	return e.ID == o.ID &&
		e.Description == o.Description &&
		e.Amount.Equal(o.Amount) &&
		e.Date.Equal(o.Date.Time) &&
		e.Category == o.Category
}
