package amqp

import (
	"encoding/json"
	"time"

	"expensetracker/internal/core"
)

// Event types, also used as the AMQP message type property
const (
	EventExpenseAdded  = "expense.added"
	EventExpensesSaved = "expenses.saved"
)

// ExpensePayload is the wire form of a single expense, using the same text
// forms as the persisted record
type ExpensePayload struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
}

// Event is published for every add and every save of the session
type Event struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Expense   *ExpensePayload `json:"expense,omitempty"`
	Count     int             `json:"count,omitempty"`
	Location  string          `json:"location,omitempty"`
}

// NewExpenseAddedEvent describes a newly recorded expense
func NewExpenseAddedEvent(e core.Expense) *Event {
	return &Event{
		Type:      EventExpenseAdded,
		Timestamp: time.Now(),
		Expense: &ExpensePayload{
			ID:          e.ID,
			Description: e.Description,
			Amount:      core.FormatAmount(e.Amount),
			Date:        e.Date.String(),
			Category:    string(e.Category),
		},
	}
}

// NewExpensesSavedEvent reports how many records were written and where
func NewExpensesSavedEvent(count int, location string) *Event {
	return &Event{
		Type:      EventExpensesSaved,
		Timestamp: time.Now(),
		Count:     count,
		Location:  location,
	}
}

// ToJSON converts the event to JSON bytes
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes
func EventFromJSON(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
