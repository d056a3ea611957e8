package shell

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 3, 18, 30, 0, 0, time.UTC)

type fakePublisher struct {
	added []core.Expense
	saved []int
	err   error
}

func (p *fakePublisher) PublishExpenseAdded(_ context.Context, e core.Expense) error {
	p.added = append(p.added, e)
	return p.err
}

func (p *fakePublisher) PublishExpensesSaved(_ context.Context, count int, _ string) error {
	p.saved = append(p.saved, count)
	return p.err
}

type failingRepo struct{ *memory.Store }

func (failingRepo) Save(context.Context, []core.Expense) error {
	return errors.New("disk full")
}

func run(t *testing.T, input string, repo *memory.Store, pub EventPublisher) (string, error) {
	t.Helper()
	var out bytes.Buffer
	sh := New(Options{
		In:         strings.NewReader(input),
		Out:        &out,
		Repository: repo,
		Publisher:  pub,
		Clock:      func() time.Time { return fixedNow },
	})
	err := sh.Run(context.Background())
	return out.String(), err
}

func TestRunCoffeeRentSession(t *testing.T) {
	repo := memory.New(nil)
	pub := &fakePublisher{}
	input := strings.Join([]string{
		"1", "Coffee", "4.50", "other",
		"1", "Rent", "1200.00", "bills",
		"2",
		"3", "BILLS",
		"5",
		"4",
	}, "\n") + "\n"

	out, err := run(t, input, repo, pub)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Welcome to the Expense Tracker!\n1. Add Expense\n"))
	assert.Contains(t, out, "Enter category (GROCERIES, BILLS, ENTERTAINMENT, TRANSPORT, OTHER):\n")
	assert.Contains(t, out, "Expense added: #1 Coffee 4.5 2025-01-03 OTHER\n")
	assert.Contains(t, out, "Expense added: #2 Rent 1200 2025-01-03 BILLS\n")
	assert.Contains(t, out, "ID\tDescription\tAmount\tDate\tCategory\n"+
		"1\tCoffee\t4.5\t2025-01-03\tOTHER\n"+
		"2\tRent\t1200\t2025-01-03\tBILLS\n")
	assert.Contains(t, out, "Enter category:\nID\tDescription\tAmount\tDate\tCategory\n2\tRent\t1200\t2025-01-03\tBILLS\n")
	assert.Contains(t, out, "Total: 1204.5 (2 expenses)\nBILLS\t1200\nOTHER\t4.5\n")
	assert.True(t, strings.HasSuffix(out, "Expenses saved to memory\nGoodbye!\n"))

	saved, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "Coffee", saved[0].Description)
	assert.True(t, saved[1].Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, core.Bills, saved[1].Category)
	assert.Equal(t, 1, repo.Saves())

	require.Len(t, pub.added, 2)
	assert.Equal(t, []int{2}, pub.saved)
}

func TestRunContinuesAfterLoadedRecords(t *testing.T) {
	repo := memory.New([]core.Expense{{
		ID: 1, Description: "Bus", Amount: decimal.RequireFromString("2.2"),
		Date: core.NewDate(2024, 12, 30), Category: core.Transport,
	}})

	out, err := run(t, "1\nTaxi\n15\ntransport\n2\n4\n", repo, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "1\tBus\t2.2\t2024-12-30\tTRANSPORT\n2\tTaxi\t15\t2025-01-03\tTRANSPORT\n")
}

func TestRunInvalidChoice(t *testing.T) {
	repo := memory.New(nil)
	out, err := run(t, "9\n2\n4\n", repo, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid choice: 9\n")
	assert.Contains(t, out, "List is empty\n")
	assert.Equal(t, 1, repo.Saves())
}

func TestRunParseFailuresAbort(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"bad amount", "1\nCoffee\nfour\n", core.ErrInvalidAmount},
		{"unknown category on add", "1\nCoffee\n4\nfood\n4\n", core.ErrUnknownCategory},
		{"unknown category on filter", "3\nfood\n4\n", core.ErrUnknownCategory},
		{"input closed", "2\n", ErrInputClosed},
		{"empty input", "", ErrInputClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.New(nil)
			_, err := run(t, tt.input, repo, nil)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, repo.Saves(), "nothing is saved on a failed session")
		})
	}
}

func TestRunNonNumericChoice(t *testing.T) {
	repo := memory.New(nil)
	_, err := run(t, "add\n4\n", repo, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read menu choice")
	assert.Equal(t, 0, repo.Saves())
}

func TestRunPublishFailureIsNotFatal(t *testing.T) {
	repo := memory.New(nil)
	pub := &fakePublisher{err: errors.New("broker down")}

	out, err := run(t, "1\nCoffee\n4.50\nOTHER\n4\n", repo, pub)
	require.NoError(t, err)
	assert.Contains(t, out, "Goodbye!\n")
	assert.Len(t, pub.added, 1)
	assert.Equal(t, 1, repo.Saves())
}

func TestRunSaveFailure(t *testing.T) {
	var out bytes.Buffer
	sh := New(Options{
		In:         strings.NewReader("4\n"),
		Out:        &out,
		Repository: failingRepo{memory.New(nil)},
	})

	err := sh.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save expenses")
	assert.NotContains(t, out.String(), "Goodbye!")
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sh := New(Options{In: strings.NewReader("4\n"), Out: &bytes.Buffer{}, Repository: memory.New(nil)})
	require.ErrorIs(t, sh.Run(ctx), context.Canceled)
}

func TestRunLogsEachOperation(t *testing.T) {
	var logs bytes.Buffer
	sh := New(Options{
		In:         strings.NewReader("1\nCoffee\n4.50\nOTHER\n2\n3\nOTHER\n5\n4\n"),
		Out:        &bytes.Buffer{},
		Repository: memory.New(nil),
		Clock:      func() time.Time { return fixedNow },
		Logger:     applog.New(applog.Config{Level: slog.LevelDebug, Output: &logs}),
	})

	require.NoError(t, sh.Run(context.Background()))

	out := logs.String()
	for _, op := range []string{"operation=load", "operation=add", "operation=list", "operation=filter", "operation=total", "operation=save"} {
		assert.Contains(t, out, op)
	}
	assert.Contains(t, out, "component=shell")
	assert.Contains(t, out, "category=OTHER")
	assert.NotContains(t, out, "component=app")
}
