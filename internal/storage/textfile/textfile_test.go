package textfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records() []core.Expense {
	return []core.Expense{
		{ID: 1, Description: "Coffee", Amount: decimal.RequireFromString("4.50"), Date: core.NewDate(2025, 1, 2), Category: core.Other},
		{ID: 2, Description: "Rent", Amount: decimal.RequireFromString("1200.00"), Date: core.NewDate(2025, 1, 3), Category: core.Bills},
		{ID: 3, Description: "Refund", Amount: decimal.RequireFromString("-15.25"), Date: core.NewDate(2025, 1, 4), Category: core.Entertainment},
	}
}

func assertSameExpenses(t *testing.T, want, got []core.Expense) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "record %d: want %v, got %v", i, want[i], got[i])
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "nope.txt"))

	got, err := f.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSaveWritesPlainLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	f := New(path)

	require.NoError(t, f.Save(context.Background(), records()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"1,Coffee,4.5,2025-01-02,OTHER\n"+
			"2,Rent,1200,2025-01-03,BILLS\n"+
			"3,Refund,-15.25,2025-01-04,ENTERTAINMENT",
		string(data))
}

func TestSaveEmptyTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	require.NoError(t, os.WriteFile(path, []byte("old content"), 0o644))

	require.NoError(t, New(path).Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	got, err := New(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRoundTrip(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "expenses.txt"))
	want := records()
	want = append(want,
		core.Expense{ID: 4, Description: "Dinner, drinks", Amount: decimal.NewFromInt(40), Date: core.NewDate(2025, 2, 1), Category: core.Entertainment},
		core.Expense{ID: 5, Description: `The "big" shop`, Amount: decimal.RequireFromString("0.99"), Date: core.NewDate(2025, 2, 2), Category: core.Groceries},
		core.Expense{ID: 6, Description: " padded", Amount: decimal.NewFromInt(1), Date: core.NewDate(2025, 2, 3), Category: core.Transport},
	)

	require.NoError(t, f.Save(context.Background(), want))
	got, err := f.Load(context.Background())

	require.NoError(t, err)
	assertSameExpenses(t, want, got)
}

func TestLoadLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	content := "1,Coffee,4.5,2024-12-01,OTHER\n2,Rent,1200.0,2024-12-02,BILLS\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := New(path).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rent", got[1].Description)
	assert.True(t, got[1].Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, "2024-12-02", got[1].Date.String())
}

func TestLoadLegacyFileWithQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	content := "1,\"Best\" shop,1,2024-01-01,OTHER\r\n" +
		"2,Dinner at \"Mario's\",30.0,2024-01-02,ENTERTAINMENT\n" +
		"3,12\" pizza,9.5,2024-01-03,GROCERIES\n" +
		"4,\"Coffee,4.5,2024-01-04,OTHER"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := New(path).Load(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, `"Best" shop`, got[0].Description)
	assert.Equal(t, core.Other, got[0].Category)
	assert.Equal(t, `Dinner at "Mario's"`, got[1].Description)
	assert.Equal(t, `12" pizza`, got[2].Description)
	assert.True(t, got[2].Amount.Equal(decimal.RequireFromString("9.5")))
	assert.Equal(t, `"Coffee`, got[3].Description)
}

func TestLoadMalformedLineFailsWholeLoad(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
		line    string
	}{
		{"bad amount", "1,Coffee,4.5,2024-12-01,OTHER\n2,Rent,lots,2024-12-02,BILLS", core.ErrInvalidAmount, "line 2"},
		{"bad category", "1,Coffee,4.5,2024-12-01,Other", core.ErrUnknownCategory, "line 1"},
		{"bad date", "1,Coffee,4.5,12/01/2024,OTHER", core.ErrInvalidDate, "line 1"},
		{"bad id", "one,Coffee,4.5,2024-12-01,OTHER", core.ErrInvalidID, "line 1"},
		{"unescaped comma", "1,Coffee, milk,4.5,2024-12-01,OTHER", core.ErrFieldCount, "line 1"},
		{"blank line", "1,Coffee,4.5,2024-12-01,OTHER\n\n2,Rent,1200,2024-12-02,BILLS", core.ErrFieldCount, "line 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "expenses.txt")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			got, err := New(path).Load(context.Background())

			assert.Nil(t, got)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, strings.Contains(err.Error(), tc.line), "error %q should name %s", err, tc.line)
		})
	}
}

func TestNewDefaultsPath(t *testing.T) {
	assert.Equal(t, DefaultPath, New("").Location())
	assert.Equal(t, "x.txt", New("x.txt").Location())
}
