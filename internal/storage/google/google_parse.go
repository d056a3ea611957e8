package google

import (
	"fmt"
	"strings"

	"expensetracker/internal/core"
)

// parseRows converts a values matrix (as returned by Sheets API) into
// expenses. Rows that are entirely blank are skipped; the API drops trailing
// empty cells, so short rows are padded before the field count check.
func parseRows(values [][]interface{}) ([]core.Expense, error) {
	expenses := []core.Expense{}
	for i, row := range values {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		for len(cols) < core.FieldCount {
			cols = append(cols, "")
		}
		e, err := core.ExpenseFromFields(cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func toRows(expenses []core.Expense) [][]interface{} {
	rows := make([][]interface{}, len(expenses))
	for i, e := range expenses {
		fields := e.Fields()
		row := make([]interface{}, len(fields))
		for j, f := range fields {
			row[j] = f
		}
		rows[i] = row
	}
	return rows
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
