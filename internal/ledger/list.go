package ledger

import (
	"fmt"
	"io"

	"expensetracker/internal/core"
)

// EmptyNotice is printed by List when there is nothing to show.
const EmptyNotice = "List is empty"

const listHeader = "ID\tDescription\tAmount\tDate\tCategory"

// List prints a header and one tab-separated row per expense, or only
// EmptyNotice when expenses is empty.
func List(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		_, err := fmt.Fprintln(w, EmptyNotice)
		return err
	}
	if _, err := fmt.Fprintln(w, listHeader); err != nil {
		return err
	}
	for _, e := range expenses {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Description, core.FormatAmount(e.Amount), e.Date, e.Category); err != nil {
			return err
		}
	}
	return nil
}

// PrintOverview writes the total line followed by one line per category.
func PrintOverview(w io.Writer, o core.Overview) error {
	if _, err := fmt.Fprintf(w, "Total: %s (%d expenses)\n", core.FormatAmount(o.Total), o.Count); err != nil {
		return err
	}
	for _, ca := range o.ByCategory {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", ca.Category, core.FormatAmount(ca.Amount)); err != nil {
			return err
		}
	}
	return nil
}
