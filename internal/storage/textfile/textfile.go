// Package textfile persists expenses as one comma-separated line per record:
//
//	<id>,<description>,<amount>,<YYYY-MM-DD>,<CATEGORY>
//
// Fields are quoted only when they contain a comma, a quote, a line break or
// leading whitespace, so files without such descriptions are plain
// comma-joined text. Plain lines whose fields happen to contain quotes are
// read as written.
package textfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// DefaultPath is the file used when no other path is configured.
const DefaultPath = "expenses.txt"

var _ storage.Repository = (*File)(nil)

type File struct {
	path string
}

func New(path string) *File {
	if path == "" {
		path = DefaultPath
	}
	return &File{path: path}
}

func (f *File) Location() string {
	return f.path
}

// Load reads every record of the file. A missing file is the first-run case
// and yields an empty slice; any malformed line fails the whole load.
func (f *File) Load(ctx context.Context) ([]core.Expense, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Expense file not found, starting empty", "path", f.path)
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	expenses, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.path, err)
	}
	slog.DebugContext(ctx, "Expenses loaded from file", "path", f.path, "count", len(expenses))
	return expenses, nil
}

// Save overwrites the file with exactly one line per expense.
func (f *File) Save(ctx context.Context, expenses []core.Expense) error {
	var buf bytes.Buffer
	if err := Encode(&buf, expenses); err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	if err := os.WriteFile(f.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	slog.DebugContext(ctx, "Expenses saved to file", "path", f.path, "count", len(expenses))
	return nil
}

// Encode writes the records separated by newlines, without a newline after
// the last one.
func Encode(w io.Writer, expenses []core.Expense) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	for _, e := range expenses {
		if err := cw.Write(e.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// Decode parses one record per line until EOF. Errors carry the offending
// line number, and a blank line is malformed like any other bad line.
func Decode(r io.Reader) ([]core.Expense, error) {
	sc := bufio.NewScanner(r)
	expenses := []core.Expense{}
	for line := 1; sc.Scan(); line++ {
		e, err := core.ExpenseFromFields(splitLine(strings.TrimSuffix(sc.Text(), "\r")))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		expenses = append(expenses, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return expenses, nil
}

// splitLine reads a line written by Encode. A line that is not well-formed
// quoted text, such as a plain line whose description starts with a quote,
// is split on every comma instead.
func splitLine(line string) []string {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	if fields, err := cr.Read(); err == nil && len(fields) == core.FieldCount {
		return fields
	}
	return strings.Split(line, ",")
}
