// Package shell runs the interactive menu over a session's expense store.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
)

const (
	welcomeMessage = "Welcome to the Expense Tracker!"
	goodbyeMessage = "Goodbye!"
	menuText       = "1. Add Expense\n2. View Expenses\n3. Filter by Category\n4. Save and Exit\n5. Show Total"
)

const (
	choiceAdd = iota + 1
	choiceView
	choiceFilter
	choiceSaveExit
	choiceTotal
)

// ErrInputClosed is returned when input ends before Save and Exit.
var ErrInputClosed = errors.New("input closed")

// EventPublisher receives notifications about session changes.
type EventPublisher interface {
	PublishExpenseAdded(ctx context.Context, e core.Expense) error
	PublishExpensesSaved(ctx context.Context, count int, location string) error
}

// Options wires a shell to its input, output and backends. Publisher may be
// nil; Clock defaults to time.Now and Logger to a discarding logger.
type Options struct {
	In         io.Reader
	Out        io.Writer
	Repository storage.Repository
	Publisher  EventPublisher
	Clock      func() time.Time
	Logger     *applog.Logger
}

type Shell struct {
	in        *bufio.Scanner
	out       io.Writer
	repo      storage.Repository
	publisher EventPublisher
	clock     func() time.Time
	logger    *applog.Logger
	store     *ledger.Store
}

func New(opts Options) *Shell {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.Config{Output: io.Discard})
	}
	return &Shell{
		in:        bufio.NewScanner(opts.In),
		out:       opts.Out,
		repo:      opts.Repository,
		publisher: opts.Publisher,
		clock:     clock,
		logger:    logger.WithComponent(applog.ComponentShell),
	}
}

// Run loads the persisted expenses and serves the menu until Save and Exit.
// Unparseable input ends the session with an error and nothing is saved.
func (s *Shell) Run(ctx context.Context) error {
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	s.store = ledger.NewStore(loaded)
	s.logger.LogFields(ctx, slog.LevelInfo, "Loaded expenses", applog.NewFields().
		WithOperation(applog.OpLoad).
		WithLocation(s.repo.Location()).
		WithCount(len(loaded)))

	s.println(welcomeMessage)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.println(menuText)
		line, err := s.readLine()
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return fmt.Errorf("read menu choice %q: %w", line, err)
		}

		done, err := s.dispatch(ctx, choice)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, choice int) (bool, error) {
	switch choice {
	case choiceAdd:
		return false, s.add(ctx)
	case choiceView:
		s.logger.LogFields(ctx, slog.LevelDebug, "Listing expenses", applog.NewFields().
			WithOperation(applog.OpList).
			WithCount(s.store.Len()))
		return false, ledger.List(s.out, s.store.Expenses())
	case choiceFilter:
		return false, s.filter(ctx)
	case choiceSaveExit:
		return true, s.saveAndExit(ctx)
	case choiceTotal:
		overview := ledger.Summarize(s.store.Expenses())
		s.logger.LogFields(ctx, slog.LevelDebug, "Showing total", applog.NewFields().
			WithOperation(applog.OpTotal).
			WithCount(overview.Count))
		return false, ledger.PrintOverview(s.out, overview)
	default:
		s.logger.Debug("Unknown menu choice", applog.FieldChoice, choice)
		s.printf("Invalid choice: %d\n", choice)
		return false, nil
	}
}

func (s *Shell) add(ctx context.Context) error {
	description, err := s.prompt("Enter description:")
	if err != nil {
		return err
	}
	rawAmount, err := s.prompt("Enter amount:")
	if err != nil {
		return err
	}
	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return fmt.Errorf("add expense: %w", err)
	}
	rawCategory, err := s.prompt(fmt.Sprintf("Enter category (%s):", core.CategoryNames()))
	if err != nil {
		return err
	}
	category, err := core.ParseCategory(rawCategory)
	if err != nil {
		return fmt.Errorf("add expense: %w", err)
	}

	e := ledger.Add(s.store, s.store.NextID(), description, amount, category, core.DateOf(s.clock()))
	s.println("Expense added: " + e.String())
	s.logger.LogFields(ctx, slog.LevelInfo, "Expense added", applog.NewFields().
		WithOperation(applog.OpAdd).
		WithExpense(e.ID, e.Description, core.FormatAmount(e.Amount), e.Category.String()).
		WithCount(s.store.Len()))

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseAdded(ctx, e); err != nil {
			s.logger.LogFields(ctx, slog.LevelWarn, "Failed to publish expense event", applog.NewFields().
				WithOperation(applog.OpPublish).
				WithError(err))
		}
	}
	return nil
}

func (s *Shell) filter(ctx context.Context) error {
	raw, err := s.prompt("Enter category:")
	if err != nil {
		return err
	}
	category, err := core.ParseCategory(raw)
	if err != nil {
		return fmt.Errorf("filter expenses: %w", err)
	}
	matching := ledger.FilterByCategory(s.store.Expenses(), category)
	fields := applog.NewFields().WithOperation(applog.OpFilter).WithCount(len(matching))
	fields[applog.FieldCategory] = category.String()
	s.logger.LogFields(ctx, slog.LevelDebug, "Filtered expenses", fields)
	return ledger.List(s.out, matching)
}

func (s *Shell) saveAndExit(ctx context.Context) error {
	expenses := s.store.Expenses()
	if err := s.repo.Save(ctx, expenses); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	s.println("Expenses saved to " + s.repo.Location())
	s.logger.LogFields(ctx, slog.LevelInfo, "Saved expenses", applog.NewFields().
		WithOperation(applog.OpSave).
		WithLocation(s.repo.Location()).
		WithCount(len(expenses)))

	if s.publisher != nil {
		if err := s.publisher.PublishExpensesSaved(ctx, len(expenses), s.repo.Location()); err != nil {
			s.logger.LogFields(ctx, slog.LevelWarn, "Failed to publish save event", applog.NewFields().
				WithOperation(applog.OpPublish).
				WithError(err))
		}
	}
	s.println(goodbyeMessage)
	return nil
}

func (s *Shell) prompt(question string) (string, error) {
	s.println(question)
	return s.readLine()
}

func (s *Shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSuffix(s.in.Text(), "\r"), nil
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.out, text)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
