// Package menu is the letter-driven text front end of a tracker.
package menu

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/iloveparkjisung/Database-Assesment/pkg/records"
	"github.com/iloveparkjisung/Database-Assesment/pkg/render"
)

const (
	farewell = "Thanks for using me! \nPlease come again!!!"
	tryAgain = "Please try again!"
)

// option is one lettered menu entry.
type option struct {
	key   string
	label string
	run   func(ctx context.Context) error
}

// Menu reads single-letter choices from in and prints results to out until
// the user types DONE or EXIT, or input ends.
type Menu struct {
	db      *sql.DB
	tracker *records.Tracker
	in      *bufio.Scanner
	out     io.Writer
	logger  *log.Logger

	options []option
}

func New(db *sql.DB, tracker *records.Tracker, in io.Reader, out io.Writer, logger *log.Logger) *Menu {
	m := &Menu{
		db:      db,
		tracker: tracker,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
	m.options = m.buildOptions()
	return m
}

func (m *Menu) buildOptions() []option {
	var opts []option
	add := func(label string, run func(ctx context.Context) error) {
		opts = append(opts, option{key: letter(len(opts)), label: label, run: run})
	}

	add("Show all "+m.tracker.Plural, m.showAll)
	for _, f := range m.tracker.Filters {
		add(f.Label, func(ctx context.Context) error { return m.filter(ctx, f) })
	}
	for _, v := range m.tracker.Views {
		add(v.Label, func(ctx context.Context) error { return m.view(ctx, v) })
	}
	add(m.tracker.Form.Title, m.add)
	return opts
}

// letter returns A for 0, B for 1, and continues with AA after Z.
func letter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return letter(i/26-1) + letter(i%26)
}

// isExit reports whether s is one of the loop sentinels, ignoring case.
func isExit(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s == "DONE" || s == "EXIT"
}

// Run loops until DONE/EXIT, end of input or ctx is cancelled. Handler
// errors are printed and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printMenu()
		line, err := m.readLine("Where would you like to go? ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(m.out)
				fmt.Fprintln(m.out, farewell)
				return nil
			}
			return err
		}

		if isExit(line) {
			fmt.Fprintln(m.out, farewell)
			return nil
		}

		opt, ok := m.lookup(line)
		if !ok {
			fmt.Fprintln(m.out, tryAgain)
			continue
		}

		m.logger.Printf("[DEBUG] Menu option %s (%s) selected\n", opt.key, opt.label)
		if err := opt.run(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(m.out, farewell)
				return nil
			}
			m.logger.Printf("[ERROR] %s failed: %v\n", opt.label, err)
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *Menu) lookup(choice string) (option, bool) {
	choice = strings.ToUpper(strings.TrimSpace(choice))
	for _, o := range m.options {
		if o.key == choice {
			return o, true
		}
	}
	return option{}, false
}

func (m *Menu) printMenu() {
	fmt.Fprintf(m.out, "\nWelcome to the %s\n\n", m.tracker.Title)
	fmt.Fprintf(m.out, "Please enter a letter from %s - %s to navigate through the menu.\n",
		m.options[0].key, m.options[len(m.options)-1].key)
	fmt.Fprintln(m.out, "Please type 'DONE' to exit the database")
	for _, o := range m.options {
		fmt.Fprintf(m.out, "%s: %s\n", o.key, o.label)
	}
	fmt.Fprintln(m.out, "DONE: Exit")
	fmt.Fprintln(m.out)
}

// readLine prints prompt and returns the next input line. It returns io.EOF
// once input is exhausted.
func (m *Menu) readLine(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) printResult(res records.Result, empty string) error {
	if res.Empty() {
		fmt.Fprintln(m.out, empty)
		return nil
	}
	return render.Table(m.out, res)
}

func (m *Menu) showAll(ctx context.Context) error {
	res, err := m.tracker.ShowAll(ctx, m.db)
	if err != nil {
		return err
	}
	return m.printResult(res, fmt.Sprintf("No %s found in the database.", m.tracker.Plural))
}

func (m *Menu) view(ctx context.Context, v records.View) error {
	res, err := records.ViewQuery(ctx, m.db, v.Name)
	if err != nil {
		return err
	}
	return m.printResult(res, "No results found.")
}

// filter asks for a value until it is valid, then runs the filter. Typing
// DONE or EXIT at the prompt returns to the menu.
func (m *Menu) filter(ctx context.Context, f records.Filter) error {
	opts, err := f.Options(ctx, m.db)
	if err != nil {
		return err
	}
	if len(opts) > 0 && f.Hint == "" {
		fmt.Fprintf(m.out, "Here are the options for %s:\n", strings.ToLower(f.Label))
		for _, o := range opts {
			fmt.Fprintf(m.out, " - %s\n", o)
		}
		fmt.Fprintln(m.out)
	} else if f.Hint != "" {
		fmt.Fprintf(m.out, "The values available are %s\n", f.Hint)
	}

	var value string
	for {
		raw, err := m.readLine(f.Prompt + " ")
		if err != nil {
			return err
		}
		if isExit(raw) {
			return nil
		}

		value, err = f.Validate(ctx, m.db, raw)
		if err == nil {
			break
		}
		if errors.Is(err, records.ErrLookupNotFound) || errors.Is(err, records.ErrInvalidField) {
			fmt.Fprintf(m.out, "Sorry unable to find %q, please try again.\n", raw)
			continue
		}
		return err
	}

	res, err := m.tracker.FilterBy(ctx, m.db, f, value)
	if err != nil {
		return err
	}
	return m.printResult(res, fmt.Sprintf("No %s found for %s %s.", m.tracker.Plural, strings.ToLower(f.Label), value))
}

// add walks the tracker's form one field at a time, re-prompting invalid values.
func (m *Menu) add(ctx context.Context) error {
	form := m.tracker.Form
	fmt.Fprintf(m.out, "%s (type DONE to cancel)\n", form.Title)

	vals := records.Values{}
	for _, field := range form.Fields {
		opts, err := records.FieldOptions(ctx, m.db, field)
		if err != nil {
			return err
		}
		prompt := field.Label
		switch {
		case len(opts) > 0:
			prompt += " [" + strings.Join(opts, ", ") + "]"
		case field.Kind == records.FieldInt:
			prompt += fmt.Sprintf(" (%d - %d)", field.Min, field.Max)
		}
		if !field.Required {
			prompt += " (optional)"
		}

		for {
			raw, err := m.readLine(prompt + ": ")
			if err != nil {
				return err
			}
			if isExit(raw) {
				fmt.Fprintln(m.out, "Cancelled.")
				return nil
			}
			if err := records.ValidateField(ctx, m.db, field, raw); err != nil {
				if errors.Is(err, records.ErrLookupNotFound) || errors.Is(err, records.ErrInvalidField) {
					fmt.Fprintf(m.out, "Sorry, %v. Please try again.\n", err)
					continue
				}
				return err
			}
			vals[field.Key] = raw
			break
		}
	}

	msg, err := form.Submit(ctx, m.db, vals)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, msg)
	return nil
}
