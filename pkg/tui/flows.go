// Package tui is the dialog front end of a tracker: a main button box that
// leads to modal dialogs for listing, filtering, views and adding records.
package tui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/iloveparkjisung/Database-Assesment/pkg/records"
	"github.com/iloveparkjisung/Database-Assesment/pkg/render"
)

const (
	choiceViews = "Views"
	choiceExit  = "Exit"

	titleDatabaseError = "Database Error"
	titleInputError    = "Input Error"
)

type app struct {
	db      *sql.DB
	tracker *records.Tracker
	ui      Prompter
	logger  *log.Logger
}

// Run shows the main menu until the user picks Exit or cancels it. Failures
// of a single operation are reported in a message box and the menu is shown
// again; only a broken terminal ends Run with an error.
func Run(ctx context.Context, db *sql.DB, tracker *records.Tracker, ui Prompter, logger *log.Logger) error {
	a := &app{db: db, tracker: tracker, ui: ui, logger: logger}

	welcome := fmt.Sprintf("Welcome to the %s, what would you like to do?", tracker.Title)
	if name := dbFileName(db); name != "" {
		welcome += "\n(" + name + ")"
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := ui.Button("Main Menu", welcome, a.mainChoices())
		if errors.Is(err, ErrCancelled) || choice == choiceExit {
			return nil
		}
		if err != nil {
			return err
		}

		logger.Printf("[DEBUG] Dialog menu choice %q\n", choice)
		if err := a.dispatch(ctx, choice); err != nil && !errors.Is(err, ErrCancelled) {
			return err
		}
	}
}

func (a *app) showAllChoice() string {
	return "Show all " + a.tracker.Plural
}

func (a *app) mainChoices() []string {
	choices := []string{a.showAllChoice()}
	for _, f := range a.tracker.Filters {
		choices = append(choices, f.Label)
	}
	if len(a.tracker.Views) > 0 {
		choices = append(choices, choiceViews)
	}
	return append(choices, a.tracker.Form.Title, choiceExit)
}

// dispatch runs one main menu choice. It returns only Prompter errors;
// database and validation errors are shown to the user.
func (a *app) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case a.showAllChoice():
		return a.showAll(ctx)
	case choiceViews:
		return a.views(ctx)
	case a.tracker.Form.Title:
		return a.add(ctx)
	}
	for _, f := range a.tracker.Filters {
		if f.Label == choice {
			return a.filter(ctx, f)
		}
	}
	return nil
}

// reportError shows err in a message box.
func (a *app) reportError(action string, err error) error {
	a.logger.Printf("[ERROR] %s: %v\n", action, err)

	switch {
	case errors.Is(err, records.ErrDuplicate):
		return a.ui.Message(titleDatabaseError, "Error: "+capitalize(err.Error())+".")
	case errors.Is(err, records.ErrInvalidField), errors.Is(err, records.ErrLookupNotFound):
		return a.ui.Message(titleInputError, capitalize(err.Error()))
	default:
		return a.ui.Message(titleDatabaseError, fmt.Sprintf("Failed to %s: %v", action, err))
	}
}

func (a *app) showResult(title, heading string, res records.Result, empty string) error {
	if res.Empty() {
		return a.ui.Message(title, empty)
	}
	return a.ui.Text(title, heading, render.Fixed(res, render.DefaultMaxColumnWidth))
}

func (a *app) showAll(ctx context.Context) error {
	res, err := a.tracker.ShowAll(ctx, a.db)
	if err != nil {
		return a.reportError("retrieve "+a.tracker.Plural, err)
	}
	return a.showResult("All "+a.tracker.Plural, a.tracker.Title,
		res, fmt.Sprintf("No %s found in the database.", a.tracker.Plural))
}

func (a *app) views(ctx context.Context) error {
	labels := make([]string, len(a.tracker.Views))
	for i, v := range a.tracker.Views {
		labels[i] = v.Label
	}

	label, err := a.ui.Choice(choiceViews, "Which view would you like to see?", labels)
	if err != nil {
		return err
	}

	for _, v := range a.tracker.Views {
		if v.Label != label {
			continue
		}
		res, err := records.ViewQuery(ctx, a.db, v.Name)
		if err != nil {
			return a.reportError("show "+v.Name, err)
		}
		return a.showResult(v.Label, v.Name, res, "No results found.")
	}
	return nil
}

// filter asks for the filter value, from a choice box when the accepted
// values are known, and shows the matching rows.
func (a *app) filter(ctx context.Context, f records.Filter) error {
	opts, err := f.Options(ctx, a.db)
	if err != nil {
		return a.reportError("list "+strings.ToLower(f.Label)+" values", err)
	}

	var value string
	if len(opts) > 0 {
		value, err = a.ui.Choice(f.Label, f.Prompt, opts)
		if err != nil {
			return err
		}
	} else {
		prompt := f.Prompt
		if f.Hint != "" {
			prompt += " (" + f.Hint + ")"
		}
		for {
			raw, err := a.ui.Enter(f.Label, prompt)
			if err != nil {
				return err
			}
			value, err = f.Validate(ctx, a.db, raw)
			if err == nil {
				break
			}
			if !isUserError(err) {
				return a.reportError("check "+strings.ToLower(f.Label), err)
			}
			if err := a.ui.Message(titleInputError, fmt.Sprintf("Sorry unable to find %q, please try again.", raw)); err != nil {
				return err
			}
		}
	}

	res, err := a.tracker.FilterBy(ctx, a.db, f, value)
	if err != nil {
		return a.reportError("retrieve "+a.tracker.Plural, err)
	}
	return a.showResult(f.Label+" Results",
		fmt.Sprintf("%s with %s %s", capitalize(a.tracker.Plural), strings.ToLower(f.Label), value),
		res, fmt.Sprintf("No %s found for %s %s.", a.tracker.Plural, strings.ToLower(f.Label), value))
}

// add collects the form values, one dialog per field unless the form asks
// for a single multi-field entry box, and inserts the record.
func (a *app) add(ctx context.Context) error {
	form := a.tracker.Form
	vals := records.Values{}

	if form.Multi {
		labels := make([]string, len(form.Fields))
		for i, f := range form.Fields {
			labels[i] = f.Label
		}
		entered, err := a.ui.MultiEnter(form.Title, "Enter new "+strings.TrimPrefix(strings.ToLower(form.Title), "add ")+" information", labels)
		if err != nil {
			return err
		}
		for i, f := range form.Fields {
			if i < len(entered) {
				vals[f.Key] = entered[i]
			}
		}
	} else {
		for _, field := range form.Fields {
			raw, err := a.askField(ctx, form.Title, field)
			if err != nil {
				return err
			}
			vals[field.Key] = raw
		}
	}

	msg, err := form.Submit(ctx, a.db, vals)
	if err != nil {
		return a.reportError(strings.ToLower(form.Title), err)
	}
	return a.ui.Message("Success", msg)
}

// askField returns the value entered for field. Database failures are
// reported here and end the add with ErrCancelled.
func (a *app) askField(ctx context.Context, title string, field records.Field) (string, error) {
	switch field.Kind {
	case records.FieldChoice:
		opts, err := records.FieldOptions(ctx, a.db, field)
		if err != nil {
			return "", a.abort("list "+strings.ToLower(field.Label)+" values", err)
		}
		return a.ui.Choice(title, "Select "+strings.ToLower(field.Label)+":", opts)

	case records.FieldInt:
		if field.Required {
			n, err := a.ui.Integer(title, fmt.Sprintf("Enter %s (%d-%d):", strings.ToLower(field.Label), field.Min, field.Max), field.Min, field.Max)
			if err != nil {
				return "", err
			}
			return fmt.Sprint(n), nil
		}
	}

	prompt := "Enter " + strings.ToLower(field.Label) + ":"
	if !field.Required {
		prompt = "Enter " + strings.ToLower(field.Label) + " (leave blank to skip):"
	}
	for {
		raw, err := a.ui.Enter(title, prompt)
		if err != nil {
			return "", err
		}
		err = records.ValidateField(ctx, a.db, field, raw)
		if err == nil {
			return raw, nil
		}
		if !isUserError(err) {
			return "", a.abort("check "+strings.ToLower(field.Label), err)
		}
		if err := a.ui.Message(titleInputError, capitalize(err.Error())); err != nil {
			return "", err
		}
	}
}

// abort reports err and returns ErrCancelled, or the Prompter's own error.
func (a *app) abort(action string, err error) error {
	if rerr := a.reportError(action, err); rerr != nil {
		return rerr
	}
	return ErrCancelled
}

func isUserError(err error) bool {
	return errors.Is(err, records.ErrInvalidField) || errors.Is(err, records.ErrLookupNotFound)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Get database file name
func dbFileName(db *sql.DB) string {
	var name, file string
	err := db.QueryRow(`PRAGMA database_list`).Scan(new(int), &name, &file)
	if err != nil || file == "" {
		return ""
	}
	return filepath.Base(file)
}
