package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	pkgdb "github.com/iloveparkjisung/Database-Assesment/pkg/db"
)

var (
	ErrUnknownTracker = errors.New("unknown tracker")
	ErrUnknownFilter  = errors.New("unknown filter")
	ErrDuplicate      = errors.New("already exists")
	ErrInvalidField   = errors.New("invalid field value")
)

// Tracker is one personal database: its schema, the join used by every
// filtered lookup, the canned filters and views, and the insert form.
type Tracker struct {
	Name      string // command line name, e.g. "drama"
	Title     string // e.g. "Drama Database"
	Plural    string // noun used in messages, e.g. "dramas"
	DBFile    string // default database file name
	Component pkgdb.Component

	// Tables is the FROM clause: the fact table LEFT JOINed to its lookups.
	Tables     string
	AllFields  []string
	AllOrderBy string

	Filters []Filter
	Views   []View
	Form    Form
}

// Filter is a canned single-value lookup over the tracker's joins.
type Filter struct {
	Key    string // e.g. "country"
	Label  string // e.g. "Country"
	Prompt string
	Fields []string
	// Where holds exactly one "?" placeholder.
	Where string
	// Lookup, when set, lists the accepted values and validates input.
	Lookup  *Lookup
	Numeric bool
	Hint    string
	// Choices, when set, are the accepted values for a filter without a lookup table.
	Choices []string
}

// View is a named, precomputed query stored in the database.
type View struct {
	Name  string
	Label string
}

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInt
	FieldChoice
)

type Field struct {
	Key      string
	Label    string
	Kind     FieldKind
	Lookup   *Lookup // FieldChoice
	Choices  []string
	Min, Max int // FieldInt bounds, inclusive
	Required bool
}

// Values carries raw form input keyed by Field.Key.
type Values map[string]string

// Form is the insert flow of a tracker, shared by every front end.
type Form struct {
	Title  string
	Fields []Field
	// Multi asks for every field on one screen instead of one dialog per field.
	Multi bool
	// Insert stores the validated values and returns a confirmation message.
	Insert func(ctx context.Context, db *sql.DB, vals Values) (string, error)
}

// All returns every tracker.
func All() []*Tracker {
	return []*Tracker{DramaTracker, KpopTracker, ContactsTracker}
}

// Names returns the tracker names in sorted order.
func Names() []string {
	names := make([]string, 0, 3)
	for _, t := range All() {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Get returns the tracker called name.
func Get(name string) (*Tracker, error) {
	for _, t := range All() {
		if t.Name == strings.ToLower(name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (choose one of %s)", ErrUnknownTracker, name, strings.Join(Names(), ", "))
}

// Filter returns the filter with the given key.
func (t *Tracker) Filter(key string) (Filter, error) {
	for _, f := range t.Filters {
		if strings.EqualFold(f.Key, key) {
			return f, nil
		}
	}
	return Filter{}, fmt.Errorf("%w: %q", ErrUnknownFilter, key)
}

// ShowAll lists every fact row with its lookup labels resolved.
func (t *Tracker) ShowAll(ctx context.Context, db *sql.DB) (Result, error) {
	return SelectAll(ctx, db, t.Tables, t.AllFields, t.AllOrderBy)
}

// FilterBy runs filter f with value. Values matching a lookup label ignoring
// case are replaced by the stored label; unknown values simply match nothing.
func (t *Tracker) FilterBy(ctx context.Context, db *sql.DB, f Filter, value string) (Result, error) {
	param, err := f.param(ctx, db, value)
	if err != nil {
		return Result{}, err
	}
	return ParameterQuery(ctx, db, t.Tables, f.Fields, f.Where, param)
}

func (f Filter) param(ctx context.Context, db *sql.DB, value string) (any, error) {
	value = strings.TrimSpace(value)
	if f.Lookup != nil {
		label, err := CanonicalLabel(ctx, db, *f.Lookup, value)
		switch {
		case err == nil:
			value = label
		case !errors.Is(err, ErrLookupNotFound):
			return nil, err
		}
	}
	if f.Numeric {
		if n, err := strconv.Atoi(value); err == nil {
			return n, nil
		}
	}
	return value, nil
}

// Validate checks value the way the menus do before querying: known lookup
// label, or a number when the filter is numeric. It returns the value to show.
func (f Filter) Validate(ctx context.Context, db *sql.DB, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s: %w", f.Key, ErrInvalidField)
	}
	if f.Lookup != nil {
		return CanonicalLabel(ctx, db, *f.Lookup, value)
	}
	if f.Numeric {
		if _, err := strconv.Atoi(value); err != nil {
			return "", fmt.Errorf("%s must be a number: %w", f.Key, ErrInvalidField)
		}
	}
	if len(f.Choices) > 0 {
		for _, c := range f.Choices {
			if strings.EqualFold(c, value) {
				return c, nil
			}
		}
		return "", fmt.Errorf("%s %q: %w", f.Key, value, ErrLookupNotFound)
	}
	return value, nil
}

// Options lists the values a user may pick for f.
func (f Filter) Options(ctx context.Context, db *sql.DB) ([]string, error) {
	if f.Lookup != nil {
		return LookupLabels(ctx, db, *f.Lookup)
	}
	return f.Choices, nil
}

// View returns the view with the given name, matched ignoring case.
func (t *Tracker) View(name string) (View, bool) {
	for _, v := range t.Views {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return View{}, false
}

// Validate checks every field of vals.
func (f Form) Validate(ctx context.Context, db *sql.DB, vals Values) error {
	for _, field := range f.Fields {
		if err := ValidateField(ctx, db, field, vals[field.Key]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateField checks a required value is present, integers parse and fall
// within bounds, and choices name a known lookup value.
func ValidateField(ctx context.Context, db *sql.DB, field Field, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if field.Required {
			return fmt.Errorf("%s is required: %w", field.Label, ErrInvalidField)
		}
		return nil
	}

	switch field.Kind {
	case FieldInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s must be a whole number: %w", field.Label, ErrInvalidField)
		}
		if n < field.Min || n > field.Max {
			return fmt.Errorf("%s must be between %d and %d: %w", field.Label, field.Min, field.Max, ErrInvalidField)
		}
	case FieldChoice:
		if field.Lookup != nil {
			if _, err := CanonicalLabel(ctx, db, *field.Lookup, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// Submit validates vals and runs the insert. Values are trimmed first, so the
// insert sees exactly what was validated.
func (f Form) Submit(ctx context.Context, db *sql.DB, vals Values) (string, error) {
	trimmed := make(Values, len(vals))
	for k, v := range vals {
		trimmed[k] = strings.TrimSpace(v)
	}

	if err := f.Validate(ctx, db, trimmed); err != nil {
		return "", err
	}
	return f.Insert(ctx, db, trimmed)
}

// FieldOptions lists the values a user may pick for a choice field.
func FieldOptions(ctx context.Context, db *sql.DB, field Field) ([]string, error) {
	if field.Lookup != nil {
		return LookupLabels(ctx, db, *field.Lookup)
	}
	return field.Choices, nil
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
