package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrLookupNotFound = errors.New("value not found")

// Lookup describes a reference table mapping an integer surrogate key to a label.
// The names are trusted constants from the tracker definitions.
type Lookup struct {
	Name        string // human name used in messages, e.g. "country"
	Table       string
	IDColumn    string
	LabelColumn string
}

func (l Lookup) canonicalStatement() string {
	return "SELECT " + l.IDColumn + ", " + l.LabelColumn + " FROM " + l.Table +
		" WHERE UPPER(CAST(" + l.LabelColumn + " AS TEXT)) = UPPER(?)"
}

func (l Lookup) labelsStatement() string {
	return "SELECT " + l.LabelColumn + " FROM " + l.Table + " ORDER BY " + l.IDColumn + " ASC"
}

// CanonicalLabel matches value against the lookup labels ignoring case and
// returns the stored label. Unknown values yield ErrLookupNotFound.
func CanonicalLabel(ctx context.Context, db *sql.DB, l Lookup, value string) (string, error) {
	_, label, err := resolve(ctx, db, l, value)
	return label, err
}

// LookupID returns the surrogate key for value, matched ignoring case.
func LookupID(ctx context.Context, db *sql.DB, l Lookup, value string) (int64, error) {
	id, _, err := resolve(ctx, db, l, value)
	return id, err
}

func resolve(ctx context.Context, db *sql.DB, l Lookup, value string) (int64, string, error) {
	value = strings.TrimSpace(value)

	var (
		id    int64
		label sql.NullString
	)

	err := db.QueryRowContext(ctx, l.canonicalStatement(), value).Scan(&id, &label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", fmt.Errorf("%s %q: %w", l.Name, value, ErrLookupNotFound)
		}
		return 0, "", fmt.Errorf("failed to look up %s %q: %w", l.Name, value, err)
	}

	return id, label.String, nil
}

// LookupLabels lists the labels of a lookup table in key order.
func LookupLabels(ctx context.Context, db *sql.DB, l Lookup) ([]string, error) {
	rows, err := db.QueryContext(ctx, l.labelsStatement())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", l.Name, err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label sql.NullString
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan %s value: %w", l.Name, err)
		}
		labels = append(labels, label.String)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s values: %w", l.Name, err)
	}

	return labels, nil
}
