package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrViewNotFound     = errors.New("view not found")
	ErrPlaceholderCount = errors.New("predicate must contain exactly one placeholder")
	ErrNoFields         = errors.New("no fields to select")
)

const viewExistsStatement = `
	SELECT 1
	FROM sqlite_master
	WHERE type = 'view' AND name = ?
	`

// Result holds the rows of a query as display strings, with the column names
// in select order. A Result with no rows is a valid, empty answer.
type Result struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the query matched nothing.
func (r Result) Empty() bool {
	return len(r.Rows) == 0
}

// ParameterQuery selects fields from tables filtered by where, which must
// contain exactly one "?" placeholder; value is bound to it. fields and tables
// are trusted constants and concatenated into the statement, value never is.
func ParameterQuery(ctx context.Context, db *sql.DB, tables string, fields []string, where string, value any) (Result, error) {
	if len(fields) == 0 {
		return Result{}, ErrNoFields
	}
	if n := strings.Count(where, "?"); n != 1 {
		return Result{}, fmt.Errorf("%w: got %d in %q", ErrPlaceholderCount, n, where)
	}

	query := "SELECT " + strings.Join(fields, ", ") + " FROM " + tables + " WHERE " + where
	return runQuery(ctx, db, query, value)
}

// SelectAll selects fields from tables with no filter. orderBy may be empty.
func SelectAll(ctx context.Context, db *sql.DB, tables string, fields []string, orderBy string) (Result, error) {
	if len(fields) == 0 {
		return Result{}, ErrNoFields
	}

	query := "SELECT " + strings.Join(fields, ", ") + " FROM " + tables
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	return runQuery(ctx, db, query)
}

// ViewQuery returns every row of the named view along with its column names.
func ViewQuery(ctx context.Context, db *sql.DB, viewName string) (Result, error) {
	var exists int
	err := db.QueryRowContext(ctx, viewExistsStatement, viewName).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, fmt.Errorf("%w: %q", ErrViewNotFound, viewName)
		}
		return Result{}, fmt.Errorf("failed to look up view %q: %w", viewName, err)
	}

	return runQuery(ctx, db, "SELECT * FROM "+quoteIdent(viewName))
}

// quoteIdent quotes an SQL identifier; view names contain spaces.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func runQuery(ctx context.Context, db *sql.DB, query string, args ...any) (Result, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := Result{Columns: columns, Rows: [][]string{}}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return Result{}, fmt.Errorf("failed to scan result row: %w", err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		result.Rows = append(result.Rows, row)
	}

	if err = rows.Err(); err != nil {
		return Result{}, fmt.Errorf("error iterating over results: %w", err)
	}

	return result, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
