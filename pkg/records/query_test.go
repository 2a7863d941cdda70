package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterQueryPlaceholderCount(t *testing.T) {
	db := setupTestDB(t, ContactsTracker)
	ctx := context.Background()

	_, err := ParameterQuery(ctx, db, "contacts", []string{"name"}, "name = 'x'", "x")
	assert.ErrorIs(t, err, ErrPlaceholderCount)

	_, err = ParameterQuery(ctx, db, "contacts", []string{"name"}, "name = ? OR email = ?", "x")
	assert.ErrorIs(t, err, ErrPlaceholderCount)

	_, err = ParameterQuery(ctx, db, "contacts", nil, "name = ?", "x")
	assert.ErrorIs(t, err, ErrNoFields)
}

func TestParameterQueryBindsValue(t *testing.T) {
	db := setupTestDB(t, ContactsTracker)
	ctx := context.Background()

	_, err := AddContact(ctx, db, "Alice", "alice@example.com")
	require.NoError(t, err)
	_, err = AddContact(ctx, db, "O'Brien", `ob"rien@example.com`)
	require.NoError(t, err)

	res, err := ParameterQuery(ctx, db, "contacts", []string{"name", "email"}, "email = ?", "x' OR '1'='1")
	require.NoError(t, err)
	assert.True(t, res.Empty(), "quote characters must not widen the match")

	tableCount := func() int {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&n))
		return n
	}
	_, err = ParameterQuery(ctx, db, "contacts", []string{"name"}, "name = ?", "x'; DROP TABLE contacts; --")
	require.NoError(t, err)
	assert.Equal(t, 2, tableCount())

	res, err = ParameterQuery(ctx, db, "contacts", []string{"name", "email"}, "name = ?", "O'Brien")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"O'Brien", `ob"rien@example.com`}, res.Rows[0])
}

func TestViewQuery(t *testing.T) {
	db := setupTestDB(t, ContactsTracker)
	ctx := context.Background()

	_, err := AddContact(ctx, db, "Zed", "zed@example.com")
	require.NoError(t, err)
	_, err = AddContact(ctx, db, "Amy", "amy@example.com")
	require.NoError(t, err)

	res, err := ViewQuery(ctx, db, "All contacts")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, res.Columns)
	assert.Equal(t, [][]string{
		{"Amy", "amy@example.com"},
		{"Zed", "zed@example.com"},
	}, res.Rows)

	_, err = ViewQuery(ctx, db, "No such view")
	assert.ErrorIs(t, err, ErrViewNotFound)

	_, err = ViewQuery(ctx, db, `All contacts"; DROP TABLE contacts; --`)
	assert.ErrorIs(t, err, ErrViewNotFound)

	// Base tables are not views.
	for _, table := range []string{"contacts", "tracker_versions"} {
		_, err = ViewQuery(ctx, db, table)
		assert.ErrorIs(t, err, ErrViewNotFound, table)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "16", formatValue(int64(16)))
	assert.Equal(t, "7.5", formatValue(7.5))
	assert.Equal(t, "abc", formatValue([]byte("abc")))
}
