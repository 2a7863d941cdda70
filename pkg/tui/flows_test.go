package tui

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/iloveparkjisung/Database-Assesment/pkg/db"
	"github.com/iloveparkjisung/Database-Assesment/pkg/logging"
	"github.com/iloveparkjisung/Database-Assesment/pkg/records"
)

// fakeUI answers dialogs from a script. Text and Message boxes consume no
// answer; once the script runs out every dialog is cancelled.
type fakeUI struct {
	answers []any
	shown   []string // "title: message" of every Text and Message box
	prompts []string
}

func (f *fakeUI) pop(title, msg string) (any, error) {
	f.prompts = append(f.prompts, title+": "+msg)
	if len(f.answers) == 0 {
		return nil, ErrCancelled
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	if err, ok := a.(error); ok {
		return nil, err
	}
	return a, nil
}

func (f *fakeUI) Button(title, msg string, choices []string) (string, error) {
	a, err := f.pop(title, msg)
	if err != nil {
		return "", err
	}
	return a.(string), nil
}

func (f *fakeUI) Choice(title, msg string, choices []string) (string, error) {
	a, err := f.pop(title, msg)
	if err != nil {
		return "", err
	}
	s := a.(string)
	for _, c := range choices {
		if c == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("answer %q is not one of %v", s, choices)
}

func (f *fakeUI) Enter(title, msg string) (string, error) {
	a, err := f.pop(title, msg)
	if err != nil {
		return "", err
	}
	return a.(string), nil
}

func (f *fakeUI) Integer(title, msg string, lo, hi int) (int, error) {
	a, err := f.pop(title, msg)
	if err != nil {
		return 0, err
	}
	return a.(int), nil
}

func (f *fakeUI) MultiEnter(title, msg string, fields []string) ([]string, error) {
	a, err := f.pop(title, msg)
	if err != nil {
		return nil, err
	}
	return a.([]string), nil
}

func (f *fakeUI) Text(title, msg, text string) error {
	f.shown = append(f.shown, title+": "+text)
	return nil
}

func (f *fakeUI) Message(title, msg string) error {
	f.shown = append(f.shown, title+": "+msg)
	return nil
}

func (f *fakeUI) output() string {
	return strings.Join(f.shown, "\n")
}

func setupTestDB(t *testing.T, tracker *records.Tracker) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), tracker.DBFile)
	db, err := pkgdb.OpenDBConnection(dbPath, false, "NORMAL")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, pkgdb.UpgradeDB(db, tracker.Component, dbPath, pkgdb.TargetSchemaVersion, logging.Discard()))
	return db
}

func runFlows(t *testing.T, db *sql.DB, tracker *records.Tracker, answers ...any) *fakeUI {
	t.Helper()
	ui := &fakeUI{answers: answers}
	require.NoError(t, Run(context.Background(), db, tracker, ui, logging.Discard()))
	assert.Empty(t, ui.answers, "script not fully consumed")
	return ui
}

func TestRunAddAndFilterDrama(t *testing.T) {
	db := setupTestDB(t, records.DramaTracker)

	ui := runFlows(t, db, records.DramaTracker,
		"Add Drama", "Example Show", "2021", "China", 16, "Watched", "8",
		"Country", "China",
		"Rating", "9",
		"Exit",
	)

	out := ui.output()
	assert.Contains(t, out, "Success: Drama added successfully!")
	assert.Contains(t, out, "Country Results: Drama")
	assert.Contains(t, out, "Example Show")
	assert.Contains(t, out, "Rating Results: No dramas found for rating 9.")
	assert.Contains(t, ui.prompts[0], "dramadatabase.db")
}

func TestRunCancelAbortsOperation(t *testing.T) {
	db := setupTestDB(t, records.DramaTracker)

	ui := runFlows(t, db, records.DramaTracker,
		"Add Drama", "Half Done", "2021", ErrCancelled,
		"Show all dramas",
		"Exit",
	)

	assert.Equal(t, []string{"All dramas: No dramas found in the database."}, ui.shown)
}

func TestRunCancelMainMenuExits(t *testing.T) {
	db := setupTestDB(t, records.ContactsTracker)

	ui := runFlows(t, db, records.ContactsTracker)
	assert.Len(t, ui.prompts, 1)
	assert.Empty(t, ui.shown)
}

func TestRunDuplicateEmail(t *testing.T) {
	db := setupTestDB(t, records.ContactsTracker)

	ui := runFlows(t, db, records.ContactsTracker,
		"Add Contact", []string{"Jisung", "jisung@example.com"},
		"Add Contact", []string{"Other", "jisung@example.com"},
		"Add Contact", []string{"", ""},
		"Show all contacts",
	)

	require.Len(t, ui.shown, 4)
	assert.Equal(t, "Success: Contact 'Jisung' added successfully!", ui.shown[0])
	assert.Equal(t, "Database Error: Error: The email 'jisung@example.com' already exists.", ui.shown[1])
	assert.True(t, strings.HasPrefix(ui.shown[2], "Input Error: Name is required"))
	assert.Contains(t, ui.shown[3], "jisung@example.com")
}

func TestRunFilterRepromptsInvalidValue(t *testing.T) {
	db := setupTestDB(t, records.KpopTracker)

	ui := runFlows(t, db, records.KpopTracker,
		"Idols height", "tall", "175",
		"Exit",
	)

	assert.Equal(t, []string{
		`Input Error: Sorry unable to find "tall", please try again.`,
		"Idols height Results: No idols found for idols height 175.",
	}, ui.shown)
}

func TestRunViews(t *testing.T) {
	db := setupTestDB(t, records.ContactsTracker)
	_, err := records.AddContact(context.Background(), db, "Jisung", "jisung@example.com")
	require.NoError(t, err)

	ui := runFlows(t, db, records.ContactsTracker,
		"Views", "All contacts",
		"Exit",
	)

	require.Len(t, ui.shown, 1)
	assert.Contains(t, ui.shown[0], "Name")
	assert.Contains(t, ui.shown[0], "jisung@example.com")
}

func TestRunReportsDatabaseError(t *testing.T) {
	db := setupTestDB(t, records.ContactsTracker)
	require.NoError(t, db.Close())

	ui := runFlows(t, db, records.ContactsTracker, "Show all contacts", "Exit")

	require.Len(t, ui.shown, 1)
	assert.True(t, strings.HasPrefix(ui.shown[0], "Database Error: Failed to retrieve contacts"))
}
