package db

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3" // SQLite driver, needed for tests
)

var testLogger = log.New(io.Discard, "", 0)

// checkObjectExists is a test helper to verify if a table or view exists in the database.
func checkObjectExists(t *testing.T, db *sql.DB, kind, name string) {
	t.Helper()
	var got string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = ? AND name = ?;", kind, name).Scan(&got)
	if err != nil {
		if err == sql.ErrNoRows {
			t.Errorf("%s '%s' does not exist, but it should.", kind, name)
			return
		}
		t.Fatalf("Error checking if %s '%s' exists: %v", kind, name, err)
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return n
}

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenDBConnection(path, true, "NORMAL")
	if err != nil {
		t.Fatalf("OpenDBConnection failed for %s: %v", path, err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestUpgradeDB_NewDatabase(t *testing.T) {
	db, path := openTestDB(t)

	if err := UpgradeDB(db, DramaComponent, path, TargetSchemaVersion, testLogger); err != nil {
		t.Fatalf("UpgradeDB failed on a new database: %v", err)
	}

	for _, tableName := range []string{"tracker_versions", "release_year", "country", "watched", "drama"} {
		checkObjectExists(t, db, "table", tableName)
	}
	for _, viewName := range []string{"All information", "Rating below 5", "Top 10 Chinese Drama"} {
		checkObjectExists(t, db, "view", viewName)
	}

	version, err := GetComponentSchemaVersion(db, DramaComponent.Name)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed after UpgradeDB: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected component '%s' to be at version %d, but got %d", DramaComponent.Name, TargetSchemaVersion, version)
	}
}

func TestUpgradeDB_BootstrapTwice(t *testing.T) {
	for _, component := range []Component{DramaComponent, KpopComponent, ContactsComponent} {
		t.Run(component.Name, func(t *testing.T) {
			db, path := openTestDB(t)

			for i := 0; i < 2; i++ {
				if err := UpgradeDB(db, component, path, TargetSchemaVersion, testLogger); err != nil {
					t.Fatalf("UpgradeDB run %d failed: %v", i+1, err)
				}
			}

			var objects int
			if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view')").Scan(&objects); err != nil {
				t.Fatalf("Failed to count schema objects: %v", err)
			}
			before := objects

			if err := ApplySchema(db, component); err != nil {
				t.Fatalf("ApplySchema on bootstrapped database failed: %v", err)
			}
			if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view')").Scan(&objects); err != nil {
				t.Fatalf("Failed to count schema objects: %v", err)
			}
			if objects != before {
				t.Errorf("Expected %d schema objects after re-applying schema, got %d", before, objects)
			}
		})
	}
}

func TestUpgradeDB_SeedsAreNotDuplicated(t *testing.T) {
	db, path := openTestDB(t)

	for i := 0; i < 3; i++ {
		if err := UpgradeDB(db, DramaComponent, path, TargetSchemaVersion, testLogger); err != nil {
			t.Fatalf("UpgradeDB run %d failed: %v", i+1, err)
		}
	}

	if got := countRows(t, db, "release_year"); got != 21 {
		t.Errorf("Expected 21 release years, got %d", got)
	}
	if got := countRows(t, db, "country"); got != 5 {
		t.Errorf("Expected 5 countries, got %d", got)
	}
	if got := countRows(t, db, "watched"); got != 4 {
		t.Errorf("Expected 4 watched statuses, got %d", got)
	}
}

func TestUpgradeDB_RestoresDroppedView(t *testing.T) {
	db, path := openTestDB(t)

	if err := UpgradeDB(db, ContactsComponent, path, TargetSchemaVersion, testLogger); err != nil {
		t.Fatalf("UpgradeDB failed: %v", err)
	}
	if _, err := db.Exec(`DROP VIEW "All contacts"`); err != nil {
		t.Fatalf("Failed to drop view: %v", err)
	}
	if err := UpgradeDB(db, ContactsComponent, path, TargetSchemaVersion, testLogger); err != nil {
		t.Fatalf("UpgradeDB on up-to-date database failed: %v", err)
	}

	checkObjectExists(t, db, "view", "All contacts")
}

func TestUpgradeDB_ComponentsShareOneFile(t *testing.T) {
	db, path := openTestDB(t)

	for _, component := range []Component{DramaComponent, ContactsComponent} {
		if err := UpgradeDB(db, component, path, TargetSchemaVersion, testLogger); err != nil {
			t.Fatalf("UpgradeDB for %s failed: %v", component.Name, err)
		}
	}

	if got := countRows(t, db, "tracker_versions"); got != 2 {
		t.Errorf("Expected 2 component versions, got %d", got)
	}
}

func TestUpgradeDB_OlderVersionNeedsMigration(t *testing.T) {
	db, _ := openTestDB(t)

	const dbInitialSchemaVersion int64 = 1
	const appTargetsSchemaVersion int64 = 2 // Simulate app wanting version 2

	if err := InitializeSchema(db, KpopComponent, dbInitialSchemaVersion, testLogger); err != nil {
		t.Fatalf("InitializeSchema to version %d failed: %v", dbInitialSchemaVersion, err)
	}

	err := UpgradeDB(db, KpopComponent, "test.db", appTargetsSchemaVersion, testLogger)
	if err == nil {
		t.Fatalf("UpgradeDB should have failed for an older DB version requiring migration, but it did not")
	}

	expectedErrorMsg := fmt.Sprintf("component %s in database 'test.db' has schema version %d, which is older than application's target schema version %d", KpopComponent.Name, dbInitialSchemaVersion, appTargetsSchemaVersion)
	if !strings.Contains(err.Error(), expectedErrorMsg) {
		t.Errorf("UpgradeDB error message mismatch.\nExpected to contain: %s\nGot: %s", expectedErrorMsg, err.Error())
	}

	currentVersion, getErr := GetComponentSchemaVersion(db, KpopComponent.Name)
	if getErr != nil {
		t.Fatalf("GetComponentSchemaVersion failed after attempted upgrade: %v", getErr)
	}
	if currentVersion != dbInitialSchemaVersion {
		t.Errorf("Database schema version changed from %d to %d after a failed upgrade attempt that should have been a no-op.", dbInitialSchemaVersion, currentVersion)
	}
}

func TestUpgradeDB_NewerVersionUnsupported(t *testing.T) {
	db, _ := openTestDB(t)

	const dbInitialSchemaVersion int64 = 2  // DB is at version 2
	const appTargetsSchemaVersion int64 = 1 // Simulate app wanting version 1

	if err := InitializeSchema(db, ContactsComponent, dbInitialSchemaVersion, testLogger); err != nil {
		t.Fatalf("InitializeSchema to version %d failed: %v", dbInitialSchemaVersion, err)
	}

	err := UpgradeDB(db, ContactsComponent, "test.db", appTargetsSchemaVersion, testLogger)
	if err == nil {
		t.Fatalf("UpgradeDB should have failed for a newer DB version, but it did not")
	}

	expectedErrorMsg := fmt.Sprintf("component %s in database 'test.db' has schema version %d, which is newer than application's target schema version %d", ContactsComponent.Name, dbInitialSchemaVersion, appTargetsSchemaVersion)
	if !strings.Contains(err.Error(), expectedErrorMsg) {
		t.Errorf("UpgradeDB error message mismatch.\nExpected to contain: %s\nGot: %s", expectedErrorMsg, err.Error())
	}
}

func TestOpenDBConnection_InvalidSync(t *testing.T) {
	_, err := OpenDBConnection(":memory:", false, "sometimes")
	if err == nil {
		t.Fatal("Expected an error for an invalid sync pragma")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db, path := openTestDB(t)
	if err := UpgradeDB(db, ContactsComponent, path, TargetSchemaVersion, testLogger); err != nil {
		t.Fatalf("UpgradeDB failed: %v", err)
	}

	insert := `INSERT INTO contacts (name, email) VALUES (?, ?)`
	if _, err := db.Exec(insert, "A", "a@example.com"); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	_, err := db.Exec(insert, "B", "a@example.com")
	if !IsUniqueViolation(err) {
		t.Errorf("Expected a unique violation, got %v", err)
	}
	if IsCheckViolation(err) {
		t.Errorf("Unique violation reported as check violation: %v", err)
	}
	if IsUniqueViolation(fmt.Errorf("plain error")) {
		t.Error("Plain error reported as unique violation")
	}
}
