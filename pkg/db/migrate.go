package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
)

// TargetSchemaVersion is the highest schema version this version of the code supports for every tracker component.
const TargetSchemaVersion int64 = 1

// GetComponentSchemaVersion retrieves the schema version for a given component.
// Returns 0 if the component is not found or the versions table doesn't exist yet.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	query := `SELECT version FROM tracker_versions WHERE component = ?;`

	var version int64
	err := db.QueryRow(query, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "tracker_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// ApplySchema executes the component DDL. Every statement is create-if-not-exists
// or insert-or-ignore, so applying it again is a no-op.
func ApplySchema(db *sql.DB, component Component) error {
	if _, err := db.Exec(VersionsSchema); err != nil {
		return fmt.Errorf("failed to create versions table: %w", err)
	}
	if _, err := db.Exec(component.Schema); err != nil {
		return fmt.Errorf("failed to execute schema for component %s: %w", component.Name, err)
	}
	return nil
}

// InitializeSchema creates the component's tables, seeds and views and records
// the specified schema version for it.
func InitializeSchema(db *sql.DB, component Component, schemaVersionToSet int64, logger *log.Logger) error {
	if err := ApplySchema(db, component); err != nil {
		return err
	}

	insertVersionSQL := `
INSERT INTO tracker_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := db.Exec(insertVersionSQL, component.Name, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", component.Name, schemaVersionToSet, err)
	}

	logger.Printf("[INFO] Component %s initialized/updated to schema version %d\n", component.Name, schemaVersionToSet)
	return nil
}

// UpgradeDB brings the component in the database up to appTargetSchemaVersion.
// It runs on every start: an up-to-date component gets its DDL re-applied so
// missing views or seed rows are restored.
// dbIdentifierForLog is used for logging purposes only.
func UpgradeDB(db *sql.DB, component Component, dbIdentifierForLog string, appTargetSchemaVersion int64, logger *log.Logger) error {
	currentDBVersion, err := GetComponentSchemaVersion(db, component.Name)
	if err != nil {
		return err
	}

	switch {
	case currentDBVersion == 0:
		logger.Printf("[INFO] Component %s in database '%s' is uninitialized. Initializing to schema version %d\n", component.Name, dbIdentifierForLog, appTargetSchemaVersion)
		if err := InitializeSchema(db, component, appTargetSchemaVersion, logger); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", component.Name, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		logger.Printf("[DEBUG] Component %s in database '%s' is already at schema version %d\n", component.Name, dbIdentifierForLog, currentDBVersion)
		return ApplySchema(db, component)
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", component.Name, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", component.Name, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}
