package db

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateUp runs all pending migrations up to the latest version.
// Returns nil if the database is already at the latest version.
func (db *DB) MigrateUp(migrationsDir string) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}
	// Note: we don't close m here because it would close the underlying
	// DB connection.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	return nil
}

// MigrateDown rolls back the most recent migration.
func (db *DB) MigrateDown(migrationsDir string) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}

	return nil
}

// MigrateVersion returns the current migration version and dirty state.
// Returns 0, false, nil if no migrations have been applied yet.
func (db *DB) MigrateVersion(migrationsDir string) (version uint, dirty bool, err error) {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err = m.Version()
	if err != nil && errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return version, dirty, err
}

func (db *DB) newMigrate(migrationsDir string) (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", absPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	m.Log = &migrateLogger{}

	return m, nil
}

// migrateLogger implements migrate.Logger
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}

// LatestMigrationVersion returns the highest version present in the
// migrations directory, parsed from filenames of the form
// 000001_name.up.sql.
func LatestMigrationVersion(migrationsDir string) (uint, error) {
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return 0, fmt.Errorf("failed to get absolute path: %w", err)
	}

	entries, err := filepath.Glob(filepath.Join(absPath, "*.up.sql"))
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("no migration files found in %s", absPath)
	}

	var maxVersion uint
	for _, entry := range entries {
		var version uint
		if _, err := fmt.Sscanf(filepath.Base(entry), "%d_", &version); err == nil {
			if version > maxVersion {
				maxVersion = version
			}
		}
	}
	if maxVersion == 0 {
		return 0, fmt.Errorf("could not determine latest migration version")
	}

	return maxVersion, nil
}

// CheckMigrations compares the database version against the latest
// available migration and returns an error describing any mismatch.
func (db *DB) CheckMigrations(migrationsDir string) error {
	currentVersion, dirty, err := db.MigrateVersion(migrationsDir)
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	latestVersion, err := LatestMigrationVersion(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to get latest migration version: %w", err)
	}

	if dirty {
		return fmt.Errorf("database is in a dirty state (version %d)", currentVersion)
	}
	if currentVersion > latestVersion {
		return fmt.Errorf("database version (%d) is ahead of latest migration (%d)", currentVersion, latestVersion)
	}
	if currentVersion < latestVersion {
		return fmt.Errorf("database schema is out of date (version %d, need %d): run 'stcluster -migrate up'", currentVersion, latestVersion)
	}

	return nil
}
