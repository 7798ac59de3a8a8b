// Package migrate runs client-state migrations from embedded SQL files using golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/db"
)

// ErrNoChange is returned when Up/Down has nothing to do (already at target version).
var ErrNoChange = migrate.ErrNoChange

// Run applies migrations for driver in the given direction.
// driver is "sqlite" (dsn is a file path) or "postgres" (dsn is a postgres:// URL).
// direction must be "up" or "down". Already being at the target version is not an error.
func Run(driver, dsn, direction string) error {
	if strings.TrimSpace(dsn) == "" {
		return errors.New("SESSION_STORE_DSN is not set; set it in .env or the environment")
	}
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}
	dir, dbURL, err := target(driver, dsn)
	if err != nil {
		return err
	}

	sourceDriver, err := iofs.New(db.MigrationFS, dir)
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dbURL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	}
	return nil
}

// target returns the embedded migrations directory and the golang-migrate database URL.
func target(driver, dsn string) (dir, dbURL string, err error) {
	switch driver {
	case db.DriverSQLite:
		if strings.HasPrefix(dsn, "sqlite://") {
			return "migrations/sqlite", dsn, nil
		}
		return "migrations/sqlite", "sqlite://" + dsn, nil
	case db.DriverPostgres:
		if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
			return "", "", fmt.Errorf("postgres dsn must be a postgres:// URL")
		}
		return "migrations/postgres", dsn, nil
	}
	return "", "", fmt.Errorf("%w %q", db.ErrUnknownDriver, driver)
}
