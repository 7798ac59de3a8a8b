package migrate

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/db"
)

func TestRun_EmptyDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		err := Run(db.DriverSQLite, dsn, "up")
		if err == nil {
			t.Fatalf("Run with DSN %q should return error", dsn)
		}
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	testCases := []string{"", "invalid", "UP", "Up", "both"}
	for _, direction := range testCases {
		t.Run(direction, func(t *testing.T) {
			err := Run(db.DriverSQLite, filepath.Join(t.TempDir(), "s.sqlite"), direction)
			if err == nil {
				t.Errorf("Run with direction %q should return error", direction)
			}
		})
	}
}

func TestRun_UnknownDriver(t *testing.T) {
	err := Run("mysql", "root@/db", "up")
	if !errors.Is(err, db.ErrUnknownDriver) {
		t.Errorf("Run with mysql = %v, want ErrUnknownDriver", err)
	}
}

func TestRun_PostgresRequiresURL(t *testing.T) {
	if err := Run(db.DriverPostgres, "host=localhost dbname=nexus", "up"); err == nil {
		t.Error("Run with keyword/value postgres DSN should return error")
	}
}

func TestRun_SQLiteUpDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.sqlite")

	if err := Run(db.DriverSQLite, path, "up"); err != nil {
		t.Fatalf("Run up: %v", err)
	}
	// Second run is already at latest.
	if err := Run(db.DriverSQLite, path, "up"); err != nil {
		t.Fatalf("Run up again: %v", err)
	}

	conn, err := db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if !tableExists(t, conn) {
		t.Error("client_state should exist after up")
	}
	conn.Close()

	if err := Run(db.DriverSQLite, path, "down"); err != nil {
		t.Fatalf("Run down: %v", err)
	}
	conn, err = db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer conn.Close()
	if tableExists(t, conn) {
		t.Error("client_state should not exist after down")
	}
}

func TestErrNoChange(t *testing.T) {
	if ErrNoChange == nil {
		t.Fatal("ErrNoChange should not be nil")
	}
}

func tableExists(t *testing.T, conn *sql.DB) bool {
	t.Helper()
	var n int
	err := conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'client_state'`).Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n == 1
}
