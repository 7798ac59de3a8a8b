package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/db"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/db/migrate"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// exerciseRepository runs the same checks against every Repository implementation.
func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	if _, _, ok, err := repo.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v err %v, want false nil", ok, err)
	}

	if err := repo.Set(ctx, KeyToken, "t1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, at, ok, err := repo.Get(ctx, KeyToken)
	if err != nil || !ok {
		t.Fatalf("Get(token) = ok %v err %v", ok, err)
	}
	if v != "t1" {
		t.Errorf("value = %q, want t1", v)
	}
	if at.IsZero() {
		t.Error("updatedAt should be set")
	}

	if err := repo.Set(ctx, KeyToken, "t2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if v, _, _, _ := repo.Get(ctx, KeyToken); v != "t2" {
		t.Errorf("value after overwrite = %q, want t2", v)
	}

	if err := repo.Set(ctx, KeyUser, "{}"); err != nil {
		t.Fatalf("Set user: %v", err)
	}
	if err := repo.Delete(ctx, KeyToken, KeyUser, "never-set"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, k := range []string{KeyToken, KeyUser} {
		if _, _, ok, _ := repo.Get(ctx, k); ok {
			t.Errorf("%s still present after Delete", k)
		}
	}
	if err := repo.Delete(ctx); err != nil {
		t.Errorf("Delete with no keys: %v", err)
	}
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestSQLiteRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.sqlite")
	if err := migrate.Run(db.DriverSQLite, path, "up"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	conn, err := db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer conn.Close()
	exerciseRepository(t, NewSQLiteRepository(conn))
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := migrate.Run(db.DriverPostgres, dsn, "up"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	conn, err := db.OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer conn.Close()
	cleanup(t, conn)
	exerciseRepository(t, NewPostgresRepository(conn))
}

func cleanup(t *testing.T, conn *sql.DB) {
	t.Helper()
	if _, err := conn.Exec(`DELETE FROM client_state`); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestRebind(t *testing.T) {
	r := &SQLRepository{style: PlaceholderDollar}
	got := r.rebind(`DELETE FROM client_state WHERE key IN (?, ?)`)
	if got != `DELETE FROM client_state WHERE key IN ($1, $2)` {
		t.Errorf("rebind = %q", got)
	}
	r = &SQLRepository{style: PlaceholderQuestion}
	if got := r.rebind(`?`); got != `?` {
		t.Errorf("sqlite rebind = %q, want unchanged", got)
	}
}

func TestCredentialStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.nowF = func() time.Time { return fixed }
	store := NewCredentialStore(repo)

	c, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if c.Complete() {
		t.Error("empty store should not be complete")
	}

	u := &userdomain.User{ID: "u1", FirstName: "Ada", Email: "ada@example.com", Role: userdomain.RoleEmployer}
	if err := store.Save(ctx, "tok", u); err != nil {
		t.Fatalf("Save: %v", err)
	}
	tok, err := store.Token(ctx)
	if err != nil || tok != "tok" {
		t.Errorf("Token() = %q, %v; want tok", tok, err)
	}
	c, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Complete() {
		t.Fatal("Load should return complete credentials")
	}
	if c.User.ID != "u1" || c.User.Role != userdomain.RoleEmployer {
		t.Errorf("User = %+v", c.User)
	}
	if !c.UpdatedAt.Equal(fixed) {
		t.Errorf("UpdatedAt = %v, want %v", c.UpdatedAt, fixed)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if tok, _ := store.Token(ctx); tok != "" {
		t.Errorf("Token after Clear = %q", tok)
	}
}

func TestCredentialStore_UnreadableUser(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_ = repo.Set(ctx, KeyToken, "tok")
	_ = repo.Set(ctx, KeyUser, "{not json")
	c, err := NewCredentialStore(repo).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.User != nil {
		t.Error("unreadable user should load as nil")
	}
	if c.Complete() {
		t.Error("credentials without user should not be complete")
	}
}
