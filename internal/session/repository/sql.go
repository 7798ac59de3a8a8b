package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Placeholder styles for SQLRepository.
const (
	PlaceholderQuestion = iota // sqlite: ?
	PlaceholderDollar          // postgres: $1
)

// SQLRepository stores client state in the client_state table (see internal/db/migrations).
type SQLRepository struct {
	db    *sql.DB
	style int
	nowF  func() time.Time
}

// NewSQLiteRepository returns a repository backed by a SQLite database.
func NewSQLiteRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, style: PlaceholderQuestion, nowF: func() time.Time { return time.Now().UTC() }}
}

// NewPostgresRepository returns a repository backed by a Postgres database.
func NewPostgresRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, style: PlaceholderDollar, nowF: func() time.Time { return time.Now().UTC() }}
}

// Get returns the value for key, or ok false if the row does not exist.
// It returns an error only for database failures, not for missing rows.
func (r *SQLRepository) Get(ctx context.Context, key string) (string, time.Time, bool, error) {
	var (
		value     string
		updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT value, updated_at FROM client_state WHERE key = ?`), key).
		Scan(&value, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, false, nil
		}
		return "", time.Time{}, false, err
	}
	return value, updatedAt, true, nil
}

// Set upserts value under key.
func (r *SQLRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, value, r.nowF())
	return err
}

// Delete removes keys in one statement.
func (r *SQLRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM client_state WHERE key IN (`+marks+`)`), args...)
	return err
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *SQLRepository) rebind(q string) string {
	if r.style != PlaceholderDollar {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
