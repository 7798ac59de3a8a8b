package db

import "embed"

// MigrationFS embeds the per-driver SQL migrations under migrations/sqlite and migrations/postgres.
// Used by the migrate runner (cmd/nexus-migrate and client startup).
//
//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var MigrationFS embed.FS
