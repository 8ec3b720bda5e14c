// Package migrations applies the report store schema. The SQL is portable
// between PostgreSQL and SQLite.
package migrations

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed *.sql
var files embed.FS

const migrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Migration is one versioned schema change. Files are named
// NNN_description.up.sql with an optional matching .down.sql.
type Migration struct {
	Version string
	Name    string
	Up      string
	Down    string
}

// Checksum is the sha256 of the up script.
func (m Migration) Checksum() string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(m.Up)))
}

// MigrationStatus reports whether a migration has been applied.
type MigrationStatus struct {
	Version string
	Name    string
	Applied bool
}

// Migrator handles database schema migrations
type Migrator struct {
	db         *sqlx.DB
	migrations []Migration
}

// NewMigrator loads the embedded migrations.
func NewMigrator(db *sqlx.DB) (*Migrator, error) {
	migrations, err := Load(files)
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: migrations}, nil
}

// Load parses migrations from fsys, sorted by version.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[string]*Migration)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		stem := strings.TrimSuffix(name, ".sql")
		direction := "up"
		switch {
		case strings.HasSuffix(stem, ".up"):
			stem = strings.TrimSuffix(stem, ".up")
		case strings.HasSuffix(stem, ".down"):
			stem = strings.TrimSuffix(stem, ".down")
			direction = "down"
		}
		parts := strings.SplitN(stem, "_", 2)
		if len(parts) < 2 {
			continue
		}

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		m, ok := byVersion[parts[0]]
		if !ok {
			m = &Migration{Version: parts[0], Name: parts[1]}
			byVersion[parts[0]] = m
		}
		if direction == "up" {
			m.Up = string(body)
		} else {
			m.Down = string(body)
		}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" {
			return nil, fmt.Errorf("migration %s has no up script", m.Version)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Up applies every pending migration and returns the versions applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if _, err := m.db.ExecContext(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("create migrations table: %w", err)
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, mig := range m.migrations {
		if sum, ok := applied[mig.Version]; ok {
			if sum != mig.Checksum() {
				return done, fmt.Errorf("migration %s was modified after it was applied", mig.Version)
			}
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return done, fmt.Errorf("apply migration %s: %w", mig.Version, err)
		}
		done = append(done, mig.Version)
	}
	return done, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.Up); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	record := m.db.Rebind("INSERT INTO schema_migrations (version, checksum) VALUES (?, ?)")
	if _, err := tx.ExecContext(ctx, record, mig.Version, mig.Checksum()); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}

// Down rolls back the most recent migration and returns its version.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	if _, err := m.db.ExecContext(ctx, migrationsTable); err != nil {
		return "", fmt.Errorf("create migrations table: %w", err)
	}
	var version string
	err := m.db.GetContext(ctx, &version, "SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("no migrations to roll back")
	}
	if err != nil {
		return "", fmt.Errorf("get last migration: %w", err)
	}

	var mig *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == version {
			mig = &m.migrations[i]
		}
	}
	if mig == nil || mig.Down == "" {
		return "", fmt.Errorf("migration %s has no down script", version)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, mig.Down); err != nil {
		return "", fmt.Errorf("roll back %s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, m.db.Rebind("DELETE FROM schema_migrations WHERE version = ?"), version); err != nil {
		return "", fmt.Errorf("remove migration record: %w", err)
	}
	return version, tx.Commit()
}

// Status lists every known migration with its applied flag.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if _, err := m.db.ExecContext(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("create migrations table: %w", err)
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, len(m.migrations))
	for i, mig := range m.migrations {
		_, ok := applied[mig.Version]
		out[i] = MigrationStatus{Version: mig.Version, Name: mig.Name, Applied: ok}
	}
	return out, nil
}

// applied maps version to recorded checksum.
func (m *Migrator) applied(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Version  string `db:"version"`
		Checksum string `db:"checksum"`
	}
	if err := m.db.SelectContext(ctx, &rows, "SELECT version, checksum FROM schema_migrations"); err != nil {
		return nil, fmt.Errorf("get applied migrations: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Version] = r.Checksum
	}
	return out, nil
}
