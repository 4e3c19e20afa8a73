// Package migrations embeds the goose schema migrations of both binaries:
// client/ holds the SQLite sync-state schema, server/ the PostgreSQL record
// store schema.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql server/*.sql
var embedMigrations embed.FS

// ErrNilDB is returned when no database handle is passed.
var ErrNilDB = errors.New("db is nil")

// MigrateServer applies the PostgreSQL record store migrations.
func MigrateServer(db *sql.DB) error {
	return migrate(db, "server", "pgx")
}

// MigrateClient applies the SQLite sync-state migrations.
func MigrateClient(db *sql.DB) error {
	return migrate(db, "client", "sqlite3")
}

func migrate(db *sql.DB, dir, dialect string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", ErrNilDB)
	}

	sub, err := fs.Sub(embedMigrations, dir)
	if err != nil {
		return fmt.Errorf("migration error opening %s migrations: %w", dir, err)
	}
	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
