package db

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DefaultMigrationsDir holds the platform schema: tenants, chat_logs and
// billing_events.
const DefaultMigrationsDir = "migrations/core"

// RunMigrations applies all pending goose migrations from migrationsDir,
// falling back to DefaultMigrationsDir when it is empty. Goose needs a
// database/sql handle, so this opens its own connection through the pgx
// stdlib driver instead of reusing the pool.
func RunMigrations(databaseURL, migrationsDir string) error {
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsDir
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
