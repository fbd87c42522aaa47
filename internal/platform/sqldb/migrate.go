package sqldb

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embeddedMigrations embed.FS

// Migrate brings the schema up to date using the embedded migrations for the
// given backend. It is safe to run on every startup; goose tracks applied
// versions in its own table.
func Migrate(db *sql.DB, backend string) error {
	var dialect, dir string
	switch backend {
	case BackendPostgres:
		dialect, dir = "postgres", "migrations/postgres"
	case BackendSQLite:
		dialect, dir = "sqlite3", "migrations/sqlite"
	default:
		return fmt.Errorf("unsupported database backend: %q", backend)
	}

	goose.SetBaseFS(embeddedMigrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
