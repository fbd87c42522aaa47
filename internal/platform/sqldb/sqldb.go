// Package sqldb opens and migrates the relational database backing the
// service. Two backends are supported: PostgreSQL (via the pgx stdlib
// driver) for deployments, and SQLite for local development and tests.
// All store implementations in this package write their queries with `?`
// placeholders and rebind them per backend.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/scoutiq/landscape-api/internal/config"
)

// Supported values of DatabaseConfig.Backend.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

const (
	pingTimeout = 5 * time.Second

	// Postgres pool settings. SQLite ignores these; it is forced onto a
	// single connection instead because the mattn driver does not tolerate
	// concurrent writers.
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// Open connects to the configured backend, verifies the connection, and
// applies pool settings. The caller owns the returned handle and must close
// it on shutdown.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch cfg.Backend {
	case BackendPostgres:
		db, err = sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)

	case BackendSQLite:
		dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path)
		db, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// Serialize all access through one connection.
		db.SetMaxOpenConns(1)

	default:
		return nil, fmt.Errorf("unsupported database backend: %q", cfg.Backend)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Backend, err)
	}

	return db, nil
}

// Rebind rewrites `?` placeholders into the backend's native form:
// `$1..$N` for postgres, unchanged for sqlite. Quoted literals are not
// handled; queries in this package never embed `?` inside strings.
func Rebind(backend, query string) string {
	if backend != BackendPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
