// Package sqldb opens the SQL post store used by keyword search.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/kailas-cloud/blogsearch/internal/db/sqldb/migrations"
)

// Dialect selects placeholder syntax and migrations.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Config holds SQL connection parameters.
type Config struct {
	Driver Dialect
	DSN    string
}

// DB is a *sql.DB that knows its dialect.
type DB struct {
	*sql.DB
	dialect Dialect
}

// DialectFromDSN picks postgres for postgres:// URLs and sqlite for everything else.
func DialectFromDSN(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects, pings and migrates the database.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	dialect := cfg.Driver
	if dialect == "" {
		dialect = DialectFromDSN(cfg.DSN)
	}

	var (
		raw *sql.DB
		err error
	)
	switch dialect {
	case DialectPostgres:
		raw, err = sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		raw.SetMaxOpenConns(25)
		raw.SetMaxIdleConns(5)
		raw.SetConnMaxLifetime(5 * time.Minute)
	case DialectSQLite:
		if err := ensureDir(cfg.DSN); err != nil {
			return nil, err
		}
		raw, err = sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// modernc sqlite serializes writers; one connection keeps :memory: databases shared.
		raw.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", dialect)
	}

	d := &DB{DB: raw, dialect: dialect}
	if err := d.PingContext(ctx); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	if err := d.migrate(ctx); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return d, nil
}

// Dialect returns the database dialect.
func (d *DB) Dialect() Dialect { return d.dialect }

// Rebind rewrites ? placeholders to $n for postgres. Queries must not contain literal ?.
func (d *DB) Rebind(query string) string {
	if d.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
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

// Ping satisfies the health checker contract.
func (d *DB) Ping(ctx context.Context) error {
	return d.PingContext(ctx)
}

func (d *DB) migrate(ctx context.Context) error {
	var (
		fsys fs.FS
		dir  string
	)
	switch d.dialect {
	case DialectPostgres:
		fsys, dir = migrations.Postgres, "postgres"
	default:
		fsys, dir = migrations.SQLite, "sqlite"
	}

	files, err := fs.Glob(fsys, dir+"/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no migrations found")
	}
	sort.Strings(files)

	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := d.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	return nil
}

func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}
