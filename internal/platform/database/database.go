package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"hooklog/internal/platform/config"
)

// DB is the storage gateway handed to every request. Queries are written with
// "?" placeholders and passed through Rebind before execution.
type DB struct {
	*sql.DB
	Driver string
}

func New(db *sql.DB, driver string) *DB {
	return &DB{DB: db, Driver: driver}
}

func Open(cfg config.DatabaseConfig) (*DB, error) {
	driverName, dsn := cfg.Driver, cfg.URL

	switch cfg.Driver {
	case config.DriverSQLite:
		dsn = sqliteDSN(cfg.URL, cfg.BusyTimeoutMS)
		if path := sqlitePath(cfg.URL); path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	case config.DriverPostgres:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConnections > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return New(sqlDB, cfg.Driver), nil
}

// Rebind converts "?" placeholders to the "$n" form Postgres expects.
func (db *DB) Rebind(query string) string {
	if db.Driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func sqliteDSN(url string, busyTimeoutMS int) string {
	params := []string{"_foreign_keys=1"}
	if busyTimeoutMS > 0 {
		params = append(params, "_busy_timeout="+strconv.Itoa(busyTimeoutMS))
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(params, "&")
}

// sqlitePath returns the on-disk file behind a sqlite URL, or "" for in-memory databases.
func sqlitePath(url string) string {
	path := strings.TrimPrefix(url, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(url, "mode=memory") {
		return ""
	}
	return path
}
