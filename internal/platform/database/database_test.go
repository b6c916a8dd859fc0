package database

import (
	"context"
	"path/filepath"
	"testing"

	"hooklog/internal/platform/config"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		query  string
		want   string
	}{
		{
			name:   "SQLite Untouched",
			driver: config.DriverSQLite,
			query:  "SELECT * FROM webhooks WHERE id = ? AND is_active = ?",
			want:   "SELECT * FROM webhooks WHERE id = ? AND is_active = ?",
		},
		{
			name:   "Postgres Numbered",
			driver: config.DriverPostgres,
			query:  "SELECT * FROM webhook_requests WHERE webhook_id = ? LIMIT ? OFFSET ?",
			want:   "SELECT * FROM webhook_requests WHERE webhook_id = $1 LIMIT $2 OFFSET $3",
		},
		{
			name:   "Quoted Question Mark",
			driver: config.DriverPostgres,
			query:  "SELECT '?' FROM webhooks WHERE id = ?",
			want:   "SELECT '?' FROM webhooks WHERE id = $1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &DB{Driver: tt.driver}
			if got := db.Rebind(tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN("file:data/app.db", 5000); got != "file:data/app.db?_foreign_keys=1&_busy_timeout=5000" {
		t.Errorf("unexpected dsn %s", got)
	}
	if got := sqliteDSN("file:app.db?cache=shared", 0); got != "file:app.db?cache=shared&_foreign_keys=1" {
		t.Errorf("unexpected dsn %s", got)
	}
}

func TestSQLitePath(t *testing.T) {
	tests := map[string]string{
		"file:data/app.db":               "data/app.db",
		"data/app.db?cache=shared":       "data/app.db",
		":memory:":                       "",
		"file::memory:?cache=shared":     "",
		"file:test.db?mode=memory&cache": "",
	}
	for url, want := range tests {
		if got := sqlitePath(url); got != want {
			t.Errorf("sqlitePath(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestOpenAndEnsureSchema(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		URL:            "file:" + filepath.Join(dir, "nested", "hooklog.db"),
		MaxConnections: 1,
		BusyTimeoutMS:  1000,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	// Idempotent
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("second EnsureSchema() error = %v", err)
	}

	for _, table := range []string{"webhooks", "webhook_requests", "webhook_stats"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil || fk != 1 {
		t.Errorf("Expected foreign keys enabled, got %d (%v)", fk, err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(config.DatabaseConfig{Driver: "mysql", URL: "x"}); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}
