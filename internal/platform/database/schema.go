package database

import (
	"context"
	"fmt"

	"hooklog/internal/platform/config"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS webhooks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		endpoint TEXT NOT NULL UNIQUE,
		description TEXT,
		secret TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		webhook_id INTEGER NOT NULL REFERENCES webhooks(id) ON DELETE CASCADE,
		method TEXT NOT NULL,
		headers TEXT NOT NULL,
		body TEXT,
		query_params TEXT NOT NULL,
		ip_address TEXT NOT NULL,
		user_agent TEXT NOT NULL,
		response_time INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_requests_webhook_created
		ON webhook_requests (webhook_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS webhook_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		webhook_id INTEGER NOT NULL REFERENCES webhooks(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		total_requests INTEGER NOT NULL DEFAULT 0,
		success_requests INTEGER NOT NULL DEFAULT 0,
		UNIQUE (webhook_id, date)
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS webhooks (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		endpoint TEXT NOT NULL UNIQUE,
		description TEXT,
		secret TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_requests (
		id BIGSERIAL PRIMARY KEY,
		webhook_id BIGINT NOT NULL REFERENCES webhooks(id) ON DELETE CASCADE,
		method TEXT NOT NULL,
		headers TEXT NOT NULL,
		body TEXT,
		query_params TEXT NOT NULL,
		ip_address TEXT NOT NULL,
		user_agent TEXT NOT NULL,
		response_time BIGINT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_requests_webhook_created
		ON webhook_requests (webhook_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS webhook_stats (
		id BIGSERIAL PRIMARY KEY,
		webhook_id BIGINT NOT NULL REFERENCES webhooks(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		total_requests BIGINT NOT NULL DEFAULT 0,
		success_requests BIGINT NOT NULL DEFAULT 0,
		UNIQUE (webhook_id, date)
	)`,
}

// EnsureSchema creates the webhooks, webhook_requests and webhook_stats tables if they are missing.
func EnsureSchema(ctx context.Context, db *DB) error {
	statements := sqliteSchema
	if db.Driver == config.DriverPostgres {
		statements = postgresSchema
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
