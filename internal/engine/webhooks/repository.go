package webhooks

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hooklog/internal/platform/database"
)

const webhookColumns = `id, endpoint, name, description, secret, is_active, created_at, updated_at`

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, webhook *Webhook) error {
	now := time.Now().Unix()
	webhook.CreatedAt = now
	webhook.UpdatedAt = now

	query := `
		INSERT INTO webhooks (name, endpoint, description, secret, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		webhook.Name,
		webhook.Endpoint,
		webhook.Description,
		webhook.Secret,
		webhook.IsActive,
		webhook.CreatedAt,
		webhook.UpdatedAt,
	)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE id = ?`
	return scanWebhook(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
}

func (r *Repository) GetByEndpoint(ctx context.Context, endpoint string) (*Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE endpoint = ?`
	return scanWebhook(r.db.QueryRowContext(ctx, r.db.Rebind(query), endpoint))
}

// GetActiveByEndpoint resolves the public routing key; inactive webhooks are reported as ErrNotFound.
func (r *Repository) GetActiveByEndpoint(ctx context.Context, endpoint string) (*Webhook, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE endpoint = ? AND is_active = ?`
	return scanWebhook(r.db.QueryRowContext(ctx, r.db.Rebind(query), endpoint, true))
}

func (r *Repository) ExistsByEndpoint(ctx context.Context, endpoint string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM webhooks WHERE endpoint = ?)`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), endpoint).Scan(&exists)
	return exists, err
}

func (r *Repository) List(ctx context.Context) ([]*Summary, error) {
	query := `
		SELECT w.id, w.endpoint, w.name, w.description, w.secret, w.is_active, w.created_at, w.updated_at,
		       COUNT(wr.id) AS total_requests, MAX(wr.created_at) AS last_request
		FROM webhooks w
		LEFT JOIN webhook_requests wr ON w.id = wr.webhook_id
		GROUP BY w.id
		ORDER BY w.created_at DESC, w.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []*Summary{}
	for rows.Next() {
		var s Summary
		var description, secret sql.NullString
		var lastRequest sql.NullInt64

		if err := rows.Scan(
			&s.ID, &s.Endpoint, &s.Name, &description, &secret, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
			&s.TotalRequests, &lastRequest,
		); err != nil {
			return nil, err
		}

		s.Description = nullableString(description)
		s.Secret = nullableString(secret)
		if lastRequest.Valid {
			val := lastRequest.Int64
			s.LastRequest = &val
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

func (r *Repository) Update(ctx context.Context, webhook *Webhook) error {
	webhook.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE webhooks
		SET name = ?, description = ?, secret = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		webhook.Name,
		webhook.Description,
		webhook.Secret,
		webhook.IsActive,
		webhook.UpdatedAt,
		webhook.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes the webhook together with its request log and daily stats.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM webhook_stats WHERE webhook_id = ?`), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM webhook_requests WHERE webhook_id = ?`), id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM webhooks WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanWebhook(s interface {
	Scan(dest ...interface{}) error
}) (*Webhook, error) {
	var w Webhook
	var description, secret sql.NullString

	err := s.Scan(&w.ID, &w.Endpoint, &w.Name, &description, &secret, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	w.Description = nullableString(description)
	w.Secret = nullableString(secret)
	return &w, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	val := ns.String
	return &val
}
