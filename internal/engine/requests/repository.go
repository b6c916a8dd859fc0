package requests

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"hooklog/internal/platform/database"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, req *WebhookRequest) error {
	headers, err := json.Marshal(req.Headers)
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}
	queryParams, err := json.Marshal(req.QueryParams)
	if err != nil {
		return fmt.Errorf("encode query params: %w", err)
	}

	query := `
		INSERT INTO webhook_requests (
			webhook_id, method, headers, body, query_params,
			ip_address, user_agent, response_time, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, r.db.Rebind(query),
		req.WebhookID,
		req.Method,
		string(headers),
		req.Body,
		string(queryParams),
		req.IPAddress,
		req.UserAgent,
		req.ResponseTime,
		req.CreatedAt,
	)
	return err
}

// ListByWebhook returns a newest-first page of the webhook's request log.
func (r *Repository) ListByWebhook(ctx context.Context, webhookID int64, limit, offset int) ([]*WebhookRequest, error) {
	query := `
		SELECT id, webhook_id, method, headers, body, query_params,
		       ip_address, user_agent, response_time, created_at
		FROM webhook_requests
		WHERE webhook_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), webhookID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*WebhookRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// DeleteBefore prunes requests created before the cutoff (unix millis).
func (r *Repository) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM webhook_requests WHERE created_at < ?`), cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanRequest(s interface {
	Scan(dest ...interface{}) error
}) (*WebhookRequest, error) {
	var req WebhookRequest
	var headers, queryParams string
	var body sql.NullString

	if err := s.Scan(
		&req.ID, &req.WebhookID, &req.Method, &headers, &body, &queryParams,
		&req.IPAddress, &req.UserAgent, &req.ResponseTime, &req.CreatedAt,
	); err != nil {
		return nil, err
	}

	req.Headers = decodeMap(headers)
	req.QueryParams = decodeMap(queryParams)
	if body.Valid {
		val := body.String
		req.Body = &val
	}
	return &req, nil
}

// decodeMap tolerates rows written by other tools; anything unparsable becomes an empty map.
func decodeMap(raw string) map[string]string {
	m := map[string]string{}
	if raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return map[string]string{}
	}
	return m
}
