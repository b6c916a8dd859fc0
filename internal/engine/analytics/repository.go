package analytics

import (
	"context"

	"hooklog/internal/platform/database"
)

type DailyStat struct {
	WebhookID       int64  `json:"webhook_id"`
	Date            string `json:"date"` // YYYY-MM-DD, UTC
	TotalRequests   int64  `json:"total_requests"`
	SuccessRequests int64  `json:"success_requests"`
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// IncrementDaily counts one processed request for (webhookID, date) in a single
// conflict-resolving write, so concurrent calls never lose an increment.
func (r *Repository) IncrementDaily(ctx context.Context, webhookID int64, date string) error {
	query := `
		INSERT INTO webhook_stats (webhook_id, date, total_requests, success_requests)
		VALUES (?, ?, 1, 1)
		ON CONFLICT (webhook_id, date) DO UPDATE SET
			total_requests = webhook_stats.total_requests + 1,
			success_requests = webhook_stats.success_requests + 1
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), webhookID, date)
	return err
}

// GetDailyStats returns rows dated on or after since, newest first.
func (r *Repository) GetDailyStats(ctx context.Context, webhookID int64, since string) ([]DailyStat, error) {
	query := `
		SELECT webhook_id, date, total_requests, success_requests
		FROM webhook_stats
		WHERE webhook_id = ? AND date >= ?
		ORDER BY date DESC
	`
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), webhookID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []DailyStat{}
	for rows.Next() {
		var s DailyStat
		if err := rows.Scan(&s.WebhookID, &s.Date, &s.TotalRequests, &s.SuccessRequests); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *Repository) DeleteBefore(ctx context.Context, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM webhook_stats WHERE date < ?`), date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
