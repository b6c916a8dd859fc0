package analytics

import (
	"context"
	"time"

	"hooklog/internal/engine/requests"
)

type Service struct {
	repo     *Repository
	requests *requests.Repository
	now      func() time.Time
}

func NewService(repo *Repository, requestRepo *requests.Repository) *Service {
	return &Service{repo: repo, requests: requestRepo, now: time.Now}
}

func (s *Service) GetRequestHistory(ctx context.Context, webhookID int64, limit, offset int) ([]*requests.WebhookRequest, error) {
	return s.requests.ListByWebhook(ctx, webhookID, limit, offset)
}

func (s *Service) GetStatsOverview(ctx context.Context, webhookID int64, days int) ([]DailyStat, error) {
	return s.repo.GetDailyStats(ctx, webhookID, WindowStart(s.now(), days))
}
