// Package ingest records inbound calls on public webhook endpoints.
package ingest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"hooklog/internal/engine/analytics"
	"hooklog/internal/engine/requests"
	"hooklog/internal/engine/webhooks"
	apperrors "hooklog/internal/pkg/errors"
)

const (
	MessageReceived = "Webhook received successfully"
	MessageFailed   = "Failed to process webhook"
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Receipt is the confirmation returned to the caller.
type Receipt struct {
	Message   string `json:"message"`
	Webhook   string `json:"webhook"`
	Timestamp string `json:"timestamp"`
}

type Service struct {
	webhooks *webhooks.Repository
	requests *requests.Repository
	stats    *analytics.Repository
	opts     requests.CaptureOptions
	now      func() time.Time
}

func NewService(webhookRepo *webhooks.Repository, requestRepo *requests.Repository, statsRepo *analytics.Repository, opts requests.CaptureOptions) *Service {
	return &Service{
		webhooks: webhookRepo,
		requests: requestRepo,
		stats:    statsRepo,
		opts:     opts,
		now:      time.Now,
	}
}

// Ingest resolves, authenticates, captures and records one inbound call.
// startedAt marks request arrival and feeds the stored response time.
func (s *Service) Ingest(ctx context.Context, endpoint string, r *http.Request, startedAt time.Time) (*Receipt, error) {
	if !webhooks.IsValidEndpoint(endpoint) {
		return nil, apperrors.NotFound("Webhook not found")
	}

	webhook, err := s.webhooks.GetActiveByEndpoint(ctx, endpoint)
	if err != nil {
		if errors.Is(err, webhooks.ErrNotFound) {
			return nil, apperrors.NotFound("Webhook not found")
		}
		return nil, apperrors.Processing(MessageFailed, err)
	}

	if !Authorized(webhook, r.Header.Get("Authorization")) {
		return nil, apperrors.Unauthorized("Unauthorized")
	}

	record, err := requests.Capture(r, webhook.ID, s.opts)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindPayloadTooLarge {
			return nil, err
		}
		return nil, apperrors.Processing(MessageFailed, err)
	}

	now := s.now()
	record.ResponseTime = now.Sub(startedAt).Milliseconds()
	if record.ResponseTime < 0 {
		record.ResponseTime = 0
	}

	if err := s.requests.Insert(ctx, record); err != nil {
		return nil, apperrors.Processing(MessageFailed, err)
	}
	if err := s.stats.IncrementDaily(ctx, webhook.ID, analytics.DateKey(now)); err != nil {
		return nil, apperrors.Processing(MessageFailed, err)
	}

	log.Debug().
		Int64("webhook_id", webhook.ID).
		Str("method", record.Method).
		Int64("response_time_ms", record.ResponseTime).
		Msg("webhook request recorded")

	return &Receipt{
		Message:   MessageReceived,
		Webhook:   webhook.Name,
		Timestamp: now.UTC().Format(timestampLayout),
	}, nil
}

// Authorized applies the shared-secret check: when a secret is configured the
// Authorization header must contain it as a substring.
func Authorized(webhook *webhooks.Webhook, authorization string) bool {
	if !webhook.HasSecret() {
		return true
	}
	return strings.Contains(authorization, *webhook.Secret)
}
