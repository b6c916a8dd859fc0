package webhooks

import (
	"context"
	"errors"

	apperrors "hooklog/internal/pkg/errors"
)

type Service struct {
	repo            *Repository
	endpointRetries int
}

func NewService(repo *Repository, endpointRetries int) *Service {
	if endpointRetries < 1 {
		endpointRetries = DefaultEndpointRetries
	}
	return &Service{repo: repo, endpointRetries: endpointRetries}
}

func (s *Service) ListWebhooks(ctx context.Context) ([]*Summary, error) {
	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Processing("list webhooks", err)
	}
	return summaries, nil
}

func (s *Service) CreateWebhook(ctx context.Context, in CreateInput) (*Webhook, error) {
	if err := ValidateName(in.Name); err != nil {
		return nil, err
	}

	endpoint, err := GenerateEndpoint(ctx, s.repo, s.endpointRetries)
	if err != nil {
		return nil, apperrors.Processing("generate endpoint", err)
	}

	webhook := &Webhook{
		Endpoint:    endpoint,
		Name:        in.Name,
		Description: optional(in.Description),
		Secret:      optional(in.Secret),
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, webhook); err != nil {
		return nil, apperrors.Processing("insert webhook", err)
	}

	// Read back so the response carries the store-assigned id.
	created, err := s.repo.GetByEndpoint(ctx, endpoint)
	if err != nil {
		return nil, apperrors.Processing("read created webhook", err)
	}
	return created, nil
}

func (s *Service) GetWebhook(ctx context.Context, id int64) (*Webhook, error) {
	webhook, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get webhook", err)
	}
	return webhook, nil
}

func (s *Service) UpdateWebhook(ctx context.Context, id int64, in UpdateInput) (*Webhook, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("get webhook", err)
	}

	if in.Name != nil {
		if err := ValidateName(*in.Name); err != nil {
			return nil, err
		}
		existing.Name = *in.Name
	}
	if in.Description != nil {
		existing.Description = emptyToNil(*in.Description)
	}
	if in.Secret != nil {
		existing.Secret = emptyToNil(*in.Secret)
	}
	if in.IsActive != nil {
		existing.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, notFoundOr("update webhook", err)
	}
	return existing, nil
}

func (s *Service) DeleteWebhook(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr("delete webhook", err)
	}
	return nil
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound("Webhook not found")
	}
	return apperrors.Processing(op, err)
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	return emptyToNil(*s)
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
