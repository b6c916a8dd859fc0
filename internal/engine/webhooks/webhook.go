package webhooks

import "errors"

var ErrNotFound = errors.New("webhook not found")

type Webhook struct {
	ID          int64   `json:"id"`
	Endpoint    string  `json:"endpoint"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Secret      *string `json:"secret"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   int64   `json:"created_at"` // unix seconds
	UpdatedAt   int64   `json:"updated_at"` // unix seconds
}

// Summary is a webhook annotated with its request log aggregates.
type Summary struct {
	Webhook
	TotalRequests int64  `json:"total_requests"`
	LastRequest   *int64 `json:"last_request"` // unix millis of the newest request, null when none
}

type CreateInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Secret      *string `json:"secret"`
}

// UpdateInput fields left nil keep their stored value. An empty string clears
// Description or Secret.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Secret      *string `json:"secret"`
	IsActive    *bool   `json:"is_active"`
}

// HasSecret reports whether inbound calls must carry the secret.
func (w *Webhook) HasSecret() bool {
	return w.Secret != nil && *w.Secret != ""
}
