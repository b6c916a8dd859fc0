package requests

// WebhookRequest is one captured inbound call. Rows are append-only.
type WebhookRequest struct {
	ID           int64             `json:"id"`
	WebhookID    int64             `json:"webhook_id"`
	Method       string            `json:"method"`
	Headers      map[string]string `json:"headers"`
	Body         *string           `json:"body"`
	QueryParams  map[string]string `json:"query_params"`
	IPAddress    string            `json:"ip_address"`
	UserAgent    string            `json:"user_agent"`
	ResponseTime int64             `json:"response_time"` // milliseconds
	CreatedAt    int64             `json:"created_at"`    // unix millis
}
