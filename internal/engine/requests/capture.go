package requests

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "hooklog/internal/pkg/errors"
)

const unknown = "unknown"

// DefaultClientIPHeaders are consulted in order; the first non-empty value wins.
var DefaultClientIPHeaders = []string{"CF-Connecting-IP", "X-Real-Ip", "X-Forwarded-For"}

type CaptureOptions struct {
	ClientIPHeaders []string
}

// Capture normalizes a live request into a loggable record. The body is read
// for every method except GET; callers bound it with http.MaxBytesReader and an
// overflow surfaces as a PayloadTooLarge error. ResponseTime is left for the
// caller to stamp at persistence time.
func Capture(r *http.Request, webhookID int64, opts CaptureOptions) (*WebhookRequest, error) {
	req := &WebhookRequest{
		WebhookID:   webhookID,
		Method:      r.Method,
		Headers:     captureHeaders(r),
		QueryParams: captureQuery(r),
		IPAddress:   ClientIP(r, opts.ClientIPHeaders),
		UserAgent:   r.UserAgent(),
		CreatedAt:   time.Now().UnixMilli(),
	}
	if req.UserAgent == "" {
		req.UserAgent = unknown
	}

	if r.Method != http.MethodGet {
		body, err := readBody(r)
		if err != nil {
			return nil, err
		}
		req.Body = &body
	}

	return req, nil
}

func readBody(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", apperrors.PayloadTooLarge("Payload too large")
		}
		return "", err
	}
	return string(data), nil
}

func captureHeaders(r *http.Request) map[string]string {
	headers := make(map[string]string, len(r.Header)+1)
	for key, values := range r.Header {
		headers[strings.ToLower(key)] = strings.Join(values, ", ")
	}
	// net/http moves Host out of the header map.
	if r.Host != "" {
		headers["host"] = r.Host
	}
	return headers
}

func captureQuery(r *http.Request) map[string]string {
	params := map[string]string{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[len(values)-1]
		}
	}
	return params
}

// ClientIP returns the first hop of the first non-empty trusted proxy header, or "unknown".
func ClientIP(r *http.Request, headers []string) string {
	if len(headers) == 0 {
		headers = DefaultClientIPHeaders
	}
	for _, name := range headers {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}
		if idx := strings.IndexByte(value, ','); idx >= 0 {
			value = value[:idx]
		}
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return unknown
}
