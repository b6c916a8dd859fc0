package handlers

import (
	"net/http"
	"time"

	"hooklog/internal/api/middleware"
	"hooklog/internal/engine/analytics"
	"hooklog/internal/engine/ingest"
	"hooklog/internal/engine/requests"
	"hooklog/internal/engine/webhooks"
	"hooklog/internal/platform/config"
)

// IngestHandler serves the public /webhook/:endpoint route for every method.
type IngestHandler struct {
	maxBodyBytes int64
	capture      requests.CaptureOptions
}

func NewIngestHandler(cfg config.IngestConfig) *IngestHandler {
	return &IngestHandler{
		maxBodyBytes: cfg.MaxBodyBytes,
		capture:      requests.CaptureOptions{ClientIPHeaders: cfg.ClientIPHeaders},
	}
}

func (h *IngestHandler) Handle(w http.ResponseWriter, r *http.Request) {
	startedAt, ok := middleware.StartedAtFrom(r.Context())
	if !ok {
		startedAt = time.Now()
	}

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	db := store(r)
	svc := ingest.NewService(
		webhooks.NewRepository(db),
		requests.NewRepository(db),
		analytics.NewRepository(db),
		h.capture,
	)

	receipt, err := svc.Ingest(r.Context(), params(r).ByName("endpoint"), r, startedAt)
	if err != nil {
		writeError(w, r, err, ingest.MessageFailed)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
