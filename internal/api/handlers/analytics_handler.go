package handlers

import (
	"net/http"

	"hooklog/internal/engine/analytics"
	"hooklog/internal/engine/requests"
	"hooklog/internal/platform/config"
)

type AnalyticsHandler struct {
	cfg config.QueryConfig
}

func NewAnalyticsHandler(cfg config.QueryConfig) *AnalyticsHandler {
	return &AnalyticsHandler{cfg: cfg}
}

func (h *AnalyticsHandler) service(r *http.Request) *analytics.Service {
	db := store(r)
	return analytics.NewService(analytics.NewRepository(db), requests.NewRepository(db))
}

// GetRequests returns a newest-first page of captured requests. An id that
// matches no webhook yields an empty list.
func (h *AnalyticsHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	p, err := parsePage(r.URL.Query(), h.cfg)
	if err != nil {
		writeError(w, r, err, "Failed to fetch webhook requests")
		return
	}

	id, ok := webhookID(r)
	if !ok {
		writeJSON(w, http.StatusOK, []*requests.WebhookRequest{})
		return
	}

	list, err := h.service(r).GetRequestHistory(r.Context(), id, p.Limit, p.Offset)
	if err != nil {
		writeError(w, r, err, "Failed to fetch webhook requests")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AnalyticsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r.URL.Query(), h.cfg)
	if err != nil {
		writeError(w, r, err, "Failed to fetch webhook stats")
		return
	}

	id, ok := webhookID(r)
	if !ok {
		writeJSON(w, http.StatusOK, []analytics.DailyStat{})
		return
	}

	stats, err := h.service(r).GetStatsOverview(r.Context(), id, days)
	if err != nil {
		writeError(w, r, err, "Failed to fetch webhook stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
