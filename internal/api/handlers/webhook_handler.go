package handlers

import (
	"encoding/json"
	"net/http"

	"hooklog/internal/engine/webhooks"
	"hooklog/internal/pkg/errors"
)

type WebhookHandler struct {
	endpointRetries int
	publicURL       string
}

func NewWebhookHandler(endpointRetries int, publicURL string) *WebhookHandler {
	return &WebhookHandler{endpointRetries: endpointRetries, publicURL: publicURL}
}

func (h *WebhookHandler) service(r *http.Request) *webhooks.Service {
	return webhooks.NewService(webhooks.NewRepository(store(r)), h.endpointRetries)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service(r).ListWebhooks(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch webhooks")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        interface{} `json:"name"`
		Description *string     `json:"description"`
		Secret      *string     `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	name, ok := req.Name.(string)
	if !ok {
		errors.WriteError(w, http.StatusBadRequest, "Webhook name is required")
		return
	}

	webhook, err := h.service(r).CreateWebhook(r.Context(), webhooks.CreateInput{
		Name:        name,
		Description: req.Description,
		Secret:      req.Secret,
	})
	if err != nil {
		writeError(w, r, err, "Failed to create webhook")
		return
	}
	writeJSON(w, http.StatusCreated, webhook)
}

func (h *WebhookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := webhookID(r)
	if !ok {
		errors.WriteError(w, http.StatusNotFound, "Webhook not found")
		return
	}

	webhook, err := h.service(r).GetWebhook(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to fetch webhook")
		return
	}
	writeJSON(w, http.StatusOK, webhook)
}

func (h *WebhookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := webhookID(r)
	if !ok {
		errors.WriteError(w, http.StatusNotFound, "Webhook not found")
		return
	}

	var req webhooks.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	webhook, err := h.service(r).UpdateWebhook(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, "Failed to update webhook")
		return
	}
	writeJSON(w, http.StatusOK, webhook)
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := webhookID(r)
	if !ok {
		errors.WriteError(w, http.StatusNotFound, "Webhook not found")
		return
	}

	if err := h.service(r).DeleteWebhook(r.Context(), id); err != nil {
		writeError(w, r, err, "Failed to delete webhook")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Webhook deleted successfully"})
}

// QRCode renders the webhook's public ingestion URL as a PNG data URI.
func (h *WebhookHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := webhookID(r)
	if !ok {
		errors.WriteError(w, http.StatusNotFound, "Webhook not found")
		return
	}

	size, err := parseSize(r.URL.Query())
	if err != nil {
		writeError(w, r, err, "Failed to generate QR code")
		return
	}

	webhook, err := h.service(r).GetWebhook(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Failed to fetch webhook")
		return
	}

	url := webhooks.IngestURL(h.publicURL, webhook.Endpoint)
	qr, err := webhooks.GenerateQRCode(url, size)
	if err != nil {
		writeError(w, r, err, "Failed to generate QR code")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":     url,
		"qr_code": qr,
	})
}
