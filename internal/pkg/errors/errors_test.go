package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolve(t *testing.T) {
	storeErr := stderrors.New("UNIQUE constraint failed: webhooks.endpoint")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"Validation", Validation("Webhook name is required"), http.StatusBadRequest, "Webhook name is required"},
		{"Not Found", NotFound("Webhook not found"), http.StatusNotFound, "Webhook not found"},
		{"Unauthorized", Unauthorized("Unauthorized"), http.StatusUnauthorized, "Unauthorized"},
		{"Too Large", PayloadTooLarge("Payload too large"), http.StatusRequestEntityTooLarge, "Payload too large"},
		{"Processing Hides Detail", Processing("insert request", storeErr), http.StatusInternalServerError, "fallback"},
		{"Untyped Error", storeErr, http.StatusInternalServerError, "fallback"},
		{"Wrapped Typed Error", fmt.Errorf("ctx: %w", NotFound("Webhook not found")), http.StatusNotFound, "Webhook not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := Resolve(tt.err, "fallback")
			if status != tt.wantStatus || msg != tt.wantMsg {
				t.Errorf("Resolve() = (%d, %q), want (%d, %q)", status, msg, tt.wantStatus, tt.wantMsg)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Processing("insert request", cause)

	if !Is(err, cause) {
		t.Error("Expected Processing error to unwrap to its cause")
	}
	if KindOf(err) != KindProcessing {
		t.Errorf("Expected KindProcessing, got %v", KindOf(err))
	}
	if KindOf(cause) != KindInternal {
		t.Errorf("Expected KindInternal for untyped error, got %v", KindOf(cause))
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusNotFound, "Not found")

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 || body["error"] != "Not found" {
		t.Errorf("Unexpected body %v", body)
	}
}
