package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"hooklog/internal/platform/config"
	"hooklog/internal/platform/database"
)

func TestStoreMiddleware(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer sqlDB.Close()

	db := database.New(sqlDB, config.DriverSQLite)
	mw := NewStoreMiddleware(db)

	req, _ := http.NewRequest("GET", "/api/webhooks", nil)
	rr := httptest.NewRecorder()

	called := false
	mw.Handle(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if got := StoreFrom(r.Context()); got != db {
			t.Errorf("Expected injected store, got %v", got)
		}
	})(rr, req)

	if !called {
		t.Error("Expected next handler to be called")
	}
	if StoreFrom(req.Context()) != nil {
		t.Error("Expected no store on a bare context")
	}
}

func TestRequestLog(t *testing.T) {
	t.Run("generates request id and start time", func(t *testing.T) {
		var seenID string
		handler := RequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenID = RequestIDFrom(r.Context())
			if _, ok := StartedAtFrom(r.Context()); !ok {
				t.Error("Expected arrival time in context")
			}
			w.WriteHeader(http.StatusTeapot)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		if rr.Code != http.StatusTeapot {
			t.Errorf("Expected status to pass through, got %d", rr.Code)
		}
		if len(seenID) != 26 {
			t.Errorf("Expected ULID request id, got %q", seenID)
		}
		if rr.Header().Get(RequestIDHeader) != seenID {
			t.Errorf("Expected X-Request-ID %s, got %s", seenID, rr.Header().Get(RequestIDHeader))
		}
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		handler := RequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Header().Get(RequestIDHeader) != "abc-123" {
			t.Errorf("Expected echoed request id, got %s", rr.Header().Get(RequestIDHeader))
		}
	})
}

func TestRecover(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/webhook/x", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	if body["error"] != "Internal server error" {
		t.Errorf("Unexpected body %v", body)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got %s", rr.Header().Get("Content-Type"))
	}
}

func TestRateLimit(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	t.Run("limits per client", func(t *testing.T) {
		handler := RateLimit("ingest", 2, nil)(ok)

		codes := []int{}
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("POST", "/webhook/x", nil)
			req.Header.Set("X-Real-Ip", "198.51.100.7")
			rr := httptest.NewRecorder()
			handler(rr, req)
			codes = append(codes, rr.Code)
		}
		if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
			t.Errorf("Unexpected status sequence %v", codes)
		}

		// A different client has its own window.
		req := httptest.NewRequest("POST", "/webhook/x", nil)
		req.Header.Set("X-Real-Ip", "198.51.100.8")
		rr := httptest.NewRecorder()
		handler(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("Expected second client to pass, got %d", rr.Code)
		}
	})

	t.Run("zero disables", func(t *testing.T) {
		handler := RateLimit("api", 0, nil)(ok)
		for i := 0; i < 20; i++ {
			rr := httptest.NewRecorder()
			handler(rr, httptest.NewRequest("GET", "/", nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected no limiting, got %d", rr.Code)
			}
		}
	})
}
