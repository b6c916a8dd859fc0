package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	apiContext "hooklog/internal/api/context"
	"hooklog/internal/api/middleware"
	"hooklog/internal/pkg/errors"
	"hooklog/internal/pkg/reporting"
	"hooklog/internal/platform/database"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError answers with the error's own status and message, or with fallback
// and 500 when err carries nothing safe to show. Server-side failures are logged
// and reported.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := errors.Resolve(err, fallback)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFrom(r.Context())).
			Str("path", r.URL.Path).
			Msg(fallback)
		reporting.CaptureError(r, err)
	}
	errors.WriteError(w, status, message)
}

func store(r *http.Request) *database.DB {
	db := middleware.StoreFrom(r.Context())
	if db == nil {
		panic("handlers: no store in request context")
	}
	return db
}

func params(r *http.Request) httprouter.Params {
	ps, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return ps
}

// webhookID parses the :id segment; false means no webhook can match it.
func webhookID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(params(r).ByName("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
