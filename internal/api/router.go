package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "hooklog/internal/api/context"
	"hooklog/internal/api/handlers"
	"hooklog/internal/api/middleware"
	"hooklog/internal/pkg/errors"
	"hooklog/internal/platform/config"
)

type Dependencies struct {
	WebhookHandler   *handlers.WebhookHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	IngestHandler    *handlers.IngestHandler
	HealthHandler    *handlers.HealthHandler
	StoreMiddleware  *middleware.StoreMiddleware
	Config           *config.Config
}

// ingestMethods are the methods accepted on the public ingestion route.
// CORS preflights are answered before routing and never recorded.
var ingestMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

func NewRouter(deps *Dependencies) http.Handler {
	router := httprouter.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = false
	router.HandleOPTIONS = false
	router.NotFound = http.HandlerFunc(notFound)

	cfg := deps.Config
	storeMid := deps.StoreMiddleware.Handle
	apiLimit := middleware.RateLimit("api", cfg.RateLimit.APIPerMinute, cfg.Ingest.ClientIPHeaders)
	ingestLimit := middleware.RateLimit("ingest", cfg.RateLimit.IngestPerMinute, cfg.Ingest.ClientIPHeaders)

	// Webhook management
	router.GET("/api/webhooks",
		chain(deps.WebhookHandler.List, apiLimit, storeMid))
	router.POST("/api/webhooks",
		chain(deps.WebhookHandler.Create, apiLimit, storeMid))
	router.GET("/api/webhooks/:id",
		chain(deps.WebhookHandler.Get, apiLimit, storeMid))
	router.PUT("/api/webhooks/:id",
		chain(deps.WebhookHandler.Update, apiLimit, storeMid))
	router.DELETE("/api/webhooks/:id",
		chain(deps.WebhookHandler.Delete, apiLimit, storeMid))
	router.GET("/api/webhooks/:id/qr",
		chain(deps.WebhookHandler.QRCode, apiLimit, storeMid))

	// History and stats
	router.GET("/api/webhooks/:id/requests",
		chain(deps.AnalyticsHandler.GetRequests, apiLimit, storeMid))
	router.GET("/api/webhooks/:id/stats",
		chain(deps.AnalyticsHandler.GetStats, apiLimit, storeMid))

	// Public ingestion
	ingest := chain(deps.IngestHandler.Handle, ingestLimit, storeMid)
	for _, method := range ingestMethods {
		router.Handle(method, "/webhook/:endpoint", ingest)
	}

	router.GET("/favicon.ico", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.GET("/health", wrap(deps.HealthHandler.Check))

	var handler http.Handler = router
	handler = middleware.CORS(cfg.CORS)(handler)
	handler = middleware.Recover(handler)
	handler = middleware.RequestLog(handler)
	return handler
}

func notFound(w http.ResponseWriter, r *http.Request) {
	errors.WriteError(w, http.StatusNotFound, "Not found")
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
