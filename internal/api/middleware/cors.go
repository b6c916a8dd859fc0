package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"hooklog/internal/platform/config"
)

func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: cfg.AllowedMethods,
		AllowedHeaders: cfg.AllowedHeaders,
		ExposedHeaders: []string{RequestIDHeader, "Retry-After"},
		MaxAge:         cfg.MaxAge,
	})
}
