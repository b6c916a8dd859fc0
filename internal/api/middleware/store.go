package middleware

import (
	"context"
	"net/http"

	apiContext "hooklog/internal/api/context"
	"hooklog/internal/platform/database"
)

// StoreMiddleware hands the storage gateway to each request through its context.
type StoreMiddleware struct {
	db *database.DB
}

func NewStoreMiddleware(db *database.DB) *StoreMiddleware {
	return &StoreMiddleware{db: db}
}

func (m *StoreMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), apiContext.Store, m.db)
		next(w, r.WithContext(ctx))
	}
}

// StoreFrom returns the gateway injected by StoreMiddleware, or nil.
func StoreFrom(ctx context.Context) *database.DB {
	db, _ := ctx.Value(apiContext.Store).(*database.DB)
	return db
}
