package shared

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// StoreHeader carries the tenant scope on API requests.
const StoreHeader = "X-Store-ID"

// ErrMissingStore indicates the request carried no tenant scope.
var ErrMissingStore = errors.New("store id required")

type storeContextKey struct{}

// ContextWithStore stores the tenant id in context.
func ContextWithStore(ctx context.Context, storeID uuid.UUID) context.Context {
	return context.WithValue(ctx, storeContextKey{}, storeID)
}

// StoreFromContext extracts the tenant id from context.
func StoreFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(storeContextKey{}).(uuid.UUID)
	return id, ok
}

// StoreMiddleware resolves the tenant header once per request and caches it in
// the context; requests without a valid header pass through and fail later at
// the handler's StoreFromRequest call.
func StoreMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(StoreHeader); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				r = r.WithContext(ContextWithStore(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// StoreFromRequest resolves the tenant id from the request context or header.
func StoreFromRequest(r *http.Request) (uuid.UUID, error) {
	if id, ok := StoreFromContext(r.Context()); ok {
		return id, nil
	}
	raw := r.Header.Get(StoreHeader)
	if raw == "" {
		return uuid.Nil, ErrMissingStore
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("store id must be a valid uuid")
	}
	return id, nil
}
