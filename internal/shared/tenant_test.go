package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStoreMiddlewareScopesRequest(t *testing.T) {
	storeID := uuid.New()

	var resolved uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := StoreFromRequest(r)
		require.NoError(t, err)
		resolved = id
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(StoreHeader, storeID.String())
	StoreMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, storeID, resolved)
}

func TestStoreFromRequestRejectsBadHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	_, err := StoreFromRequest(req)
	require.ErrorIs(t, err, ErrMissingStore)

	req.Header.Set(StoreHeader, "not-a-uuid")
	_, err = StoreFromRequest(req)
	require.Error(t, err)
}
