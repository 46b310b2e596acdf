package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := New(mr.Addr(), "")
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func passthroughHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	})
}

func TestMiddleware_Miss(t *testing.T) {
	client, _ := newTestCache(t)

	var called bool
	handler := client.Middleware(passthroughHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called, "miss must fall through to the handler")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_Hit(t *testing.T) {
	client, mr := newTestCache(t)
	require.NoError(t, mr.Set("/api/books?page=1&limit=10", `{"success":true,"data":["cached"]}`))

	var called bool
	handler := client.Middleware(passthroughHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/books?page=1&limit=10", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called, "hit must short-circuit the handler")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":["cached"]}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestMiddleware_SkipsNonGET(t *testing.T) {
	client, mr := newTestCache(t)
	require.NoError(t, mr.Set("/api/books", `{"stale":true}`))

	var called bool
	handler := client.Middleware(passthroughHandler(&called))

	req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called, "non-GET requests bypass the cache")
}

func TestMiddleware_LookupErrorFallsThrough(t *testing.T) {
	client, mr := newTestCache(t)
	mr.Close()

	var called bool
	handler := client.Middleware(passthroughHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called, "a broken cache must never fail the request")
	assert.Equal(t, http.StatusOK, rec.Code)
}
