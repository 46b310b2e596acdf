// Package cache provides a Redis-backed response cache for read endpoints.
// The client is constructed at startup and injected; its lifecycle is owned
// by the application.
package cache

import (
	"context"
	"net/http"
	"time"

	"github.com/pagekeep/pagekeep/internal/pkg/ctxlog"
	"github.com/pagekeep/pagekeep/internal/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const lookupTimeout = 200 * time.Millisecond

// Client wraps a Redis connection used for response cache lookups.
type Client struct {
	rdb *redis.Client
}

// New creates a Redis cache client.
func New(addr, password string) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Middleware serves GET requests from the cache when an entry exists for
// the request URI and falls through to the handler otherwise. A lookup
// failure is treated as a miss. Nothing populates entries yet; the write
// side lands together with invalidation on book mutations.
func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), lookupTimeout)
		defer cancel()

		body, err := c.rdb.Get(ctx, r.URL.RequestURI()).Result()
		if err != nil {
			if err != redis.Nil {
				metrics.CacheLookups.WithLabelValues("error").Inc()
				ctxlog.FromContext(r.Context()).Warn("cache lookup failed", "error", err)
			} else {
				metrics.CacheLookups.WithLabelValues("miss").Inc()
			}
			next.ServeHTTP(w, r)
			return
		}

		metrics.CacheLookups.WithLabelValues("hit").Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			ctxlog.FromContext(r.Context()).Error("failed to write cached response", "error", err)
		}
	})
}
