package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/tair/smart-inventory/pkg/logger"
)

// ItemsPrefix keys the item read cache. Writers in other verticals
// that move stock invalidate this prefix too.
const ItemsPrefix = "cache:items"

// Config holds response cache configuration.
type Config struct {
	TTL       time.Duration
	KeyPrefix string
}

// DefaultConfig returns the default response cache configuration.
func DefaultConfig() Config {
	return Config{
		TTL:       time.Minute,
		KeyPrefix: "cache",
	}
}

// Middleware caches successful GET responses in Redis. A nil client
// disables caching entirely.
func Middleware(client *redis.Client, cfg Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(cfg.KeyPrefix, r)
			ctx := r.Context()

			if cached, err := client.Get(ctx, key).Bytes(); err == nil && len(cached) > 0 {
				logger.Debug(ctx).Str("path", r.URL.Path).Msg("cache hit")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.Write(cached)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			rec.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK && rec.body.Len() > 0 {
				if err := client.Set(ctx, key, rec.body.Bytes(), cfg.TTL).Err(); err != nil {
					logger.Warn(ctx).Err(err).Str("path", r.URL.Path).Msg("failed to cache response")
				}
			}
		})
	}
}

// Invalidate removes every cached response under the prefix. Called by
// deliveries after a mutation. A nil client is a no-op.
func Invalidate(ctx context.Context, client *redis.Client, prefix string) {
	if client == nil {
		return
	}

	iter := client.Scan(ctx, 0, prefix+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("cache invalidation scan failed")
		return
	}

	if len(keys) > 0 {
		if err := client.Del(ctx, keys...).Err(); err != nil {
			logger.Warn(ctx).Err(err).Msg("cache invalidation failed")
			return
		}
		logger.Debug(ctx).Int("count", len(keys)).Str("prefix", prefix).Msg("cache invalidated")
	}
}

// cacheKey hashes method, path, query and the Authorization header.
// Keying on the auth header keeps entries per caller, so a response
// cached for an authorized request is never replayed to a request
// that carries different (or no) credentials.
func cacheKey(prefix string, r *http.Request) string {
	raw := fmt.Sprintf("%s:%s:%s:%s", r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization"))
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// recordingWriter buffers the response body so it can be cached after
// the handler returns.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
