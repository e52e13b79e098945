package cache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

// guardedHandler mimics a route behind token validation: it rejects
// everything except the one accepted credential.
func guardedHandler(token, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != token {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "Missing or invalid token"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": body})
	})
}

func doGet(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMiddlewareNeverServesCachedResponseToOtherCredentials(t *testing.T) {
	client, _ := newTestClient(t)
	h := Middleware(client, DefaultConfig())(guardedHandler("Bearer alpha", "stock levels"))

	// Populate the cache with an authorized response.
	first := doGet(t, h, "/api/items", "Bearer alpha")
	if first.Code != http.StatusOK {
		t.Fatalf("authorized status = %d, want 200", first.Code)
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", got)
	}

	second := doGet(t, h, "/api/items", "Bearer alpha")
	if second.Code != http.StatusOK || second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("repeat status = %d X-Cache = %q, want 200 HIT", second.Code, second.Header().Get("X-Cache"))
	}

	// A request with no token must reach the handler and be rejected,
	// not be served the cached body.
	anon := doGet(t, h, "/api/items", "")
	if anon.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", anon.Code)
	}
	if got := anon.Header().Get("X-Cache"); got == "HIT" {
		t.Error("anonymous request served from cache")
	}

	// Same for a different token.
	other := doGet(t, h, "/api/items", "Bearer beta")
	if other.Code != http.StatusUnauthorized {
		t.Fatalf("other-token status = %d, want 401", other.Code)
	}
	if got := other.Header().Get("X-Cache"); got == "HIT" {
		t.Error("other-token request served from cache")
	}
}

func TestMiddlewareDoesNotCacheFailures(t *testing.T) {
	client, mr := newTestClient(t)
	h := Middleware(client, DefaultConfig())(guardedHandler("Bearer alpha", "stock levels"))

	if rr := doGet(t, h, "/api/items", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("401 response was cached: %v", keys)
	}
}

func TestMiddlewareSkipsNonGET(t *testing.T) {
	client, mr := newTestClient(t)
	h := Middleware(client, DefaultConfig())(guardedHandler("Bearer alpha", "stock levels"))

	req := httptest.NewRequest(http.MethodPost, "/api/items", nil)
	req.Header.Set("Authorization", "Bearer alpha")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("POST response was cached: %v", keys)
	}
}

func TestInvalidateRemovesPrefix(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	mr.Set(ItemsPrefix+":aaa", "stale")
	mr.Set(ItemsPrefix+":bbb", "stale")
	mr.Set("cache:orders:ccc", "kept")

	Invalidate(ctx, client, ItemsPrefix)

	if mr.Exists(ItemsPrefix + ":aaa") || mr.Exists(ItemsPrefix + ":bbb") {
		t.Error("item cache keys survived invalidation")
	}
	if !mr.Exists("cache:orders:ccc") {
		t.Error("invalidation crossed prefixes")
	}
}

func TestCacheKeyVariesWithAuthorization(t *testing.T) {
	base := httptest.NewRequest(http.MethodGet, "/api/items?limit=5", nil)
	base.Header.Set("Authorization", "Bearer alpha")

	same := httptest.NewRequest(http.MethodGet, "/api/items?limit=5", nil)
	same.Header.Set("Authorization", "Bearer alpha")

	other := httptest.NewRequest(http.MethodGet, "/api/items?limit=5", nil)
	other.Header.Set("Authorization", "Bearer beta")

	if cacheKey("cache", base) != cacheKey("cache", same) {
		t.Error("identical requests produced different keys")
	}
	if cacheKey("cache", base) == cacheKey("cache", other) {
		t.Error("different credentials produced the same key")
	}
}

func TestMiddlewareEntriesExpire(t *testing.T) {
	client, mr := newTestClient(t)
	cfg := DefaultConfig()
	cfg.TTL = time.Second
	h := Middleware(client, cfg)(guardedHandler("Bearer alpha", "stock levels"))

	doGet(t, h, "/api/items", "Bearer alpha")
	if len(mr.Keys()) != 1 {
		t.Fatalf("keys = %d, want 1", len(mr.Keys()))
	}

	mr.FastForward(2 * time.Second)
	if len(mr.Keys()) != 0 {
		t.Error("cache entry survived its TTL")
	}
}
