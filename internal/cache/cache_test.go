// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"synctech/internal/events"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, pageKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	defer client.Close()
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}

	// Verify connection.
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestPageCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, time.Minute)
	ctx := context.Background()

	if data, ok := pc.Get(ctx, "/work"); ok || data != nil {
		t.Error("expected cache miss")
	}

	html := []byte("<html><body>Work</body></html>")
	pc.Set(ctx, "/work", html)

	data, ok := pc.Get(ctx, "/work")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(html) {
		t.Errorf("data mismatch: got %q, want %q", data, html)
	}

	if _, ok := pc.Get(ctx, "/blog"); ok {
		t.Error("other paths should still miss")
	}
}

func TestPageCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, time.Minute)
	ctx := context.Background()

	for _, path := range []string{"/", "/blog", "/pricing"} {
		pc.Set(ctx, path, []byte(path))
	}

	pc.InvalidateAll(ctx)

	for _, path := range []string{"/", "/blog", "/pricing"} {
		if _, ok := pc.Get(ctx, path); ok {
			t.Errorf("expected miss for %q after InvalidateAll", path)
		}
	}
}

func TestPageCacheListenClearsOnPublicTopics(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, time.Minute)
	bus := events.NewBus(nil)
	ctx := context.Background()

	off := pc.Listen(bus)
	defer off()

	pc.Set(ctx, "/", []byte("home"))
	bus.Publish(ctx, events.TopicLeads)
	if _, ok := pc.Get(ctx, "/"); !ok {
		t.Fatal("a new lead should not clear the public cache")
	}

	bus.Publish(ctx, events.TopicHero)
	if _, ok := pc.Get(ctx, "/"); ok {
		t.Error("a hero change should clear the public cache")
	}
}

func TestPageCacheMiddleware(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, time.Minute)

	renders := 0
	handler := pc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renders++
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<p>about</p>"))
	}))

	get := func(target string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		return rr
	}

	if rr := get("/about"); rr.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first request: X-Cache %q", rr.Header().Get("X-Cache"))
	}
	rr := get("/about")
	if rr.Header().Get("X-Cache") != "HIT" || rr.Body.String() != "<p>about</p>" {
		t.Errorf("second request: X-Cache %q body %q", rr.Header().Get("X-Cache"), rr.Body.String())
	}
	if renders != 1 {
		t.Errorf("renders: got %d, want 1", renders)
	}

	get("/search?q=go")
	get("/search?q=go")
	if renders != 3 {
		t.Errorf("query requests must bypass the cache, renders=%d", renders)
	}
}

func TestPageCacheSkipsNoStore(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPageCache(client, time.Minute)

	degraded := true
	handler := pc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if degraded {
			w.Header().Set("Cache-Control", "no-store")
			w.Write([]byte("<p>no projects</p>"))
			return
		}
		w.Write([]byte("<p>projects</p>"))
	}))

	get := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/work", nil))
		return rr
	}

	get()
	if _, ok := pc.Get(context.Background(), "/work"); ok {
		t.Fatal("no-store response was cached")
	}

	degraded = false
	if rr := get(); rr.Header().Get("X-Cache") != "MISS" || rr.Body.String() != "<p>projects</p>" {
		t.Errorf("after recovery: X-Cache %q body %q", rr.Header().Get("X-Cache"), rr.Body.String())
	}
	if rr := get(); rr.Header().Get("X-Cache") != "HIT" {
		t.Errorf("healthy render should be cached, X-Cache %q", rr.Header().Get("X-Cache"))
	}
}

func TestCacheable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		ctype  string
		cc     string
		want   bool
	}{
		{"html page", http.StatusOK, "text/html; charset=utf-8", "", true},
		{"degraded page", http.StatusOK, "text/html; charset=utf-8", "no-store", false},
		{"not found", http.StatusNotFound, "text/html; charset=utf-8", "", false},
		{"json", http.StatusOK, "application/json", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			h.Set("Content-Type", tt.ctype)
			if tt.cc != "" {
				h.Set("Cache-Control", tt.cc)
			}
			if got := cacheable(tt.status, h); got != tt.want {
				t.Errorf("cacheable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNilPageCache(t *testing.T) {
	var pc *PageCache
	ctx := context.Background()

	pc.Set(ctx, "/", []byte("x"))
	if _, ok := pc.Get(ctx, "/"); ok {
		t.Error("nil cache should never hit")
	}
	pc.InvalidateAll(ctx)

	called := false
	pc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("nil cache middleware should pass through")
	}
}

func TestPageKey(t *testing.T) {
	if got := PageKey(""); got != pageKeyPrefix+"/" {
		t.Errorf("PageKey(\"\"): got %q", got)
	}
	if got := PageKey("/blog/hello"); got != pageKeyPrefix+"/blog/hello" {
		t.Errorf("PageKey: got %q", got)
	}
}

func TestNewPageCacheDefaultTTL(t *testing.T) {
	if pc := NewPageCache(nil, 0); pc.ttl != DefaultPageTTL {
		t.Errorf("expected DefaultPageTTL (%v), got %v", DefaultPageTTL, pc.ttl)
	}
}
