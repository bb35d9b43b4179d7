// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"synctech/internal/events"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "synctech:page:"

	// DefaultPageTTL is how long a rendered page stays cached when no
	// change event clears it first.
	DefaultPageTTL = 5 * time.Minute
)

// publicTopics are the collections rendered on public pages. Leads,
// subscribers and visitor logs only show up in the admin panel, so their
// changes leave the cache alone.
var publicTopics = []events.Topic{
	events.TopicSettings, events.TopicPortfolio, events.TopicBlog,
	events.TopicBlogHeader, events.TopicHero, events.TopicTestimonials,
	events.TopicServices, events.TopicPricing,
}

// PageCache stores rendered public pages in Valkey. A nil *PageCache is a
// valid cache that never hits.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// PageKey returns the cache key for a request path.
func PageKey(path string) string {
	if path == "" {
		path = "/"
	}
	return pageKeyPrefix + path
}

// Get returns the cached HTML for a path.
func (pc *PageCache) Get(ctx context.Context, path string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, PageKey(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.WarnContext(ctx, "page cache get error", "path", path, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores rendered HTML for a path with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, path string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, PageKey(path), html, pc.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "page cache set error", "path", path, "error", err)
	}
}

// InvalidateAll removes every cached page. Any content change can show up
// on several pages (the home page lists services, testimonials and the
// hero), so the whole cache goes.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.WarnContext(ctx, "page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.WarnContext(ctx, "page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.DebugContext(ctx, "page cache cleared", "deleted", deleted)
}

// Listen clears the cache whenever a collection shown on the public site
// changes. The returned function removes the listeners.
func (pc *PageCache) Listen(bus *events.Bus) (unsubscribe func()) {
	offs := make([]func(), 0, len(publicTopics))
	for _, topic := range publicTopics {
		offs = append(offs, bus.Subscribe(topic, func(ev events.Event) {
			pc.InvalidateAll(context.Background())
		}))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// Middleware serves cached copies of public GET pages and stores fresh
// 200 HTML responses. Requests with a query string (search) bypass it,
// and responses marked no-store are passed through without being kept.
func (pc *PageCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pc == nil || r.Method != http.MethodGet || r.URL.RawQuery != "" {
			next.ServeHTTP(w, r)
			return
		}

		if html, ok := pc.Get(r.Context(), r.URL.Path); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("X-Cache", "HIT")
			w.Write(html)
			return
		}

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(rec, r)

		if cacheable(rec.status, w.Header()) {
			pc.Set(r.Context(), r.URL.Path, rec.body.Bytes())
		}
	})
}

// cacheable reports whether a response may be stored: a 200 HTML page
// that did not opt out with Cache-Control: no-store.
func cacheable(status int, h http.Header) bool {
	return status == http.StatusOK &&
		strings.HasPrefix(h.Get("Content-Type"), "text/html") &&
		!strings.Contains(h.Get("Cache-Control"), "no-store")
}

// recorder copies the response body while passing it through.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
