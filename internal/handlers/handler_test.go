// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides the shared fixtures for handler tests. Content
// lives in memory; tests that need a real session store skip when Valkey
// is unavailable.
package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"synctech/internal/content"
	"synctech/internal/content/contenttest"
	"synctech/internal/events"
	"synctech/internal/middleware"
	"synctech/internal/render"
	"synctech/internal/session"
	"synctech/internal/storage"
)

type fixture struct {
	backend  *contenttest.Backend
	notes    *contenttest.Notifications
	bus      *events.Bus
	site     *content.Site
	renderer *render.Renderer
	sessions *session.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rn, err := render.New(false, "Synctech")
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	f := &fixture{
		backend:  contenttest.NewBackend(),
		notes:    &contenttest.Notifications{},
		bus:      events.NewBus(nil),
		renderer: rn,
		// No cookie ever reaches this store, so it never dials Valkey.
		sessions: session.NewStore(nil, false),
	}
	f.site = content.NewSite(f.backend.Repositories(), f.bus, f.notes)
	return f
}

func (f *fixture) admin(images ImageStore) *Admin {
	return NewAdmin(f.renderer, f.sessions, f.site, images)
}

func (f *fixture) public() *Public {
	return NewPublic(f.renderer, f.site, nil)
}

// adminSession is a fully signed-in session.
func adminSession() *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "admin@synctech.local",
		DisplayName: "Ada Admin",
		TwoFADone:   true,
	}
}

// formRequest builds a urlencoded request carrying sess.
func formRequest(method, target string, form url.Values, sess *session.Data) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	r := httptest.NewRequest(method, target, body)
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if sess != nil {
		r = r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
	}
	return r
}

// multipartRequest builds a multipart request with an optional file in
// the "image" field.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, file []byte, sess *session.Data) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	mw.Close()

	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	if sess != nil {
		r = r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
	}
	return r
}

// withParam sets a chi URL parameter on r.
func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func lastFlash(t *testing.T, sess *session.Data) session.Flash {
	t.Helper()
	if len(sess.Flashes) == 0 {
		t.Fatal("no flash queued")
	}
	return sess.Flashes[len(sess.Flashes)-1]
}

// fakeImages records uploads instead of talking to S3.
type fakeImages struct {
	mu       sync.Mutex
	uploads  []storage.Folder
	deleted  []string
	uploadEr error
}

func (f *fakeImages) UploadImage(_ context.Context, folder storage.Folder, body io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadEr != nil {
		return "", f.uploadEr
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, folder)
	return "https://cdn.example.com/" + string(folder) + "/new.png", nil
}

func (f *fakeImages) DeleteByURL(_ context.Context, rawURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, rawURL)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkey returns a client on the test database, skipping the test
// when Valkey is not reachable.
func testValkey(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "synctech:session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}
