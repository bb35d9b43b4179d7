// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWebhookNotifyPayload(t *testing.T) {
	var got map[string]any
	var contentType, ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		ua = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, srv.Client())
	wh.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	err := wh.Notify(context.Background(), KindLead, map[string]any{
		"name":     "Jane Doe",
		"email":    "jane@x.com",
		"type":     "spoofed",
		"_subject": "spoofed",
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if ua != userAgent {
		t.Errorf("User-Agent = %q, want %q", ua, userAgent)
	}
	if got["_subject"] != "🔔 New Lead Received" {
		t.Errorf("_subject = %v", got["_subject"])
	}
	if got["type"] != "lead" {
		t.Errorf("type = %v, want lead", got["type"])
	}
	if got["name"] != "Jane Doe" || got["email"] != "jane@x.com" {
		t.Errorf("data fields missing: %v", got)
	}
	if got["timestamp"] != "2026-01-02T03:04:05Z" {
		t.Errorf("timestamp = %v", got["timestamp"])
	}
}

func TestWebhookNotifyHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "form disabled", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, srv.Client()).Notify(context.Background(), KindBlog, nil)
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "form disabled") {
		t.Errorf("error = %v", err)
	}
}

func TestWebhookNotifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if err := NewWebhook(url, nil).Notify(context.Background(), KindLead, nil); err == nil {
		t.Error("expected error for closed server")
	}
}

func TestKindSubject(t *testing.T) {
	if KindBlog.Subject() != "📝 New Blog Post Published" {
		t.Errorf("KindBlog.Subject() = %q", KindBlog.Subject())
	}
}

func TestNewWithoutURLDiscards(t *testing.T) {
	n := New("")
	if _, ok := n.(Discard); !ok {
		t.Fatalf("New(\"\") = %T, want Discard", n)
	}
	if err := n.Notify(context.Background(), KindLead, nil); err != nil {
		t.Errorf("Discard.Notify = %v", err)
	}
}
