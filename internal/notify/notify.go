// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify sends best-effort email notifications through a
// third-party form-relay endpoint (Formspree or compatible). Callers log
// failures and move on; a notification never fails the write it reports.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Kind selects the notification subject.
type Kind string

const (
	KindLead Kind = "lead"
	KindBlog Kind = "blog"
)

// Subject returns the email subject line for the kind.
func (k Kind) Subject() string {
	if k == KindLead {
		return "🔔 New Lead Received"
	}
	return "📝 New Blog Post Published"
}

const (
	requestTimeout = 10 * time.Second
	userAgent      = "Synctech/1.0"
	maxErrorBody   = 512
)

// Notifier delivers a notification of the given kind.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, data map[string]any) error
}

// Webhook posts notifications as JSON to a form-relay URL.
type Webhook struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// NewWebhook creates a Webhook notifier for url. A nil client gets a
// default client with a request timeout.
func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Webhook{url: url, client: client, now: time.Now}
}

// Notify sends {_subject, type, ...data, timestamp}. Keys in data never
// override the envelope fields.
func (w *Webhook) Notify(ctx context.Context, kind Kind, data map[string]any) error {
	body := make(map[string]any, len(data)+3)
	for k, v := range data {
		body[k] = v
	}
	body["_subject"] = kind.Subject()
	body["type"] = string(kind)
	body["timestamp"] = w.now().UTC().Format(time.RFC3339Nano)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("notification relay: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}

// Discard is a Notifier that does nothing. It is used when no relay URL
// is configured.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(context.Context, Kind, map[string]any) error { return nil }

// New returns a Webhook for url, or Discard when url is empty.
func New(url string) Notifier {
	if url == "" {
		return Discard{}
	}
	return NewWebhook(url, nil)
}
