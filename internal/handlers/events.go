// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"synctech/internal/events"
)

const (
	defaultHeartbeat = 25 * time.Second
	streamBuffer     = 32
)

// Stream serves GET /admin/events: one Server-Sent Events frame per bus
// event, named after the topic, so open admin pages can re-fetch.
type Stream struct {
	bus       *events.Bus
	heartbeat time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// NewStream creates the change stream handler.
func NewStream(bus *events.Bus) *Stream {
	return &Stream{bus: bus, heartbeat: defaultHeartbeat, done: make(chan struct{})}
}

// Close ends every open stream. Server shutdown does not wait on them.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// ServeHTTP streams until the client disconnects. The bus listener only
// does a non-blocking send; a client that falls behind misses events
// rather than stalling publishers.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)
	// The server's write timeout would cut a long-lived stream.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.WarnContext(ctx, "clear write deadline failed", "error", err)
	}

	ch := make(chan events.Event, streamBuffer)
	unsubscribe := s.bus.SubscribeAll(func(ev events.Event) {
		select {
		case ch <- ev:
		default:
		}
	})
	defer unsubscribe()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "retry: 3000\n\n")
	if err := rc.Flush(); err != nil {
		slog.WarnContext(ctx, "event stream unsupported", "error", err)
		return
	}

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case ev := <-ch:
			_, err := fmt.Fprintf(w, "event: %s\ndata: {\"topic\":%q,\"at\":%q}\n\n",
				ev.Topic.EventName(), ev.Topic, ev.At.UTC().Format(time.RFC3339Nano))
			if err == nil {
				err = rc.Flush()
			}
			if err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
