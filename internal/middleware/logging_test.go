// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggerLevelsAndFields(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
		level  string
	}{
		{"page view", http.MethodGet, "/pricing", http.StatusOK, "level=INFO"},
		{"implicit 200", http.MethodGet, "/blog", 0, "level=INFO"},
		{"client error", http.MethodPost, "/newsletter", http.StatusConflict, "level=WARN"},
		{"server error", http.MethodPut, "/admin/settings", http.StatusInternalServerError, "level=ERROR"},
		{"static asset", http.MethodGet, "/static/js/site.js", http.StatusOK, "level=DEBUG"},
		{"health check", http.MethodGet, "/health", http.StatusOK, "level=DEBUG"},
		{"missing asset", http.MethodGet, "/static/nope.css", http.StatusNotFound, "level=WARN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte("x"))
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			line := buf.String()
			for _, frag := range []string{
				tt.level,
				`msg="http request"`,
				"method=" + tt.method,
				"path=" + tt.path,
				"status=" + strconv.Itoa(want),
				"duration=",
				"remote=",
			} {
				if !strings.Contains(line, frag) {
					t.Errorf("log line %q missing %q", line, frag)
				}
			}
		})
	}
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	rw.WriteHeader(http.StatusUnprocessableEntity)
	rw.WriteHeader(http.StatusOK)
	if rw.statusCode != http.StatusUnprocessableEntity {
		t.Errorf("statusCode = %d, want 422", rw.statusCode)
	}
}

func TestResponseWriterFlushAndUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	var w http.ResponseWriter = &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	f, ok := w.(http.Flusher)
	if !ok {
		t.Fatal("responseWriter should implement http.Flusher")
	}
	f.Flush()
	if !rec.Flushed {
		t.Error("expected the underlying recorder to be flushed")
	}
	if w.(interface{ Unwrap() http.ResponseWriter }).Unwrap() != rec {
		t.Error("Unwrap should return the wrapped writer")
	}
}
