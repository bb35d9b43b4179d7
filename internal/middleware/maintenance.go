// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"
)

// MaintenanceState reports whether the public site is switched off.
type MaintenanceState interface {
	MaintenanceMode(ctx context.Context) bool
}

// Maintenance serves page with status 503 for every public request while
// maintenance mode is on. The admin panel, static assets, the highlight
// stylesheet and the health check stay reachable.
func Maintenance(state MaintenanceState, page http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maintenanceExempt(r.URL.Path) || !state.MaintenanceMode(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", "3600")
			w.Header().Set("Cache-Control", "no-store")
			page.ServeHTTP(&statusOverride{ResponseWriter: w, status: http.StatusServiceUnavailable}, r)
		})
	}
}

func maintenanceExempt(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/") ||
		strings.HasPrefix(path, "/static/") || path == "/highlight.css" || path == "/health"
}

// statusOverride forces the status code written by the wrapped handler.
type statusOverride struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusOverride) WriteHeader(int) {
	if s.wroteHeader {
		return
	}
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(s.status)
}

func (s *statusOverride) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(s.status)
	}
	return s.ResponseWriter.Write(b)
}
