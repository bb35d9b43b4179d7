// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the admin panel. Admin pages support full-page and HTMX partial
// rendering, detected via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"synctech/internal/events"
	"synctech/internal/markdown"
	"synctech/internal/middleware"
	"synctech/internal/models"
	"synctech/internal/session"
)

//go:embed templates
var templateFS embed.FS

// PageData holds all data passed to admin templates.
type PageData struct {
	Title     string          // Page title for <title> tag
	Section   string          // Active sidebar section (e.g., "dashboard", "inbox")
	Session   *session.Data   // Current user session (nil if unauthenticated)
	CSRFToken string          // CSRF token for forms and HTMX headers
	Data      map[string]any  // Page-specific data
	Flashes   []session.Flash // One-time notification messages
	// Topics lists the change events that make this page re-fetch its
	// content through the admin event stream.
	Topics []events.Topic
}

// PublicData holds all data passed to public site templates.
type PublicData struct {
	Title       string
	Description string
	Path        string // request path, used for the active nav link
	SiteName    string
	Year        int
	Data        map[string]any
}

// Renderer parses the embedded templates once at startup.
type Renderer struct {
	admin    map[string]*template.Template
	public   map[string]*template.Template
	siteName string
}

// standaloneTemplates render as full HTML documents without a layout.
var standaloneTemplates = map[string]bool{
	"login":       true,
	"2fa_setup":   true,
	"2fa_verify":  true,
	"maintenance": true,
}

// New parses every admin page against admin/base.html and every public
// page against public/layout.html. When devMode is true, templates show a
// development badge and load unminified scripts.
func New(devMode bool, siteName string) (*Renderer, error) {
	funcs := funcMap(devMode)
	r := &Renderer{
		admin:    make(map[string]*template.Template),
		public:   make(map[string]*template.Template),
		siteName: siteName,
	}

	if err := parseDir(r.admin, funcs, "templates/admin", "base.html"); err != nil {
		return nil, err
	}
	if err := parseDir(r.public, funcs, "templates/public", "layout.html"); err != nil {
		return nil, err
	}
	return r, nil
}

func parseDir(into map[string]*template.Template, funcs template.FuncMap, dir, layout string) error {
	pages, err := fs.Glob(templateFS, dir+"/*.html")
	if err != nil {
		return fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		file := path.Base(page)
		if file == layout {
			continue
		}
		name := strings.TrimSuffix(file, ".html")

		var tmpl *template.Template
		if standaloneTemplates[name] {
			tmpl, err = template.New(file).Funcs(funcs).ParseFS(templateFS, page)
		} else {
			tmpl, err = template.New(layout).Funcs(funcs).ParseFS(templateFS, dir+"/"+layout, page)
		}
		if err != nil {
			return fmt.Errorf("parse template %s: %w", page, err)
		}
		into[name] = tmpl
	}
	return nil
}

// Page renders a full admin page or, for HTMX requests, only its
// "content" block.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, name, http.StatusOK, data)
}

// PageStatus is Page with an explicit status code, used when a form is
// re-rendered after a failed write.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, name string, status int, data *PageData) {
	tmpl, ok := rn.admin[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}

	exec := "base.html"
	switch {
	case isHTMX(r) && !standaloneTemplates[name]:
		exec = "content"
	case standaloneTemplates[name]:
		exec = name + ".html"
	}
	write(w, r, tmpl, exec, status, data)
}

// Public renders a public site page inside the site layout.
func (rn *Renderer) Public(w http.ResponseWriter, r *http.Request, name string, status int, data *PublicData) {
	tmpl, ok := rn.public[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.SiteName = rn.siteName
	data.Year = time.Now().Year()
	if data.Path == "" {
		data.Path = r.URL.Path
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}

	exec := "layout.html"
	if standaloneTemplates[name] {
		exec = name + ".html"
	}
	write(w, r, tmpl, exec, status, data)
}

// Fragment renders a single named block of a public page, used for HTMX
// form responses (contact and newsletter).
func (rn *Renderer) Fragment(w http.ResponseWriter, r *http.Request, page, block string, status int, data any) {
	tmpl, ok := rn.public[page]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", page), http.StatusInternalServerError)
		return
	}
	write(w, r, tmpl, block, status, data)
}

// write executes into a buffer first so a template error never leaves a
// half-written page behind a 200.
func write(w http.ResponseWriter, r *http.Request, tmpl *template.Template, name string, status int, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func funcMap(devMode bool) template.FuncMap {
	return template.FuncMap{
		"activeClass": func(current, target string) string {
			if current == target {
				return "active"
			}
			return ""
		},
		"navClass": func(path, prefix string) string {
			if path == prefix || (prefix != "/" && strings.HasPrefix(path, prefix+"/")) {
				return "active"
			}
			return ""
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"isDev": func() bool {
			return devMode
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"isoDate": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"paragraphs": markdown.Paragraphs,
		"stars": func(n int) []bool {
			out := make([]bool, models.MaxRating)
			for i := range out {
				out[i] = i < n
			}
			return out
		},
		// pct scales n against max for bar chart widths.
		"pct": func(n, max int) int {
			if max <= 0 {
				return 0
			}
			return n * 100 / max
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"join": strings.Join,
		"lines": func(items []string) string {
			return strings.Join(items, "\n")
		},
		"eventNames": func(topics []events.Topic) string {
			names := make([]string, len(topics))
			for i, t := range topics {
				names[i] = t.EventName()
			}
			return strings.Join(names, ",")
		},
		"ratings": func() []int {
			out := make([]int, 0, models.MaxRating)
			for i := models.MinRating; i <= models.MaxRating; i++ {
				out = append(out, i)
			}
			return out
		},
		"dict": func(kv ...any) map[string]any {
			m := make(map[string]any, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				if k, ok := kv[i].(string); ok {
					m[k] = kv[i+1]
				}
			}
			return m
		},
	}
}
