// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"synctech/internal/analytics"
	"synctech/internal/content"
	"synctech/internal/markdown"
	"synctech/internal/models"
	"synctech/internal/render"
	"synctech/internal/search"
)

const (
	// homeProjects and homePosts cap the homepage previews.
	homeProjects = 6
	homePosts    = 3
	// maxBeaconSize bounds a /track request body.
	maxBeaconSize = 4 << 10
)

// Pinger reports whether a backing service is reachable. *sql.DB and
// *redis.Client (through PingFunc) satisfy it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// PingContext calls f.
func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Public serves the marketing site, its forms and the visitor beacon.
type Public struct {
	renderer *render.Renderer
	site     *content.Site
	checks   map[string]Pinger
}

// NewPublic creates the public handler group. checks names the services
// /health pings; a nil entry reports that service as not configured.
func NewPublic(renderer *render.Renderer, site *content.Site, checks map[string]Pinger) *Public {
	return &Public{renderer: renderer, site: site, checks: checks}
}

// pageReads tracks whether any read behind a page fell back to empty or
// default data. Such a page is still served but marked no-store so the
// page cache does not keep it past the outage.
type pageReads struct{ failed bool }

func items[T any](pr *pageReads, res content.Result[T]) []T {
	if res.Failed() {
		pr.failed = true
	}
	return res.Items
}

func (pr *pageReads) note(err error) {
	if err != nil {
		pr.failed = true
	}
}

func (pr *pageReads) mark(w http.ResponseWriter) {
	if pr.failed {
		w.Header().Set("Cache-Control", "no-store")
	}
}

// contactState carries the contact form between submit and re-render.
type contactState struct {
	OK      bool
	Message string
	Form    content.LeadInput
}

// Home renders the landing page.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.home(w, r, http.StatusOK, contactState{})
}

func (p *Public) home(w http.ResponseWriter, r *http.Request, status int, contact contactState) {
	ctx := r.Context()
	var reads pageReads
	projects := items(&reads, p.site.Projects.List(ctx))
	if len(projects) > homeProjects {
		projects = projects[:homeProjects]
	}
	posts := items(&reads, p.site.Posts.Published(ctx))
	if len(posts) > homePosts {
		posts = posts[:homePosts]
	}
	hero, err := p.site.Hero.Load(ctx)
	reads.note(err)
	data := map[string]any{
		"Hero":         hero,
		"Services":     items(&reads, p.site.Services.List(ctx)),
		"Projects":     projects,
		"Testimonials": items(&reads, p.site.Testimonials.List(ctx)),
		"Posts":        posts,
		"Categories":   models.LeadCategories,
		"Contact":      contact,
	}

	reads.mark(w)
	p.renderer.Public(w, r, "home", status, &render.PublicData{
		Title:       "Digital Engineering & Solutions",
		Description: "Enterprise-grade web development, cloud infrastructure and custom software engineering.",
		Data:        data,
	})
}

// Work renders the full portfolio.
func (p *Public) Work(w http.ResponseWriter, r *http.Request) {
	var reads pageReads
	projects := items(&reads, p.site.Projects.List(r.Context()))
	var categories []string
	seen := make(map[string]bool)
	for _, pr := range projects {
		if pr.Category != "" && !seen[pr.Category] {
			seen[pr.Category] = true
			categories = append(categories, pr.Category)
		}
	}
	reads.mark(w)
	p.renderer.Public(w, r, "work", http.StatusOK, &render.PublicData{
		Title:       "Our Work",
		Description: "Selected projects delivered by the Synctech team.",
		Data:        map[string]any{"Projects": projects, "Categories": categories},
	})
}

// About renders the company page.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var reads pageReads
	data := map[string]any{
		"Services":     items(&reads, p.site.Services.List(ctx)),
		"Testimonials": items(&reads, p.site.Testimonials.List(ctx)),
	}
	reads.mark(w)
	p.renderer.Public(w, r, "about", http.StatusOK, &render.PublicData{
		Title:       "About Us",
		Description: "Who we are and how we build software.",
		Data:        data,
	})
}

// Pricing renders the plans.
func (p *Public) Pricing(w http.ResponseWriter, r *http.Request) {
	var reads pageReads
	plans := items(&reads, p.site.Plans.List(r.Context()))
	reads.mark(w)
	p.renderer.Public(w, r, "pricing", http.StatusOK, &render.PublicData{
		Title:       "Pricing",
		Description: "Transparent project pricing.",
		Data:        map[string]any{"Plans": plans},
	})
}

// Blog renders the published posts under the blog header.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var reads pageReads
	header, err := p.site.BlogHeader.Load(ctx)
	reads.note(err)
	data := map[string]any{
		"Header": header,
		"Posts":  items(&reads, p.site.Posts.Published(ctx)),
	}
	reads.mark(w)
	p.renderer.Public(w, r, "blog", http.StatusOK, &render.PublicData{
		Title:       "Blog",
		Description: "Technical insights from the Synctech engineering team.",
		Data:        data,
	})
}

// BlogPost renders one published post. Drafts and unknown slugs are 404.
func (p *Public) BlogPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	post, err := p.site.Posts.BySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		slog.ErrorContext(ctx, "load post failed", "slug", chi.URLParam(r, "slug"), "error", err)
		p.errorPage(w, r, http.StatusInternalServerError)
		return
	}
	if post == nil {
		p.NotFound(w, r)
		return
	}

	body, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.ErrorContext(ctx, "render post failed", "post_id", post.ID, "error", err)
		p.errorPage(w, r, http.StatusInternalServerError)
		return
	}
	p.renderer.Public(w, r, "blog_post", http.StatusOK, &render.PublicData{
		Title:       post.Title,
		Description: post.Excerpt,
		Data: map[string]any{
			"Post":        post,
			"Body":        body,
			"ReadMinutes": readMinutes(post.Content),
		},
	})
}

// readMinutes estimates reading time at 200 words per minute.
func readMinutes(body string) int {
	return max(1, (len(strings.Fields(body))+199)/200)
}

// Search filters posts, projects and services by ?q=.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	res := search.Search(r.Context(), search.SiteSource{Site: p.site}, q)
	reads := pageReads{failed: res.Partial}
	reads.mark(w)
	p.renderer.Public(w, r, "search", http.StatusOK, &render.PublicData{
		Title: "Search",
		Data:  map[string]any{"Results": res},
	})
}

// Privacy renders the privacy policy from site settings.
func (p *Public) Privacy(w http.ResponseWriter, r *http.Request) {
	settings, err := p.site.Settings.Load(r.Context())
	p.legal(w, r, err, "Privacy Policy", settings.PrivacyText)
}

// Terms renders the terms of service from site settings.
func (p *Public) Terms(w http.ResponseWriter, r *http.Request) {
	settings, err := p.site.Settings.Load(r.Context())
	p.legal(w, r, err, "Terms of Service", settings.TermsText)
}

func (p *Public) legal(w http.ResponseWriter, r *http.Request, loadErr error, title, text string) {
	var reads pageReads
	reads.note(loadErr)
	reads.mark(w)
	p.renderer.Public(w, r, "legal", http.StatusOK, &render.PublicData{
		Title: title,
		Data:  map[string]any{"Heading": title, "Text": text},
	})
}

// Maintenance renders the maintenance page. The gate middleware forces
// the 503 status.
func (p *Public) Maintenance(w http.ResponseWriter, r *http.Request) {
	p.renderer.Public(w, r, "maintenance", http.StatusServiceUnavailable, &render.PublicData{
		Title: "Under Maintenance",
	})
}

// NotFound renders the 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.errorPage(w, r, http.StatusNotFound)
}

func (p *Public) errorPage(w http.ResponseWriter, r *http.Request, status int) {
	p.renderer.Public(w, r, "error", status, &render.PublicData{
		Title: http.StatusText(status),
		Data:  map[string]any{"Status": status},
	})
}

// --- Forms ---

// Contact records a lead from the contact form. HTMX submissions get the
// result fragment; plain posts get the page back.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	in := content.LeadInput{
		Name:     field(r, "name"),
		Email:    strings.ToLower(field(r, "email")),
		Message:  field(r, "message"),
		Category: models.LeadCategory(field(r, "category")),
	}

	if msg := validateLead(in); msg != "" {
		p.contactResult(w, r, http.StatusUnprocessableEntity, contactState{Message: msg, Form: in})
		return
	}
	if _, err := p.site.Leads.Add(r.Context(), in); err != nil {
		status, msg := http.StatusInternalServerError, "We could not send your message. Please try again."
		if errors.Is(err, content.ErrInvalid) {
			status, msg = http.StatusUnprocessableEntity, userMessage(err)
		} else {
			slog.ErrorContext(r.Context(), "save lead failed", "error", err)
		}
		p.contactResult(w, r, status, contactState{Message: msg, Form: in})
		return
	}
	p.contactResult(w, r, http.StatusOK, contactState{
		OK:      true,
		Message: "Thanks! We'll get back to you within one business day.",
	})
}

func (p *Public) contactResult(w http.ResponseWriter, r *http.Request, status int, st contactState) {
	if r.Header.Get("HX-Request") == "true" {
		p.renderer.Fragment(w, r, "home", "contact_form", status, map[string]any{
			"Contact":    st,
			"Categories": models.LeadCategories,
		})
		return
	}
	p.home(w, r, status, st)
}

// Newsletter subscribes an email address.
func (p *Public) Newsletter(w http.ResponseWriter, r *http.Request) {
	res := p.site.Subscribers.Subscribe(r.Context(), field(r, "email"))

	status := http.StatusOK
	switch {
	case res.OK:
	case res.Message == content.MsgSubscribeFailed:
		status = http.StatusInternalServerError
	case res.Message == content.MsgAlreadySubscribed:
		status = http.StatusConflict
	default:
		status = http.StatusUnprocessableEntity
	}

	if r.Header.Get("HX-Request") == "true" {
		p.renderer.Fragment(w, r, "home", "newsletter_result", status, res)
		return
	}
	p.renderer.Public(w, r, "notice", status, &render.PublicData{
		Title: "Newsletter",
		Data:  map[string]any{"OK": res.OK, "Message": res.Message},
	})
}

// beacon is the body the site script posts to /track.
type beacon struct {
	Page             string `json:"page"`
	Referrer         string `json:"referrer"`
	ScreenResolution string `json:"screenResolution"`
	Language         string `json:"language"`
}

// Track records a page view. Bots and admin paths are accepted but not stored.
func (p *Public) Track(w http.ResponseWriter, r *http.Request) {
	var b beacon
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBeaconSize)).Decode(&b); err != nil {
		http.Error(w, "Bad beacon", http.StatusBadRequest)
		return
	}
	ua := r.UserAgent()
	if analytics.ParseUserAgent(ua).DeviceType == "bot" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	err := p.site.VisitorLogs.Record(r.Context(), models.VisitorLog{
		Page:             clip(b.Page, 512),
		UserAgent:        clip(ua, 512),
		Referrer:         clip(b.Referrer, 512),
		ScreenResolution: clip(b.ScreenResolution, 32),
		Language:         clip(b.Language, 35),
	})
	switch {
	case errors.Is(err, content.ErrInvalid):
		http.Error(w, userMessage(err), http.StatusBadRequest)
	case err != nil:
		slog.WarnContext(r.Context(), "record visit failed", "error", err)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

// HighlightCSS serves the code highlighting stylesheet for blog posts.
func (p *Public) HighlightCSS(w http.ResponseWriter, r *http.Request) {
	css, err := markdown.StyleCSS()
	if err != nil {
		slog.ErrorContext(r.Context(), "highlight css failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(css)
}

// Health pings each configured backend. Any failure answers 503.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	report := map[string]string{"status": "ok"}
	for name, check := range p.checks {
		switch {
		case check == nil:
			report[name] = "disabled"
		case check.PingContext(ctx) != nil:
			report[name] = "down"
			report["status"] = "degraded"
			status = http.StatusServiceUnavailable
		default:
			report[name] = "up"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}
