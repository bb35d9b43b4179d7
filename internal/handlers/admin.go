// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Synctech site.
// Handlers are grouped by concern (public, auth, admin, events) and
// receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"synctech/internal/analytics"
	"synctech/internal/content"
	"synctech/internal/events"
	"synctech/internal/middleware"
	"synctech/internal/models"
	"synctech/internal/render"
	"synctech/internal/session"
	"synctech/internal/storage"
	"synctech/internal/store"
)

// ImageStore uploads editor images. *storage.Client implements it.
type ImageStore interface {
	UploadImage(ctx context.Context, folder storage.Folder, body io.Reader) (string, error)
	DeleteByURL(ctx context.Context, rawURL string) error
}

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer *render.Renderer
	sessions *session.Store
	site     *content.Site
	images   ImageStore
	now      func() time.Time
}

// NewAdmin creates the admin handler group. images may be nil when object
// storage is not configured; the editors then only accept image URLs.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, site *content.Site, images ImageStore) *Admin {
	return &Admin{
		renderer: renderer,
		sessions: sessions,
		site:     site,
		images:   images,
		now:      time.Now,
	}
}

// Dashboard renders the overview counters.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	leads := a.site.Leads.List(ctx)
	subscribers := a.site.Subscribers.List(ctx)
	posts := a.site.Posts.Published(ctx)
	projects := a.site.Projects.List(ctx)
	visits := a.site.VisitorLogs.List(ctx)

	newLeads, active := 0, 0
	for _, l := range leads.Items {
		if l.Status == models.LeadStatusNew {
			newLeads++
		}
	}
	for _, s := range subscribers.Items {
		if s.Status == models.SubscriberActive {
			active++
		}
	}
	recent := leads.Items
	if len(recent) > 5 {
		recent = recent[:5]
	}

	a.page(w, r, "dashboard", http.StatusOK, &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Topics:  []events.Topic{events.TopicLeads, events.TopicNewsletter, events.TopicBlog, events.TopicPortfolio, events.TopicAnalytics},
		Data: map[string]any{
			"LeadCount":       leads.Len(),
			"NewLeadCount":    newLeads,
			"SubscriberCount": active,
			"PostCount":       posts.Len(),
			"ProjectCount":    projects.Len(),
			"VisitorCount":    visits.Len(),
			"RecentLeads":     recent,
			"Degraded":        leads.Failed() || subscribers.Failed() || posts.Failed() || projects.Failed() || visits.Failed(),
		},
	})
}

// Analytics renders the visitor statistics.
func (a *Admin) Analytics(w http.ResponseWriter, r *http.Request) {
	logs := a.site.VisitorLogs.List(r.Context())
	summary := analytics.Summarize(logs.Items, a.now())

	recent := logs.Items
	if len(recent) > 20 {
		recent = recent[:20]
	}

	a.page(w, r, "analytics", http.StatusOK, &render.PageData{
		Title:   "Analytics",
		Section: "analytics",
		Topics:  []events.Topic{events.TopicAnalytics},
		Data: map[string]any{
			"Summary":     summary,
			"MaxDaily":    analytics.MaxDaily(summary.Daily),
			"MaxPage":     analytics.Max(summary.TopPages),
			"MaxBrowser":  analytics.Max(summary.Browsers),
			"MaxOS":       analytics.Max(summary.OS),
			"MaxDevice":   analytics.Max(summary.Devices),
			"Recent":      recent,
			"Failed":      logs.Failed(),
			"GeneratedAt": a.now(),
		},
	})
}

// AnalyticsClear deletes every visitor log.
func (a *Admin) AnalyticsClear(w http.ResponseWriter, r *http.Request) {
	if err := a.site.VisitorLogs.Clear(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "clear visitor logs failed", "error", err)
		a.fail(w, r, "/admin/analytics", "Could not clear the visitor logs.")
		return
	}
	a.done(w, r, "/admin/analytics", "Visitor logs cleared.")
}

// --- Inbox ---

// Inbox lists leads, one tab per category.
func (a *Admin) Inbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab := models.LeadCategory(r.URL.Query().Get("category"))
	if !tab.Valid() {
		tab = ""
	}

	leads := a.site.Leads.List(ctx)
	items := make([]models.Lead, 0, leads.Len())
	for _, l := range leads.Items {
		if tab == "" || l.Category == tab {
			items = append(items, l)
		}
	}

	a.page(w, r, "inbox", http.StatusOK, &render.PageData{
		Title:   "Inbox",
		Section: "inbox",
		Topics:  []events.Topic{events.TopicLeads},
		Data: map[string]any{
			"Leads":      items,
			"Total":      leads.Len(),
			"Counts":     a.site.Leads.CountByCategory(ctx),
			"Categories": models.LeadCategories,
			"Tab":        string(tab),
			"Failed":     leads.Failed(),
		},
	})
}

// LeadStatus moves a lead to new, read or archived.
func (a *Admin) LeadStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	back := "/admin/inbox"
	if tab := r.FormValue("tab"); tab != "" {
		back += "?category=" + tab
	}
	err := a.site.Leads.SetStatus(r.Context(), id, models.LeadStatus(r.FormValue("status")))
	if err != nil {
		a.writeFailed(w, r, back, "update lead", err)
		return
	}
	a.done(w, r, back, "Lead updated.")
}

// LeadDelete removes a lead.
func (a *Admin) LeadDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.site.Leads.Delete(r.Context(), id); err != nil {
		a.writeFailed(w, r, "/admin/inbox", "delete lead", err)
		return
	}
	a.done(w, r, "/admin/inbox", "Lead deleted.")
}

// --- Subscribers ---

// Subscribers lists newsletter subscribers.
func (a *Admin) Subscribers(w http.ResponseWriter, r *http.Request) {
	subs := a.site.Subscribers.List(r.Context())
	active := 0
	for _, s := range subs.Items {
		if s.Status == models.SubscriberActive {
			active++
		}
	}

	a.page(w, r, "subscribers", http.StatusOK, &render.PageData{
		Title:   "Subscribers",
		Section: "subscribers",
		Topics:  []events.Topic{events.TopicNewsletter},
		Data: map[string]any{
			"Subscribers": subs.Items,
			"Active":      active,
			"Failed":      subs.Failed(),
		},
	})
}

// SubscriberStatus toggles a subscriber between active and unsubscribed.
func (a *Admin) SubscriberStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	status := models.SubscriberStatus(r.FormValue("status"))
	if !status.Valid() {
		a.fail(w, r, "/admin/subscribers", "Unknown subscriber status.")
		return
	}
	if err := a.site.Subscribers.SetStatus(r.Context(), id, status); err != nil {
		a.writeFailed(w, r, "/admin/subscribers", "update subscriber", err)
		return
	}
	a.done(w, r, "/admin/subscribers", "Subscriber updated.")
}

// SubscriberDelete removes a subscriber.
func (a *Admin) SubscriberDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.site.Subscribers.Delete(r.Context(), id); err != nil {
		a.writeFailed(w, r, "/admin/subscribers", "delete subscriber", err)
		return
	}
	a.done(w, r, "/admin/subscribers", "Subscriber removed.")
}

// --- Hero ---

// Hero renders the homepage hero editor.
func (a *Admin) Hero(w http.ResponseWriter, r *http.Request) {
	a.heroPage(w, r, http.StatusOK, a.site.Hero.Get(r.Context()), nil)
}

func (a *Admin) heroPage(w http.ResponseWriter, r *http.Request, status int, hero models.HeroContent, flashes []session.Flash) {
	a.page(w, r, "hero", status, &render.PageData{
		Title:   "Hero",
		Section: "hero",
		Topics:  []events.Topic{events.TopicHero},
		Flashes: flashes,
		Data:    map[string]any{"Hero": hero},
	})
}

// HeroSave stores the hero copy.
func (a *Admin) HeroSave(w http.ResponseWriter, r *http.Request) {
	hero := models.HeroContent{
		Headline:    field(r, "headline"),
		Subheadline: field(r, "subheadline"),
		CTAText:     field(r, "cta_text"),
		CTALink:     field(r, "cta_link"),
	}
	if msg := validateHero(hero); msg != "" {
		a.heroPage(w, r, http.StatusUnprocessableEntity, hero, errorFlash(msg))
		return
	}
	if err := a.site.Hero.Save(r.Context(), hero); err != nil {
		slog.ErrorContext(r.Context(), "save hero failed", "error", err)
		a.heroPage(w, r, http.StatusInternalServerError, hero, errorFlash("Could not save the hero. Please try again."))
		return
	}
	a.done(w, r, "/admin/hero", "Hero saved.")
}

// HeroReset drops the stored hero so the defaults show again.
func (a *Admin) HeroReset(w http.ResponseWriter, r *http.Request) {
	if err := a.site.Hero.Reset(r.Context()); err != nil {
		a.writeFailed(w, r, "/admin/hero", "reset hero", err)
		return
	}
	a.done(w, r, "/admin/hero", "Hero reset to defaults.")
}

// --- Settings ---

// Settings renders the maintenance switch and the legal texts.
func (a *Admin) Settings(w http.ResponseWriter, r *http.Request) {
	a.settingsPage(w, r, http.StatusOK, a.site.Settings.Get(r.Context()), nil)
}

func (a *Admin) settingsPage(w http.ResponseWriter, r *http.Request, status int, s models.SiteSettings, flashes []session.Flash) {
	a.page(w, r, "settings", status, &render.PageData{
		Title:   "Settings",
		Section: "settings",
		Topics:  []events.Topic{events.TopicSettings},
		Flashes: flashes,
		Data:    map[string]any{"Settings": s},
	})
}

// SettingsSave stores the site settings.
func (a *Admin) SettingsSave(w http.ResponseWriter, r *http.Request) {
	s := models.SiteSettings{
		MaintenanceMode: r.FormValue("maintenance_mode") == "on",
		PrivacyText:     r.FormValue("privacy_text"),
		TermsText:       r.FormValue("terms_text"),
	}
	if msg := validateSettings(s); msg != "" {
		a.settingsPage(w, r, http.StatusUnprocessableEntity, s, errorFlash(msg))
		return
	}
	if err := a.site.Settings.Save(r.Context(), s); err != nil {
		slog.ErrorContext(r.Context(), "save settings failed", "error", err)
		a.settingsPage(w, r, http.StatusInternalServerError, s, errorFlash("Could not save the settings. Please try again."))
		return
	}
	a.done(w, r, "/admin/settings", "Settings saved.")
}

// --- Shared helpers ---

// page renders an admin page, adding any flashes queued in the session.
func (a *Admin) page(w http.ResponseWriter, r *http.Request, name string, status int, data *render.PageData) {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		data.Flashes = append(a.sessions.PopFlashes(r.Context(), r, sess), data.Flashes...)
	}
	a.renderer.PageStatus(w, r, name, status, data)
}

// done queues a success flash and redirects.
func (a *Admin) done(w http.ResponseWriter, r *http.Request, to, msg string) {
	a.flash(r, "success", msg)
	redirect(w, r, to)
}

// fail queues an error flash and redirects.
func (a *Admin) fail(w http.ResponseWriter, r *http.Request, to, msg string) {
	a.flash(r, "error", msg)
	redirect(w, r, to)
}

// writeFailed reports a failed write on a list page. Validation errors
// and missing records get their own message; anything else is logged.
func (a *Admin) writeFailed(w http.ResponseWriter, r *http.Request, to, op string, err error) {
	switch {
	case errors.Is(err, content.ErrInvalid):
		a.fail(w, r, to, userMessage(err))
	case errors.Is(err, store.ErrNotFound):
		a.fail(w, r, to, "That record no longer exists.")
	default:
		slog.ErrorContext(r.Context(), op+" failed", "error", err)
		a.fail(w, r, to, "The change could not be saved. Please try again.")
	}
}

func (a *Admin) flash(r *http.Request, kind, msg string) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return
	}
	if err := a.sessions.AddFlash(r.Context(), r, sess, kind, msg); err != nil && !errors.Is(err, session.ErrNoSession) {
		slog.WarnContext(r.Context(), "queue flash failed", "error", err)
	}
}

// redirect sends HTMX requests an HX-Redirect and everything else a 303.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// pathID parses the {id} URL parameter, answering 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func errorFlash(msg string) []session.Flash {
	return []session.Flash{{Type: "error", Message: msg}}
}
