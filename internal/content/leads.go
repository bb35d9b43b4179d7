// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"synctech/internal/events"
	"synctech/internal/models"
	"synctech/internal/notify"
)

// LeadRepository persists contact-form inquiries.
type LeadRepository interface {
	List(ctx context.Context) ([]models.Lead, error)
	Create(ctx context.Context, l models.Lead) (*models.Lead, error)
	Update(ctx context.Context, l models.Lead) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.LeadStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context) (map[models.LeadCategory]int, error)
}

// LeadInput is what the public contact form submits.
type LeadInput struct {
	Name     string
	Email    string
	Message  string
	Category models.LeadCategory
}

// Leads manages the inbox.
type Leads struct {
	repo     LeadRepository
	notifier notify.Notifier
	pub      publisher
}

// NewLeads creates the leads service. A nil notifier disables notifications.
func NewLeads(repo LeadRepository, bus *events.Bus, notifier notify.Notifier) *Leads {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Leads{repo: repo, notifier: notifier, pub: publisher{bus, events.TopicLeads}}
}

// List returns all leads, newest first.
func (s *Leads) List(ctx context.Context) Result[models.Lead] {
	items, err := s.repo.List(ctx)
	return listResult(ctx, "leads", items, err)
}

// Add records a new lead. Status is always new and an empty category
// becomes general. The email notification is best-effort.
func (s *Leads) Add(ctx context.Context, in LeadInput) (*models.Lead, error) {
	if in.Category == "" {
		in.Category = models.LeadCategoryGeneral
	}
	if !in.Category.Valid() {
		return nil, invalid("unknown lead category %q", in.Category)
	}

	lead, err := s.repo.Create(ctx, models.Lead{
		Name:     in.Name,
		Email:    in.Email,
		Message:  in.Message,
		Status:   models.LeadStatusNew,
		Category: in.Category,
	})
	if err != nil {
		return nil, err
	}
	s.pub.changed(ctx)

	if err := s.notifier.Notify(ctx, notify.KindLead, map[string]any{
		"name":     lead.Name,
		"email":    lead.Email,
		"message":  lead.Message,
		"category": string(lead.Category),
	}); err != nil {
		slog.WarnContext(ctx, "lead notification failed", "lead_id", lead.ID, "error", err)
	}
	return lead, nil
}

// Update overwrites a lead.
func (s *Leads) Update(ctx context.Context, l models.Lead) error {
	if !l.Status.Valid() {
		return invalid("unknown lead status %q", l.Status)
	}
	if !l.Category.Valid() {
		return invalid("unknown lead category %q", l.Category)
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// SetStatus moves a lead between inbox states.
func (s *Leads) SetStatus(ctx context.Context, id uuid.UUID, status models.LeadStatus) error {
	if !status.Valid() {
		return invalid("unknown lead status %q", status)
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// Delete removes a lead.
func (s *Leads) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// CountByCategory returns per-category counts for the inbox tabs. On error
// every category reports zero.
func (s *Leads) CountByCategory(ctx context.Context) map[models.LeadCategory]int {
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "count leads failed", "error", err)
		counts = nil
	}
	out := make(map[models.LeadCategory]int, len(models.LeadCategories))
	for _, c := range models.LeadCategories {
		out[c] = counts[c]
	}
	return out
}
