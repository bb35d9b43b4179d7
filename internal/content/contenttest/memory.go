// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contenttest provides in-memory repositories for exercising the
// content services and HTTP handlers without PostgreSQL. Setting Fail on
// any repository makes every call return that error.
package contenttest

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"synctech/internal/content"
	"synctech/internal/models"
	"synctech/internal/notify"
	"synctech/internal/store"
)

// ErrUnavailable is a ready-made failure for Fail fields.
var ErrUnavailable = errors.New("store unavailable")

// Table is a keyed in-memory collection. The id function points at the
// record's ID field.
type Table[T any] struct {
	mu    sync.Mutex
	rows  []T
	id    func(*T) *uuid.UUID
	order func(a, b T) int
	Fail  error
}

func newTable[T any](id func(*T) *uuid.UUID, order func(a, b T) int) *Table[T] {
	return &Table[T]{id: id, order: order}
}

// List returns a copy of the rows in the table's order.
func (t *Table[T]) List(context.Context) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Fail != nil {
		return nil, t.Fail
	}
	out := slices.Clone(t.rows)
	if t.order != nil {
		slices.SortStableFunc(out, t.order)
	}
	return out, nil
}

// Create stores v under a fresh id.
func (t *Table[T]) Create(_ context.Context, v T) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Fail != nil {
		return nil, t.Fail
	}
	*t.id(&v) = uuid.New()
	t.rows = append(t.rows, v)
	return &v, nil
}

// Update replaces the row with v's id.
func (t *Table[T]) Update(_ context.Context, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Fail != nil {
		return t.Fail
	}
	i := t.index(*t.id(&v))
	if i < 0 {
		return store.ErrNotFound
	}
	t.rows[i] = v
	return nil
}

// Delete removes the row with id.
func (t *Table[T]) Delete(_ context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Fail != nil {
		return t.Fail
	}
	i := t.index(id)
	if i < 0 {
		return store.ErrNotFound
	}
	t.rows = slices.Delete(t.rows, i, i+1)
	return nil
}

// Len returns the number of stored rows regardless of Fail.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func (t *Table[T]) index(id uuid.UUID) int {
	for i := range t.rows {
		if *t.id(&t.rows[i]) == id {
			return i
		}
	}
	return -1
}

func (t *Table[T]) mutate(id uuid.UUID, fn func(*T)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Fail != nil {
		return t.Fail
	}
	i := t.index(id)
	if i < 0 {
		return store.ErrNotFound
	}
	fn(&t.rows[i])
	return nil
}

// Leads is an in-memory content.LeadRepository.
type Leads struct {
	*Table[models.Lead]
	clock int64
}

// Create stamps the lead with an increasing date so newest-first holds.
func (l *Leads) Create(ctx context.Context, v models.Lead) (*models.Lead, error) {
	l.mu.Lock()
	l.clock++
	v.Date = time.Unix(l.clock, 0)
	l.mu.Unlock()
	return l.Table.Create(ctx, v)
}

// SetStatus implements content.LeadRepository.
func (l *Leads) SetStatus(_ context.Context, id uuid.UUID, status models.LeadStatus) error {
	return l.mutate(id, func(v *models.Lead) { v.Status = status })
}

// CountByCategory implements content.LeadRepository.
func (l *Leads) CountByCategory(ctx context.Context) (map[models.LeadCategory]int, error) {
	leads, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[models.LeadCategory]int)
	for _, v := range leads {
		counts[v.Category]++
	}
	return counts, nil
}

// Posts is an in-memory content.PostRepository with a unique slug.
type Posts struct {
	*Table[models.BlogPost]
	clock int64
}

// Create rejects a taken slug with store.ErrDuplicate.
func (p *Posts) Create(ctx context.Context, v models.BlogPost) (*models.BlogPost, error) {
	p.mu.Lock()
	for _, row := range p.rows {
		if row.Slug == v.Slug {
			p.mu.Unlock()
			return nil, store.ErrDuplicate
		}
	}
	p.clock++
	v.Date = time.Unix(p.clock, 0)
	p.mu.Unlock()
	return p.Table.Create(ctx, v)
}

// Update keeps the stored slug.
func (p *Posts) Update(_ context.Context, v models.BlogPost) error {
	return p.mutate(v.ID, func(row *models.BlogPost) {
		v.Slug, v.Date = row.Slug, row.Date
		*row = v
	})
}

// ListPublished implements content.PostRepository.
func (p *Posts) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	all, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(v models.BlogPost) bool { return !v.Published }), nil
}

// FindPublishedBySlug implements content.PostRepository.
func (p *Posts) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	published, err := p.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range published {
		if v.Slug == slug {
			return &v, nil
		}
	}
	return nil, nil
}

// Subscribers is an in-memory content.SubscriberRepository with a unique email.
type Subscribers struct {
	*Table[models.Subscriber]
}

// Create rejects a known email with store.ErrDuplicate.
func (s *Subscribers) Create(ctx context.Context, email string) (*models.Subscriber, error) {
	s.mu.Lock()
	for _, row := range s.rows {
		if row.Email == email {
			s.mu.Unlock()
			return nil, store.ErrDuplicate
		}
	}
	s.mu.Unlock()
	return s.Table.Create(ctx, models.Subscriber{Email: email, Date: time.Now(), Status: models.SubscriberActive})
}

// SetStatus implements content.SubscriberRepository.
func (s *Subscribers) SetStatus(_ context.Context, id uuid.UUID, status models.SubscriberStatus) error {
	return s.mutate(id, func(v *models.Subscriber) { v.Status = status })
}

// VisitorLogs is an in-memory content.VisitorLogRepository.
type VisitorLogs struct {
	*Table[models.VisitorLog]
}

// Create implements content.VisitorLogRepository.
func (v *VisitorLogs) Create(ctx context.Context, log models.VisitorLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	_, err := v.Table.Create(ctx, log)
	return err
}

// Clear implements content.VisitorLogRepository.
func (v *VisitorLogs) Clear(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.Fail != nil {
		return v.Fail
	}
	v.rows = nil
	return nil
}

// Single is an in-memory singleton repository.
type Single[T any] struct {
	mu    sync.Mutex
	value *T
	Fail  error
}

// Get returns the stored value or nil.
func (s *Single[T]) Get(context.Context) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	if s.value == nil {
		return nil, nil
	}
	v := *s.value
	return &v, nil
}

// Save stores v.
func (s *Single[T]) Save(_ context.Context, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.value = &v
	return nil
}

// Reset drops the stored value.
func (s *Single[T]) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.value = nil
	return nil
}

// Backend holds one in-memory repository per entity.
type Backend struct {
	Settings     *Single[models.SiteSettings]
	Hero         *Single[models.HeroContent]
	BlogHeader   *Single[models.BlogHeader]
	Leads        *Leads
	Posts        *Posts
	Projects     *Table[models.Project]
	Subscribers  *Subscribers
	Testimonials *Table[models.Testimonial]
	Services     *Table[models.Service]
	Plans        *Table[models.PricingPlan]
	VisitorLogs  *VisitorLogs
}

// NewBackend returns empty repositories ordered like the Postgres stores.
func NewBackend() *Backend {
	return &Backend{
		Settings:   &Single[models.SiteSettings]{},
		Hero:       &Single[models.HeroContent]{},
		BlogHeader: &Single[models.BlogHeader]{},
		Leads: &Leads{Table: newTable(
			func(v *models.Lead) *uuid.UUID { return &v.ID },
			func(a, b models.Lead) int { return b.Date.Compare(a.Date) },
		)},
		Posts: &Posts{Table: newTable(
			func(v *models.BlogPost) *uuid.UUID { return &v.ID },
			func(a, b models.BlogPost) int { return b.Date.Compare(a.Date) },
		)},
		Projects: newTable(func(v *models.Project) *uuid.UUID { return &v.ID }, nil),
		Subscribers: &Subscribers{Table: newTable(
			func(v *models.Subscriber) *uuid.UUID { return &v.ID }, nil,
		)},
		Testimonials: newTable(func(v *models.Testimonial) *uuid.UUID { return &v.ID }, nil),
		Services: newTable(
			func(v *models.Service) *uuid.UUID { return &v.ID },
			func(a, b models.Service) int { return cmp.Compare(a.Number, b.Number) },
		),
		Plans: newTable(
			func(v *models.PricingPlan) *uuid.UUID { return &v.ID },
			func(a, b models.PricingPlan) int { return cmp.Compare(a.DisplayOrder, b.DisplayOrder) },
		),
		VisitorLogs: &VisitorLogs{Table: newTable(
			func(v *models.VisitorLog) *uuid.UUID { return &v.ID },
			func(a, b models.VisitorLog) int { return b.Timestamp.Compare(a.Timestamp) },
		)},
	}
}

// Repositories exposes the backend as content repositories.
func (b *Backend) Repositories() content.Repositories {
	return content.Repositories{
		Settings:     b.Settings,
		Hero:         b.Hero,
		BlogHeader:   b.BlogHeader,
		Leads:        b.Leads,
		Posts:        b.Posts,
		Projects:     b.Projects,
		Subscribers:  b.Subscribers,
		Testimonials: b.Testimonials,
		Services:     b.Services,
		Plans:        b.Plans,
		VisitorLogs:  b.VisitorLogs,
	}
}

// FailAll makes every repository return err. Pass nil to recover.
func (b *Backend) FailAll(err error) {
	b.Settings.Fail = err
	b.Hero.Fail = err
	b.BlogHeader.Fail = err
	b.Leads.Fail = err
	b.Posts.Fail = err
	b.Projects.Fail = err
	b.Subscribers.Fail = err
	b.Testimonials.Fail = err
	b.Services.Fail = err
	b.Plans.Fail = err
	b.VisitorLogs.Fail = err
}

// Notifications records every notification it is asked to send.
type Notifications struct {
	mu   sync.Mutex
	sent []Notification
	Fail error
}

// Notification is one recorded call.
type Notification struct {
	Kind notify.Kind
	Data map[string]any
}

// Notify implements notify.Notifier. The call is recorded even when Fail
// is set.
func (n *Notifications) Notify(_ context.Context, kind notify.Kind, data map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Notification{Kind: kind, Data: data})
	return n.Fail
}

// Sent returns the recorded notifications.
func (n *Notifications) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.sent)
}
