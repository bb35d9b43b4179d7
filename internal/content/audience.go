// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"synctech/internal/events"
	"synctech/internal/models"
	"synctech/internal/store"
)

// Subscribe outcome messages shown to the visitor.
const (
	MsgSubscribed        = "Subscribed successfully"
	MsgAlreadySubscribed = "Already subscribed"
	MsgSubscribeFailed   = "Internal error"
	MsgInvalidEmail      = "Invalid email address"
)

// SubscriberRepository persists newsletter subscribers.
type SubscriberRepository interface {
	List(ctx context.Context) ([]models.Subscriber, error)
	Create(ctx context.Context, email string) (*models.Subscriber, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.SubscriberStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscribeResult is the visitor-facing outcome of a newsletter sign-up.
type SubscribeResult struct {
	OK      bool
	Message string
}

// Subscribers manages the newsletter list.
type Subscribers struct {
	repo SubscriberRepository
	pub  publisher
}

// NewSubscribers creates the subscriber service.
func NewSubscribers(repo SubscriberRepository, bus *events.Bus) *Subscribers {
	return &Subscribers{repo: repo, pub: publisher{bus, events.TopicNewsletter}}
}

// List returns all subscribers, newest first.
func (s *Subscribers) List(ctx context.Context) Result[models.Subscriber] {
	items, err := s.repo.List(ctx)
	return listResult(ctx, "subscribers", items, err)
}

// Subscribe adds email to the list. Errors are folded into the result:
// a repeated address reports MsgAlreadySubscribed and any other failure
// MsgSubscribeFailed.
func (s *Subscribers) Subscribe(ctx context.Context, email string) SubscribeResult {
	email = strings.ToLower(strings.TrimSpace(email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return SubscribeResult{OK: false, Message: MsgInvalidEmail}
	}

	if _, err := s.repo.Create(ctx, email); err != nil {
		if store.IsDuplicate(err) {
			return SubscribeResult{OK: false, Message: MsgAlreadySubscribed}
		}
		slog.ErrorContext(ctx, "subscribe failed", "error", err)
		return SubscribeResult{OK: false, Message: MsgSubscribeFailed}
	}
	s.pub.changed(ctx)
	return SubscribeResult{OK: true, Message: MsgSubscribed}
}

// SetStatus switches a subscriber between active and unsubscribed.
func (s *Subscribers) SetStatus(ctx context.Context, id uuid.UUID, status models.SubscriberStatus) error {
	if !status.Valid() {
		return invalid("unknown subscriber status %q", status)
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// Delete removes a subscriber.
func (s *Subscribers) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// VisitorLogRepository persists page views.
type VisitorLogRepository interface {
	List(ctx context.Context) ([]models.VisitorLog, error)
	Create(ctx context.Context, v models.VisitorLog) error
	Clear(ctx context.Context) error
}

// VisitorLogs records and lists page views.
type VisitorLogs struct {
	repo VisitorLogRepository
	pub  publisher
}

// NewVisitorLogs creates the visitor log service.
func NewVisitorLogs(repo VisitorLogRepository, bus *events.Bus) *VisitorLogs {
	return &VisitorLogs{repo: repo, pub: publisher{bus, events.TopicAnalytics}}
}

// List returns all page views, newest first.
func (s *VisitorLogs) List(ctx context.Context) Result[models.VisitorLog] {
	items, err := s.repo.List(ctx)
	return listResult(ctx, "visitor logs", items, err)
}

// Record appends a page view. Admin paths are never recorded and an
// empty referrer is stored as "Direct".
func (s *VisitorLogs) Record(ctx context.Context, v models.VisitorLog) error {
	if v.Page == "" {
		return invalid("page is required")
	}
	if IsAdminPath(v.Page) {
		return nil
	}
	if v.Referrer == "" {
		v.Referrer = "Direct"
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// Clear deletes every page view.
func (s *VisitorLogs) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// IsAdminPath reports whether path belongs to the admin panel.
func IsAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}
