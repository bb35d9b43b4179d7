// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"synctech/internal/models"
)

// SubscriberStore handles newsletter sign-ups.
type SubscriberStore struct {
	db *sql.DB
}

// NewSubscriberStore creates a new SubscriberStore.
func NewSubscriberStore(db *sql.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

// List returns all subscribers, newest first.
func (s *SubscriberStore) List(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, created_at, status FROM subscribers ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Date, &sub.Status); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Create inserts an active subscriber. A repeated email yields ErrDuplicate.
func (s *SubscriberStore) Create(ctx context.Context, email string) (*models.Subscriber, error) {
	sub := &models.Subscriber{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO subscribers (email, status) VALUES ($1, $2)
		RETURNING id, email, created_at, status`,
		email, models.SubscriberActive,
	).Scan(&sub.ID, &sub.Email, &sub.Date, &sub.Status)
	if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", mapErr(err))
	}
	return sub, nil
}

// SetStatus switches a subscriber between active and unsubscribed.
func (s *SubscriberStore) SetStatus(ctx context.Context, id uuid.UUID, status models.SubscriberStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subscribers SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set subscriber status: %w", err)
	}
	return requireRow(res, "set subscriber status")
}

// Delete removes a subscriber by ID.
func (s *SubscriberStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	return requireRow(res, "delete subscriber")
}

// VisitorLogStore records page views from the public beacon.
type VisitorLogStore struct {
	db *sql.DB
}

// NewVisitorLogStore creates a new VisitorLogStore.
func NewVisitorLogStore(db *sql.DB) *VisitorLogStore {
	return &VisitorLogStore{db: db}
}

// List returns all visitor logs, newest first.
func (s *VisitorLogStore) List(ctx context.Context) ([]models.VisitorLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, page, user_agent, referrer, screen_resolution, language
		FROM visitor_logs ORDER BY timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list visitor logs: %w", err)
	}
	defer rows.Close()

	var logs []models.VisitorLog
	for rows.Next() {
		var v models.VisitorLog
		if err := rows.Scan(
			&v.ID, &v.Timestamp, &v.Page, &v.UserAgent,
			&v.Referrer, &v.ScreenResolution, &v.Language,
		); err != nil {
			return nil, fmt.Errorf("scan visitor log: %w", err)
		}
		logs = append(logs, v)
	}
	return logs, rows.Err()
}

// Create appends a visitor log. The timestamp is assigned by the database.
func (s *VisitorLogStore) Create(ctx context.Context, v models.VisitorLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitor_logs (page, user_agent, referrer, screen_resolution, language)
		VALUES ($1, $2, $3, $4, $5)`,
		v.Page, v.UserAgent, v.Referrer, v.ScreenResolution, v.Language)
	if err != nil {
		return fmt.Errorf("create visitor log: %w", err)
	}
	return nil
}

// Clear deletes every visitor log.
func (s *VisitorLogStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM visitor_logs`); err != nil {
		return fmt.Errorf("clear visitor logs: %w", err)
	}
	return nil
}
