// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriberStatus is the newsletter state of a subscriber.
type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
)

// Valid reports whether s is one of the known statuses.
func (s SubscriberStatus) Valid() bool {
	return s == SubscriberActive || s == SubscriberUnsubscribed
}

// Subscriber is a newsletter sign-up. Email is unique across the table.
type Subscriber struct {
	ID     uuid.UUID        `json:"id"`
	Email  string           `json:"email"`
	Date   time.Time        `json:"date"`
	Status SubscriberStatus `json:"status"`
}

// VisitorLog is one page view recorded by the public site beacon.
// Logs are append-only; the admin can only clear them in bulk.
type VisitorLog struct {
	ID               uuid.UUID `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Page             string    `json:"page"`
	UserAgent        string    `json:"userAgent"`
	Referrer         string    `json:"referrer"`
	ScreenResolution string    `json:"screenResolution"`
	Language         string    `json:"language"`
}
