// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"sync/atomic"
	"time"

	"synctech/internal/events"
	"synctech/internal/models"
)

const (
	// DefaultSnapshotTTL bounds how stale the settings snapshot can get
	// when a change event is missed.
	DefaultSnapshotTTL = time.Minute

	// snapshotRetry is how soon a failed load is retried.
	snapshotRetry = 5 * time.Second
)

// SettingsSource loads the current site settings and reports read
// failures. content.Settings satisfies it.
type SettingsSource interface {
	Load(ctx context.Context) (models.SiteSettings, error)
}

type snapshotEntry struct {
	settings models.SiteSettings
	loaded   bool // settings came from a successful load
	expires  time.Time
}

// SettingsSnapshot keeps the site settings in memory so the maintenance
// gate does not query the database on every public request. It reloads on
// every settings change event and when the held value expires. A failed
// load is never held for longer than snapshotRetry, and it keeps the last
// successfully loaded settings when there are any.
type SettingsSnapshot struct {
	src     SettingsSource
	ttl     time.Duration
	now     func() time.Time
	current atomic.Pointer[snapshotEntry]
}

// NewSettingsSnapshot creates a snapshot over src.
func NewSettingsSnapshot(src SettingsSource) *SettingsSnapshot {
	return &SettingsSnapshot{src: src, ttl: DefaultSnapshotTTL, now: time.Now}
}

// Refresh reloads the settings from the source.
func (s *SettingsSnapshot) Refresh(ctx context.Context) models.SiteSettings {
	v, err := s.src.Load(ctx)
	now := s.now()
	if err != nil {
		entry := &snapshotEntry{settings: v, expires: now.Add(snapshotRetry)}
		if prev := s.current.Load(); prev != nil && prev.loaded {
			entry.settings, entry.loaded = prev.settings, true
		}
		s.current.Store(entry)
		return entry.settings
	}
	s.current.Store(&snapshotEntry{settings: v, loaded: true, expires: now.Add(s.ttl)})
	return v
}

// Get returns the held settings, reloading them when missing or expired.
func (s *SettingsSnapshot) Get(ctx context.Context) models.SiteSettings {
	if e := s.current.Load(); e != nil && s.now().Before(e.expires) {
		return e.settings
	}
	return s.Refresh(ctx)
}

// MaintenanceMode reports whether the public site is switched off.
func (s *SettingsSnapshot) MaintenanceMode(ctx context.Context) bool {
	return s.Get(ctx).MaintenanceMode
}

// Listen reloads the snapshot on every settings change.
func (s *SettingsSnapshot) Listen(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(events.TopicSettings, func(ev events.Event) {
		s.Refresh(context.Background())
	})
}
