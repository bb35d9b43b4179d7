// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"synctech/internal/content"
	"synctech/internal/content/contenttest"
	"synctech/internal/events"
	"synctech/internal/models"
)

type countingSource struct {
	loads atomic.Int32
	value models.SiteSettings
}

func (c *countingSource) Load(context.Context) (models.SiteSettings, error) {
	c.loads.Add(1)
	return c.value, nil
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSettingsSnapshot(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{value: models.DefaultSiteSettings()}
	snap := NewSettingsSnapshot(src)

	if snap.MaintenanceMode(ctx) {
		t.Fatal("default settings should not be in maintenance")
	}
	snap.MaintenanceMode(ctx)
	if n := src.loads.Load(); n != 1 {
		t.Errorf("loads: got %d, want 1", n)
	}

	bus := events.NewBus(nil)
	off := snap.Listen(bus)
	defer off()

	src.value.MaintenanceMode = true
	bus.Publish(ctx, events.TopicHero)
	if snap.MaintenanceMode(ctx) {
		t.Error("unrelated topic should not reload settings")
	}

	bus.Publish(ctx, events.TopicSettings)
	if !snap.MaintenanceMode(ctx) {
		t.Error("settings event should reload the snapshot")
	}
}

func TestSettingsSnapshotExpires(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	src := &countingSource{value: models.DefaultSiteSettings()}
	snap := NewSettingsSnapshot(src)
	snap.now = clk.now

	snap.MaintenanceMode(ctx)
	src.value.MaintenanceMode = true

	clk.advance(DefaultSnapshotTTL - time.Second)
	if snap.MaintenanceMode(ctx) {
		t.Error("value reloaded before the TTL")
	}
	clk.advance(2 * time.Second)
	if !snap.MaintenanceMode(ctx) {
		t.Error("expired value was not reloaded")
	}
}

// A database outage at boot must not pin the default settings: once the
// store answers again, a stored maintenance switch takes effect.
func TestSettingsSnapshotRecoversFromOutage(t *testing.T) {
	ctx := context.Background()
	backend := contenttest.NewBackend()
	settings := content.NewSettings(backend.Settings, events.NewBus(nil))
	if err := settings.Save(ctx, models.SiteSettings{MaintenanceMode: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	clk := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	snap := NewSettingsSnapshot(settings)
	snap.now = clk.now

	backend.Settings.Fail = contenttest.ErrUnavailable
	if snap.MaintenanceMode(ctx) {
		t.Error("outage should fall back to the defaults")
	}

	backend.Settings.Fail = nil
	clk.advance(snapshotRetry + time.Second)
	if !snap.MaintenanceMode(ctx) {
		t.Error("stored maintenance mode ignored after the store recovered")
	}

	// A later failure keeps the last loaded settings.
	backend.Settings.Fail = contenttest.ErrUnavailable
	clk.advance(DefaultSnapshotTTL + time.Second)
	if !snap.MaintenanceMode(ctx) {
		t.Error("failed reload replaced the last loaded settings")
	}
}
