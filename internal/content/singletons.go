// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"log/slog"

	"synctech/internal/events"
	"synctech/internal/models"
)

// SettingsRepository persists the singleton site settings.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Save(ctx context.Context, v models.SiteSettings) error
}

// Settings serves site-wide switches and legal copy.
type Settings struct {
	repo SettingsRepository
	pub  publisher
}

// NewSettings creates the settings service.
func NewSettings(repo SettingsRepository, bus *events.Bus) *Settings {
	return &Settings{repo: repo, pub: publisher{bus, events.TopicSettings}}
}

// Get returns the stored settings, or the defaults when none are stored
// or the read fails.
func (s *Settings) Get(ctx context.Context) models.SiteSettings {
	v, _ := s.Load(ctx)
	return v
}

// Load is Get with the read error reported. On error the defaults are
// returned alongside it.
func (s *Settings) Load(ctx context.Context) (models.SiteSettings, error) {
	v, err := s.repo.Get(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "get settings failed, serving defaults", "error", err)
		return models.DefaultSiteSettings(), fmt.Errorf("load settings: %w", err)
	}
	if v == nil {
		return models.DefaultSiteSettings(), nil
	}
	return *v, nil
}

// Save stores the settings, creating the row on first use.
func (s *Settings) Save(ctx context.Context, v models.SiteSettings) error {
	if err := s.repo.Save(ctx, v); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// HeroRepository persists the active hero block.
type HeroRepository interface {
	Get(ctx context.Context) (*models.HeroContent, error)
	Save(ctx context.Context, v models.HeroContent) error
	Reset(ctx context.Context) error
}

// Hero serves the homepage hero block.
type Hero struct {
	repo HeroRepository
	pub  publisher
}

// NewHero creates the hero service.
func NewHero(repo HeroRepository, bus *events.Bus) *Hero {
	return &Hero{repo: repo, pub: publisher{bus, events.TopicHero}}
}

// Get returns the active hero, or the defaults.
func (h *Hero) Get(ctx context.Context) models.HeroContent {
	v, _ := h.Load(ctx)
	return v
}

// Load is Get with the read error reported.
func (h *Hero) Load(ctx context.Context) (models.HeroContent, error) {
	v, err := h.repo.Get(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "get hero failed, serving defaults", "error", err)
		return models.DefaultHeroContent(), fmt.Errorf("load hero: %w", err)
	}
	if v == nil {
		return models.DefaultHeroContent(), nil
	}
	return *v, nil
}

// Save replaces the active hero.
func (h *Hero) Save(ctx context.Context, v models.HeroContent) error {
	if v.Headline == "" {
		return invalid("headline is required")
	}
	if err := h.repo.Save(ctx, v); err != nil {
		return err
	}
	h.pub.changed(ctx)
	return nil
}

// Reset removes the stored hero so the defaults are served again.
func (h *Hero) Reset(ctx context.Context) error {
	if err := h.repo.Reset(ctx); err != nil {
		return err
	}
	h.pub.changed(ctx)
	return nil
}

// BlogHeaderRepository persists the blog listing banner.
type BlogHeaderRepository interface {
	Get(ctx context.Context) (*models.BlogHeader, error)
	Save(ctx context.Context, v models.BlogHeader) error
}

// BlogHeader serves the banner above the blog listing.
type BlogHeader struct {
	repo BlogHeaderRepository
	pub  publisher
}

// NewBlogHeader creates the blog header service.
func NewBlogHeader(repo BlogHeaderRepository, bus *events.Bus) *BlogHeader {
	return &BlogHeader{repo: repo, pub: publisher{bus, events.TopicBlogHeader}}
}

// Get returns the stored header, or the defaults.
func (b *BlogHeader) Get(ctx context.Context) models.BlogHeader {
	v, _ := b.Load(ctx)
	return v
}

// Load is Get with the read error reported.
func (b *BlogHeader) Load(ctx context.Context) (models.BlogHeader, error) {
	v, err := b.repo.Get(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "get blog header failed, serving defaults", "error", err)
		return models.DefaultBlogHeader(), fmt.Errorf("load blog header: %w", err)
	}
	if v == nil {
		return models.DefaultBlogHeader(), nil
	}
	return *v, nil
}

// Save stores the header.
func (b *BlogHeader) Save(ctx context.Context, v models.BlogHeader) error {
	if v.Title == "" {
		return invalid("title is required")
	}
	if err := b.repo.Save(ctx, v); err != nil {
		return err
	}
	b.pub.changed(ctx)
	return nil
}
