// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"synctech/internal/models"
)

// SiteSettingsStore manages the singleton site_settings row.
type SiteSettingsStore struct {
	db *sql.DB
}

// NewSiteSettingsStore returns a new SiteSettingsStore backed by the given database.
func NewSiteSettingsStore(db *sql.DB) *SiteSettingsStore {
	return &SiteSettingsStore{db: db}
}

// Get returns the settings row, or nil if none has been saved yet.
func (s *SiteSettingsStore) Get(ctx context.Context) (*models.SiteSettings, error) {
	v := &models.SiteSettings{}
	err := s.db.QueryRowContext(ctx, `
		SELECT maintenance_mode, privacy_text, terms_text, updated_at
		FROM site_settings WHERE singleton
	`).Scan(&v.MaintenanceMode, &v.PrivacyText, &v.TermsText, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get site settings: %w", err)
	}
	return v, nil
}

// Save creates the row on first use and overwrites it afterwards. The
// UNIQUE singleton column makes concurrent first saves converge on one row.
func (s *SiteSettingsStore) Save(ctx context.Context, v models.SiteSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_settings (maintenance_mode, privacy_text, terms_text)
		VALUES ($1, $2, $3)
		ON CONFLICT (singleton)
		DO UPDATE SET maintenance_mode = EXCLUDED.maintenance_mode,
		              privacy_text = EXCLUDED.privacy_text,
		              terms_text = EXCLUDED.terms_text,
		              updated_at = NOW()`,
		v.MaintenanceMode, v.PrivacyText, v.TermsText,
	)
	if err != nil {
		return fmt.Errorf("save site settings: %w", err)
	}
	return nil
}

// HeroStore manages the active hero_content row.
type HeroStore struct {
	db *sql.DB
}

// NewHeroStore returns a new HeroStore backed by the given database.
func NewHeroStore(db *sql.DB) *HeroStore {
	return &HeroStore{db: db}
}

// Get returns the active hero, or nil if none exists.
func (s *HeroStore) Get(ctx context.Context) (*models.HeroContent, error) {
	v := &models.HeroContent{}
	err := s.db.QueryRowContext(ctx, `
		SELECT headline, subheadline, cta_text, cta_link
		FROM hero_content WHERE active
	`).Scan(&v.Headline, &v.Subheadline, &v.CTAText, &v.CTALink)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get hero content: %w", err)
	}
	return v, nil
}

// Save upserts the active hero. The partial unique index on active
// guarantees at most one active row even under concurrent saves.
func (s *HeroStore) Save(ctx context.Context, v models.HeroContent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hero_content (headline, subheadline, cta_text, cta_link, active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (active) WHERE active
		DO UPDATE SET headline = EXCLUDED.headline,
		              subheadline = EXCLUDED.subheadline,
		              cta_text = EXCLUDED.cta_text,
		              cta_link = EXCLUDED.cta_link,
		              updated_at = NOW()`,
		v.Headline, v.Subheadline, v.CTAText, v.CTALink,
	)
	if err != nil {
		return fmt.Errorf("save hero content: %w", err)
	}
	return nil
}

// Reset deletes every hero row so readers fall back to the defaults.
func (s *HeroStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM hero_content`); err != nil {
		return fmt.Errorf("reset hero content: %w", err)
	}
	return nil
}

// Count returns the number of hero rows, active or not.
func (s *HeroStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hero_content`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count hero content: %w", err)
	}
	return n, nil
}

// BlogHeaderStore manages the singleton blog_header row.
type BlogHeaderStore struct {
	db *sql.DB
}

// NewBlogHeaderStore returns a new BlogHeaderStore backed by the given database.
func NewBlogHeaderStore(db *sql.DB) *BlogHeaderStore {
	return &BlogHeaderStore{db: db}
}

// Get returns the blog header, or nil if none has been saved yet.
func (s *BlogHeaderStore) Get(ctx context.Context) (*models.BlogHeader, error) {
	v := &models.BlogHeader{}
	err := s.db.QueryRowContext(ctx, `
		SELECT title, subtitle, badge FROM blog_header WHERE singleton
	`).Scan(&v.Title, &v.Subtitle, &v.Badge)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blog header: %w", err)
	}
	return v, nil
}

// Save upserts the blog header.
func (s *BlogHeaderStore) Save(ctx context.Context, v models.BlogHeader) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blog_header (title, subtitle, badge)
		VALUES ($1, $2, $3)
		ON CONFLICT (singleton)
		DO UPDATE SET title = EXCLUDED.title,
		              subtitle = EXCLUDED.subtitle,
		              badge = EXCLUDED.badge,
		              updated_at = NOW()`,
		v.Title, v.Subtitle, v.Badge,
	)
	if err != nil {
		return fmt.Errorf("save blog header: %w", err)
	}
	return nil
}
