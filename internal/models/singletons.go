// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// SiteSettings is the singleton row of site-wide switches and legal copy.
type SiteSettings struct {
	MaintenanceMode bool      `json:"maintenanceMode"`
	PrivacyText     string    `json:"privacyText"`
	TermsText       string    `json:"termsText"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero"`
}

// DefaultSiteSettings is served when no settings row exists or the read fails.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		MaintenanceMode: false,
		PrivacyText:     "At Synctech...",
		TermsText:       "By engaging...",
	}
}

// HeroContent is the homepage hero block. Exactly one row is active.
type HeroContent struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"ctaText"`
	CTALink     string `json:"ctaLink"`
}

// DefaultHeroContent is served when no active hero row exists.
func DefaultHeroContent() HeroContent {
	return HeroContent{
		Headline:    "We Build Digital Products",
		Subheadline: "Full-stack development agency...",
		CTAText:     "Start Your Project",
		CTALink:     "#contact",
	}
}

// BlogHeader is the singleton banner above the public blog listing.
type BlogHeader struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Badge    string `json:"badge"`
}

// DefaultBlogHeader is served when no blog header row exists.
func DefaultBlogHeader() BlogHeader {
	return BlogHeader{
		Title:    "Engineering Blog",
		Subtitle: "Technical insights...",
		Badge:    "Insights",
	}
}
