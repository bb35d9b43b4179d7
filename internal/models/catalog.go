// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is an article on the public blog. The slug is derived from the
// title when the post is created and never changes afterwards.
type BlogPost struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Author    string    `json:"author"`
	Date      time.Time `json:"date"`
	Slug      string    `json:"slug"`
	Published bool      `json:"published"`
}

// Project is a portfolio entry on /work.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Testimonial is a client quote. Rating is 1–5 stars.
type Testimonial struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Role    string    `json:"role"`
	Company string    `json:"company"`
	Quote   string    `json:"quote"`
	Rating  int       `json:"rating"`
	Image   *string   `json:"image,omitempty"`
}

// Rating bounds for testimonials.
const (
	MinRating = 1
	MaxRating = 5
)

// Service is an offering listed on the homepage, ordered by Number.
type Service struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        *string   `json:"icon,omitempty"`
}

// PricingPlan is a tier on /pricing, ordered by DisplayOrder.
type PricingPlan struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Icon         string    `json:"icon"`
	Price        string    `json:"price"`
	Period       string    `json:"period"`
	Description  string    `json:"description"`
	Features     []string  `json:"features"`
	CTAText      string    `json:"ctaText"`
	IsPopular    bool      `json:"isPopular"`
	DisplayOrder int       `json:"displayOrder"`
}
