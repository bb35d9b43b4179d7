// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"slices"
	"testing"

	"synctech/internal/models"
)

func TestBlogPostStorePublishedFilter(t *testing.T) {
	db := testDB(t)
	s := NewBlogPostStore(db)
	ctx := context.Background()

	t.Cleanup(func() { cleanRows(t, db, "blog_posts", "slug", "store-live", "store-draft") })

	live, err := s.Create(ctx, models.BlogPost{Title: "Live", Slug: "store-live", Published: true, Author: "A"})
	if err != nil {
		t.Fatalf("Create live: %v", err)
	}
	if _, err := s.Create(ctx, models.BlogPost{Title: "Draft", Slug: "store-draft"}); err != nil {
		t.Fatalf("Create draft: %v", err)
	}

	published, _ := s.ListPublished(ctx)
	for _, p := range published {
		if p.Slug == "store-draft" {
			t.Error("draft listed as published")
		}
	}
	all, _ := s.List(ctx)
	if !slices.ContainsFunc(all, func(p models.BlogPost) bool { return p.Slug == "store-draft" }) {
		t.Error("draft missing from List")
	}

	got, err := s.FindPublishedBySlug(ctx, "store-draft")
	if err != nil || got != nil {
		t.Errorf("FindPublishedBySlug(draft) = %v, %v; want nil", got, err)
	}
	got, err = s.FindPublishedBySlug(ctx, "store-live")
	if err != nil || got == nil || got.ID != live.ID {
		t.Errorf("FindPublishedBySlug(live) = %v, %v", got, err)
	}

	_, err = s.Create(ctx, models.BlogPost{Title: "Again", Slug: "store-live"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("slug collision = %v, want ErrDuplicate", err)
	}
}

func TestBlogPostStoreUpdateKeepsSlug(t *testing.T) {
	db := testDB(t)
	s := NewBlogPostStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanRows(t, db, "blog_posts", "slug", "store-keep") })

	p, err := s.Create(ctx, models.BlogPost{Title: "Keep", Slug: "store-keep", Published: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p.Title = "Renamed"
	p.Slug = "ignored"
	if err := s.Update(ctx, *p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := s.FindPublishedBySlug(ctx, "store-keep")
	if got == nil || got.Title != "Renamed" {
		t.Errorf("after Update = %+v", got)
	}
}

func TestProjectStoreRoundTrip(t *testing.T) {
	db := testDB(t)
	s := NewProjectStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanRows(t, db, "projects", "title", "Store Project") })

	want := models.Project{
		Title: "Store Project", Category: "Web", Description: "d",
		ImageURL: "https://img.example/p.png", Link: "https://example.com",
	}
	p, err := s.Create(ctx, want)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, _ := s.List(ctx)
	idx := slices.IndexFunc(list, func(x models.Project) bool { return x.ID == p.ID })
	if idx < 0 {
		t.Fatal("project missing from List")
	}
	got := list[idx]
	if got.ImageURL != want.ImageURL || got.Link != want.Link || got.Category != want.Category {
		t.Errorf("List entry = %+v, want fields of %+v", got, want)
	}

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = s.List(ctx)
	if slices.ContainsFunc(list, func(x models.Project) bool { return x.ID == p.ID }) {
		t.Error("project still listed after Delete")
	}
}

func TestTestimonialStoreNullableImage(t *testing.T) {
	db := testDB(t)
	s := NewTestimonialStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanRows(t, db, "testimonials", "name", "Store Quote") })

	tm, err := s.Create(ctx, models.Testimonial{Name: "Store Quote", Quote: "Great", Rating: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tm.Image != nil {
		t.Errorf("image = %v, want nil", *tm.Image)
	}

	_, err = s.Create(ctx, models.Testimonial{Name: "Store Quote", Quote: "Bad", Rating: 9})
	if err == nil {
		t.Error("expected rating check violation")
	}
}

func TestServiceStoreOrdering(t *testing.T) {
	db := testDB(t)
	s := NewServiceStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanRows(t, db, "services", "title", "Store Svc B", "Store Svc A") })

	s.Create(ctx, models.Service{Number: "92", Title: "Store Svc B"})
	s.Create(ctx, models.Service{Number: "91", Title: "Store Svc A"})

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	a := slices.IndexFunc(list, func(x models.Service) bool { return x.Title == "Store Svc A" })
	b := slices.IndexFunc(list, func(x models.Service) bool { return x.Title == "Store Svc B" })
	if a < 0 || b < 0 || a > b {
		t.Errorf("services not ordered by number: A at %d, B at %d", a, b)
	}
}

func TestPricingPlanStoreFeatures(t *testing.T) {
	db := testDB(t)
	s := NewPricingPlanStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanRows(t, db, "pricing_plans", "name", "Store Plan") })

	p, err := s.Create(ctx, models.PricingPlan{
		Name: "Store Plan", Price: "$1", Features: []string{"One", "Two"}, DisplayOrder: 99,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !slices.Equal(p.Features, []string{"One", "Two"}) {
		t.Errorf("features = %v", p.Features)
	}

	p.Features = nil
	if err := s.Update(ctx, *p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	list, _ := s.List(ctx)
	idx := slices.IndexFunc(list, func(x models.PricingPlan) bool { return x.ID == p.ID })
	if idx < 0 {
		t.Fatal("plan missing from List")
	}
	if list[idx].Features == nil || len(list[idx].Features) != 0 {
		t.Errorf("features after clearing = %#v, want empty slice", list[idx].Features)
	}
}
