// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search implements the public site search: a case-insensitive
// substring scan over published posts, projects and services. There is no
// index; every query loads the three collections and filters them.
package search

import (
	"context"
	"strings"

	"synctech/internal/content"
	"synctech/internal/models"
)

// Results holds the matches per collection.
type Results struct {
	Query    string
	Posts    []models.BlogPost
	Projects []models.Project
	Services []models.Service
	// Partial is set when a collection could not be loaded and was
	// searched as empty.
	Partial bool
}

// Total returns the number of matches across all collections.
func (r Results) Total() int {
	return len(r.Posts) + len(r.Projects) + len(r.Services)
}

// Source loads the searchable collections.
type Source interface {
	Posts(ctx context.Context) content.Result[models.BlogPost]
	Projects(ctx context.Context) content.Result[models.Project]
	Services(ctx context.Context) content.Result[models.Service]
}

// SiteSource adapts a content.Site to Source.
type SiteSource struct {
	Site *content.Site
}

func (s SiteSource) Posts(ctx context.Context) content.Result[models.BlogPost] {
	return s.Site.Posts.Published(ctx)
}

func (s SiteSource) Projects(ctx context.Context) content.Result[models.Project] {
	return s.Site.Projects.List(ctx)
}

func (s SiteSource) Services(ctx context.Context) content.Result[models.Service] {
	return s.Site.Services.List(ctx)
}

// Search runs query against src. A blank query matches nothing.
func Search(ctx context.Context, src Source, query string) Results {
	res := Results{Query: query}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return res
	}

	posts := src.Posts(ctx)
	projects := src.Projects(ctx)
	services := src.Services(ctx)
	res.Partial = posts.Failed() || projects.Failed() || services.Failed()

	res.Posts = filter(posts.Items, needle, func(p models.BlogPost) []string {
		return []string{p.Title, p.Content, p.Excerpt}
	})
	res.Projects = filter(projects.Items, needle, func(p models.Project) []string {
		return []string{p.Title, p.Description, p.Category}
	})
	res.Services = filter(services.Items, needle, func(s models.Service) []string {
		return []string{s.Title, s.Description}
	})
	return res
}

// filter keeps the items where any of fields contains needle.
func filter[T any](items []T, needle string, fields func(T) []string) []T {
	var out []T
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
