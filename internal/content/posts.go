// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"synctech/internal/events"
	"synctech/internal/models"
	"synctech/internal/notify"
	"synctech/internal/slug"
	"synctech/internal/store"
)

// maxSlugAttempts bounds the suffix search when a title's slug is taken.
const maxSlugAttempts = 50

// PostRepository persists blog posts.
type PostRepository interface {
	List(ctx context.Context) ([]models.BlogPost, error)
	ListPublished(ctx context.Context) ([]models.BlogPost, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Create(ctx context.Context, p models.BlogPost) (*models.BlogPost, error)
	Update(ctx context.Context, p models.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostInput is what the blog editor submits for a new post.
type PostInput struct {
	Title   string
	Content string
	Excerpt string
	Author  string
	// Draft keeps the post off the public site.
	Draft bool
}

// Posts manages the blog.
type Posts struct {
	repo     PostRepository
	notifier notify.Notifier
	pub      publisher
}

// NewPosts creates the blog post service. A nil notifier disables notifications.
func NewPosts(repo PostRepository, bus *events.Bus, notifier notify.Notifier) *Posts {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Posts{repo: repo, notifier: notifier, pub: publisher{bus, events.TopicBlog}}
}

// All returns every post including drafts, for the admin.
func (s *Posts) All(ctx context.Context) Result[models.BlogPost] {
	items, err := s.repo.List(ctx)
	return listResult(ctx, "blog posts", items, err)
}

// Published returns the posts visible on the public blog.
func (s *Posts) Published(ctx context.Context) Result[models.BlogPost] {
	items, err := s.repo.ListPublished(ctx)
	return listResult(ctx, "published blog posts", items, err)
}

// BySlug returns a published post, or nil when no published post has the slug.
func (s *Posts) BySlug(ctx context.Context, postSlug string) (*models.BlogPost, error) {
	return s.repo.FindPublishedBySlug(ctx, postSlug)
}

// Add creates a post with a slug derived from its title. When the slug is
// already taken a numeric suffix is appended.
func (s *Posts) Add(ctx context.Context, in PostInput) (*models.BlogPost, error) {
	if in.Title == "" {
		return nil, invalid("title is required")
	}
	base := slug.Generate(in.Title)
	if base == "" {
		base = "post"
	}

	post := models.BlogPost{
		Title:     in.Title,
		Content:   in.Content,
		Excerpt:   in.Excerpt,
		Author:    in.Author,
		Published: !in.Draft,
	}

	var created *models.BlogPost
	for n := 1; n <= maxSlugAttempts; n++ {
		post.Slug = slug.WithSuffix(base, n)
		p, err := s.repo.Create(ctx, post)
		if err == nil {
			created = p
			break
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, err
		}
	}
	if created == nil {
		return nil, fmt.Errorf("create blog post: no free slug for %q", base)
	}
	s.pub.changed(ctx)

	if created.Published {
		if err := s.notifier.Notify(ctx, notify.KindBlog, map[string]any{
			"title":   created.Title,
			"author":  created.Author,
			"excerpt": created.Excerpt,
			"slug":    created.Slug,
		}); err != nil {
			slog.WarnContext(ctx, "blog notification failed", "post_id", created.ID, "error", err)
		}
	}
	return created, nil
}

// Update overwrites a post. The slug assigned at creation is kept.
func (s *Posts) Update(ctx context.Context, p models.BlogPost) error {
	if p.Title == "" {
		return invalid("title is required")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// Delete removes a post.
func (s *Posts) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}
