// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"synctech/internal/models"
)

// BlogPostStore handles blog post persistence.
type BlogPostStore struct {
	db *sql.DB
}

// NewBlogPostStore creates a new BlogPostStore.
func NewBlogPostStore(db *sql.DB) *BlogPostStore {
	return &BlogPostStore{db: db}
}

const postColumns = `id, title, content, excerpt, author, created_at, slug, published`

func scanPost(row scanner) (models.BlogPost, error) {
	var p models.BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.Author, &p.Date, &p.Slug, &p.Published)
	return p, err
}

func (s *BlogPostStore) list(ctx context.Context, query string, args ...any) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// List returns every post, drafts included, newest first.
func (s *BlogPostStore) List(ctx context.Context) ([]models.BlogPost, error) {
	posts, err := s.list(ctx, `SELECT `+postColumns+` FROM blog_posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	return posts, nil
}

// ListPublished returns published posts, newest first.
func (s *BlogPostStore) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	posts, err := s.list(ctx, `
		SELECT `+postColumns+` FROM blog_posts
		WHERE published ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list published blog posts: %w", err)
	}
	return posts, nil
}

// FindPublishedBySlug returns a published post by slug. Returns nil if
// the slug is unknown or the post is a draft.
func (s *BlogPostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM blog_posts WHERE slug = $1 AND published`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog post by slug: %w", err)
	}
	return &p, nil
}

// Create inserts a post. A slug collision yields ErrDuplicate.
func (s *BlogPostStore) Create(ctx context.Context, p models.BlogPost) (*models.BlogPost, error) {
	created, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (title, content, excerpt, author, slug, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+postColumns,
		p.Title, p.Content, p.Excerpt, p.Author, p.Slug, p.Published))
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", mapErr(err))
	}
	return &created, nil
}

// Update overwrites a post's editable fields. The slug is fixed at creation.
func (s *BlogPostStore) Update(ctx context.Context, p models.BlogPost) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE blog_posts
		SET title = $1, content = $2, excerpt = $3, author = $4, published = $5, updated_at = NOW()
		WHERE id = $6`,
		p.Title, p.Content, p.Excerpt, p.Author, p.Published, p.ID)
	if err != nil {
		return fmt.Errorf("update blog post: %w", err)
	}
	return requireRow(res, "update blog post")
}

// Delete removes a post by ID.
func (s *BlogPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return requireRow(res, "delete blog post")
}
