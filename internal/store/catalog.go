// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"synctech/internal/models"
)

// ProjectStore handles portfolio projects.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, title, category, description, image_url, link, created_at`

func scanProject(row scanner) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Description, &p.ImageURL, &p.Link, &p.CreatedAt)
	return p, err
}

// List returns all projects, newest first.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Create inserts a project.
func (s *ProjectStore) Create(ctx context.Context, p models.Project) (*models.Project, error) {
	created, err := scanProject(s.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, category, description, image_url, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+projectColumns,
		p.Title, p.Category, p.Description, p.ImageURL, p.Link))
	if err != nil {
		return nil, fmt.Errorf("create project: %w", mapErr(err))
	}
	return &created, nil
}

// Update overwrites a project's fields.
func (s *ProjectStore) Update(ctx context.Context, p models.Project) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET title = $1, category = $2, description = $3, image_url = $4, link = $5
		WHERE id = $6`,
		p.Title, p.Category, p.Description, p.ImageURL, p.Link, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireRow(res, "update project")
}

// Delete removes a project by ID.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireRow(res, "delete project")
}

// TestimonialStore handles client testimonials.
type TestimonialStore struct {
	db *sql.DB
}

// NewTestimonialStore creates a new TestimonialStore.
func NewTestimonialStore(db *sql.DB) *TestimonialStore {
	return &TestimonialStore{db: db}
}

const testimonialColumns = `id, name, role, company, quote, rating, image_url`

func scanTestimonial(row scanner) (models.Testimonial, error) {
	var t models.Testimonial
	err := row.Scan(&t.ID, &t.Name, &t.Role, &t.Company, &t.Quote, &t.Rating, &t.Image)
	return t, err
}

// List returns all testimonials in insertion order.
func (s *TestimonialStore) List(ctx context.Context) ([]models.Testimonial, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var items []models.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Create inserts a testimonial.
func (s *TestimonialStore) Create(ctx context.Context, t models.Testimonial) (*models.Testimonial, error) {
	created, err := scanTestimonial(s.db.QueryRowContext(ctx, `
		INSERT INTO testimonials (name, role, company, quote, rating, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+testimonialColumns,
		t.Name, t.Role, t.Company, t.Quote, t.Rating, t.Image))
	if err != nil {
		return nil, fmt.Errorf("create testimonial: %w", mapErr(err))
	}
	return &created, nil
}

// Update overwrites a testimonial's fields.
func (s *TestimonialStore) Update(ctx context.Context, t models.Testimonial) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE testimonials SET name = $1, role = $2, company = $3, quote = $4, rating = $5, image_url = $6
		WHERE id = $7`,
		t.Name, t.Role, t.Company, t.Quote, t.Rating, t.Image, t.ID)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return requireRow(res, "update testimonial")
}

// Delete removes a testimonial by ID.
func (s *TestimonialStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return requireRow(res, "delete testimonial")
}

// ServiceStore handles the agency's service offerings.
type ServiceStore struct {
	db *sql.DB
}

// NewServiceStore creates a new ServiceStore.
func NewServiceStore(db *sql.DB) *ServiceStore {
	return &ServiceStore{db: db}
}

const serviceColumns = `id, number, title, description, icon`

func scanService(row scanner) (models.Service, error) {
	var sv models.Service
	err := row.Scan(&sv.ID, &sv.Number, &sv.Title, &sv.Description, &sv.Icon)
	return sv, err
}

// List returns all services ordered by number.
func (s *ServiceStore) List(ctx context.Context) ([]models.Service, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY number ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var items []models.Service
	for rows.Next() {
		sv, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, sv)
	}
	return items, rows.Err()
}

// Create inserts a service.
func (s *ServiceStore) Create(ctx context.Context, sv models.Service) (*models.Service, error) {
	created, err := scanService(s.db.QueryRowContext(ctx, `
		INSERT INTO services (number, title, description, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING `+serviceColumns,
		sv.Number, sv.Title, sv.Description, sv.Icon))
	if err != nil {
		return nil, fmt.Errorf("create service: %w", mapErr(err))
	}
	return &created, nil
}

// Update overwrites a service's fields.
func (s *ServiceStore) Update(ctx context.Context, sv models.Service) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE services SET number = $1, title = $2, description = $3, icon = $4
		WHERE id = $5`,
		sv.Number, sv.Title, sv.Description, sv.Icon, sv.ID)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return requireRow(res, "update service")
}

// Delete removes a service by ID.
func (s *ServiceStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return requireRow(res, "delete service")
}
