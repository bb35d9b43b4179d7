// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"synctech/internal/events"
	"synctech/internal/models"
)

// ProjectRepository persists portfolio projects.
type ProjectRepository interface {
	List(ctx context.Context) ([]models.Project, error)
	Create(ctx context.Context, p models.Project) (*models.Project, error)
	Update(ctx context.Context, p models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Projects manages the portfolio.
type Projects struct {
	repo ProjectRepository
	pub  publisher
}

// NewProjects creates the project service.
func NewProjects(repo ProjectRepository, bus *events.Bus) *Projects {
	return &Projects{repo: repo, pub: publisher{bus, events.TopicPortfolio}}
}

// List returns all projects, newest first.
func (s *Projects) List(ctx context.Context) Result[models.Project] {
	items, err := s.repo.List(ctx)
	return listResult(ctx, "projects", items, err)
}

// Add creates a project.
func (s *Projects) Add(ctx context.Context, p models.Project) (*models.Project, error) {
	if p.Title == "" {
		return nil, invalid("title is required")
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.pub.changed(ctx)
	return created, nil
}

// Update overwrites a project.
func (s *Projects) Update(ctx context.Context, p models.Project) error {
	if p.Title == "" {
		return invalid("title is required")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// Delete removes a project.
func (s *Projects) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// TestimonialRepository persists client testimonials.
type TestimonialRepository interface {
	List(ctx context.Context) ([]models.Testimonial, error)
	Create(ctx context.Context, t models.Testimonial) (*models.Testimonial, error)
	Update(ctx context.Context, t models.Testimonial) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Testimonials manages client quotes.
type Testimonials struct {
	repo TestimonialRepository
	pub  publisher
}

// NewTestimonials creates the testimonial service.
func NewTestimonials(repo TestimonialRepository, bus *events.Bus) *Testimonials {
	return &Testimonials{repo: repo, pub: publisher{bus, events.TopicTestimonials}}
}

func validateTestimonial(t models.Testimonial) error {
	if t.Name == "" || t.Quote == "" {
		return invalid("name and quote are required")
	}
	if t.Rating < models.MinRating || t.Rating > models.MaxRating {
		return invalid("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	return nil
}

// List returns all testimonials.
func (s *Testimonials) List(ctx context.Context) Result[models.Testimonial] {
	items, err := s.repo.List(ctx)
	return listResult(ctx, "testimonials", items, err)
}

// Add creates a testimonial.
func (s *Testimonials) Add(ctx context.Context, t models.Testimonial) (*models.Testimonial, error) {
	if err := validateTestimonial(t); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	s.pub.changed(ctx)
	return created, nil
}

// Update overwrites a testimonial.
func (s *Testimonials) Update(ctx context.Context, t models.Testimonial) error {
	if err := validateTestimonial(t); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// Delete removes a testimonial.
func (s *Testimonials) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// ServiceRepository persists service offerings.
type ServiceRepository interface {
	List(ctx context.Context) ([]models.Service, error)
	Create(ctx context.Context, sv models.Service) (*models.Service, error)
	Update(ctx context.Context, sv models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Services manages the offerings listed on the homepage.
type Services struct {
	repo ServiceRepository
	pub  publisher
}

// NewServices creates the service-offering service.
func NewServices(repo ServiceRepository, bus *events.Bus) *Services {
	return &Services{repo: repo, pub: publisher{bus, events.TopicServices}}
}

// List returns all services ordered by number.
func (s *Services) List(ctx context.Context) Result[models.Service] {
	items, err := s.repo.List(ctx)
	return listResult(ctx, "services", items, err)
}

// ServiceNumber formats the display number of the n-th service: "01", "02", ...
func ServiceNumber(n int) string {
	return fmt.Sprintf("%02d", n)
}

// Add creates a service. An empty number is filled with the next position.
func (s *Services) Add(ctx context.Context, sv models.Service) (*models.Service, error) {
	if sv.Title == "" {
		return nil, invalid("title is required")
	}
	if sv.Number == "" {
		existing, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("number service: %w", err)
		}
		sv.Number = ServiceNumber(len(existing) + 1)
	}
	created, err := s.repo.Create(ctx, sv)
	if err != nil {
		return nil, err
	}
	s.pub.changed(ctx)
	return created, nil
}

// Update overwrites a service.
func (s *Services) Update(ctx context.Context, sv models.Service) error {
	if sv.Title == "" {
		return invalid("title is required")
	}
	if err := s.repo.Update(ctx, sv); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// Delete removes a service.
func (s *Services) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// PlanRepository persists pricing plans.
type PlanRepository interface {
	List(ctx context.Context) ([]models.PricingPlan, error)
	Create(ctx context.Context, p models.PricingPlan) (*models.PricingPlan, error)
	Update(ctx context.Context, p models.PricingPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Plans manages the pricing page.
type Plans struct {
	repo PlanRepository
	pub  publisher
}

// NewPlans creates the pricing plan service.
func NewPlans(repo PlanRepository, bus *events.Bus) *Plans {
	return &Plans{repo: repo, pub: publisher{bus, events.TopicPricing}}
}

// List returns all plans ordered by display order.
func (s *Plans) List(ctx context.Context) Result[models.PricingPlan] {
	items, err := s.repo.List(ctx)
	return listResult(ctx, "pricing plans", items, err)
}

// Add appends a plan after the existing ones.
func (s *Plans) Add(ctx context.Context, p models.PricingPlan) (*models.PricingPlan, error) {
	if p.Name == "" || p.Price == "" {
		return nil, invalid("name and price are required")
	}
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("order pricing plan: %w", err)
	}
	p.DisplayOrder = len(existing)
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.pub.changed(ctx)
	return created, nil
}

// Update overwrites a plan, including its display order.
func (s *Plans) Update(ctx context.Context, p models.PricingPlan) error {
	if p.Name == "" || p.Price == "" {
		return invalid("name and price are required")
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}

// Delete removes a plan.
func (s *Plans) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.changed(ctx)
	return nil
}
