// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"synctech/internal/models"
)

// PricingPlanStore handles pricing tiers. Features are stored as a JSONB array.
type PricingPlanStore struct {
	db *sql.DB
}

// NewPricingPlanStore creates a new PricingPlanStore.
func NewPricingPlanStore(db *sql.DB) *PricingPlanStore {
	return &PricingPlanStore{db: db}
}

const planColumns = `id, name, icon, price, period, description, features, cta_text, is_popular, display_order`

func scanPlan(row scanner) (models.PricingPlan, error) {
	var p models.PricingPlan
	var features []byte
	if err := row.Scan(
		&p.ID, &p.Name, &p.Icon, &p.Price, &p.Period, &p.Description,
		&features, &p.CTAText, &p.IsPopular, &p.DisplayOrder,
	); err != nil {
		return p, err
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return p, fmt.Errorf("decode plan features: %w", err)
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return p, nil
}

func encodeFeatures(features []string) (string, error) {
	if features == nil {
		features = []string{}
	}
	b, err := json.Marshal(features)
	if err != nil {
		return "", fmt.Errorf("encode plan features: %w", err)
	}
	return string(b), nil
}

// List returns all plans ordered by display order.
func (s *PricingPlanStore) List(ctx context.Context) ([]models.PricingPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+planColumns+` FROM pricing_plans ORDER BY display_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pricing plans: %w", err)
	}
	defer rows.Close()

	var plans []models.PricingPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pricing plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Create inserts a plan.
func (s *PricingPlanStore) Create(ctx context.Context, p models.PricingPlan) (*models.PricingPlan, error) {
	features, err := encodeFeatures(p.Features)
	if err != nil {
		return nil, err
	}
	created, err := scanPlan(s.db.QueryRowContext(ctx, `
		INSERT INTO pricing_plans (name, icon, price, period, description, features, cta_text, is_popular, display_order)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)
		RETURNING `+planColumns,
		p.Name, p.Icon, p.Price, p.Period, p.Description, features, p.CTAText, p.IsPopular, p.DisplayOrder))
	if err != nil {
		return nil, fmt.Errorf("create pricing plan: %w", mapErr(err))
	}
	return &created, nil
}

// Update overwrites a plan's fields.
func (s *PricingPlanStore) Update(ctx context.Context, p models.PricingPlan) error {
	features, err := encodeFeatures(p.Features)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE pricing_plans
		SET name = $1, icon = $2, price = $3, period = $4, description = $5,
		    features = $6::jsonb, cta_text = $7, is_popular = $8, display_order = $9
		WHERE id = $10`,
		p.Name, p.Icon, p.Price, p.Period, p.Description, features, p.CTAText, p.IsPopular, p.DisplayOrder, p.ID)
	if err != nil {
		return fmt.Errorf("update pricing plan: %w", err)
	}
	return requireRow(res, "update pricing plan")
}

// Delete removes a plan by ID.
func (s *PricingPlanStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pricing_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pricing plan: %w", err)
	}
	return requireRow(res, "delete pricing plan")
}
