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

// LeadStore handles contact-form inquiries.
type LeadStore struct {
	db *sql.DB
}

// NewLeadStore creates a new LeadStore.
func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{db: db}
}

const leadColumns = `id, name, email, message, created_at, status, category`

func scanLead(row scanner) (models.Lead, error) {
	var l models.Lead
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Message, &l.Date, &l.Status, &l.Category)
	return l, err
}

// List returns all leads, newest first.
func (s *LeadStore) List(ctx context.Context) ([]models.Lead, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// Create inserts a lead and returns it with the generated id and date.
func (s *LeadStore) Create(ctx context.Context, l models.Lead) (*models.Lead, error) {
	created, err := scanLead(s.db.QueryRowContext(ctx, `
		INSERT INTO leads (name, email, message, status, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+leadColumns,
		l.Name, l.Email, l.Message, l.Status, l.Category))
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", mapErr(err))
	}
	return &created, nil
}

// Update overwrites every editable field of the lead with the given id.
func (s *LeadStore) Update(ctx context.Context, l models.Lead) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE leads SET name = $1, email = $2, message = $3, status = $4, category = $5
		WHERE id = $6`,
		l.Name, l.Email, l.Message, l.Status, l.Category, l.ID)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return requireRow(res, "update lead")
}

// SetStatus moves a lead between new, read and archived.
func (s *LeadStore) SetStatus(ctx context.Context, id uuid.UUID, status models.LeadStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE leads SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set lead status: %w", err)
	}
	return requireRow(res, "set lead status")
}

// Delete removes a lead by ID.
func (s *LeadStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return requireRow(res, "delete lead")
}

// CountByCategory returns the number of leads in each category. Categories
// without leads are present with a zero count.
func (s *LeadStore) CountByCategory(ctx context.Context) (map[models.LeadCategory]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM leads GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count leads by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.LeadCategory]int, len(models.LeadCategories))
	for _, c := range models.LeadCategories {
		counts[c] = 0
	}
	for rows.Next() {
		var c models.LeadCategory
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, fmt.Errorf("scan lead count: %w", err)
		}
		counts[c] = n
	}
	return counts, rows.Err()
}
