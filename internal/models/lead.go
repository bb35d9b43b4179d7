// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the inbox triage state of a lead.
type LeadStatus string

const (
	LeadStatusNew      LeadStatus = "new"
	LeadStatusRead     LeadStatus = "read"
	LeadStatusArchived LeadStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusRead, LeadStatusArchived:
		return true
	}
	return false
}

// LeadCategory routes a contact-form inquiry to an inbox tab.
type LeadCategory string

const (
	LeadCategorySales       LeadCategory = "sales"
	LeadCategorySupport     LeadCategory = "support"
	LeadCategoryPartnership LeadCategory = "partnership"
	LeadCategoryGeneral     LeadCategory = "general"
)

// LeadCategories lists every category in inbox tab order.
var LeadCategories = []LeadCategory{
	LeadCategorySales,
	LeadCategorySupport,
	LeadCategoryPartnership,
	LeadCategoryGeneral,
}

// Valid reports whether c is one of the known categories.
func (c LeadCategory) Valid() bool {
	for _, known := range LeadCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Lead is an inquiry submitted through the public contact form.
type Lead struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Message  string       `json:"message"`
	Date     time.Time    `json:"date"`
	Status   LeadStatus   `json:"status"`
	Category LeadCategory `json:"category"`
}
