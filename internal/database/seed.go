package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// seedPlan mirrors the pricing_plans columns for the initial catalogue.
type seedPlan struct {
	name, icon, price, period, description, cta string
	features                                    []string
	popular                                     bool
}

// defaultPlans are the plans shown on /pricing before an admin edits them.
var defaultPlans = []seedPlan{
	{
		name: "Starter", icon: "Zap", price: "$2,500", period: "one-time",
		description: "Perfect for small businesses and MVPs", cta: "Get Started",
		features: []string{
			"Single-page application", "Responsive design", "Contact form integration",
			"Basic SEO optimization", "2 rounds of revisions", "1 month support",
		},
	},
	{
		name: "Professional", icon: "Rocket", price: "$7,500", period: "one-time",
		description: "For growing businesses with complex needs", cta: "Start Project",
		features: []string{
			"Multi-page application", "Custom CMS/Admin panel", "Database integration",
			"Advanced SEO & analytics", "API integrations", "Unlimited revisions", "3 months support",
		},
		popular: true,
	},
	{
		name: "Enterprise", icon: "Crown", price: "Custom", period: "quote",
		description: "Tailored solutions for large-scale operations", cta: "Contact Sales",
		features: []string{
			"Full-stack application", "Microservices architecture", "Cloud infrastructure setup",
			"DevOps & CI/CD pipeline", "Security audit & compliance", "Dedicated team",
			"12 months support & SLA",
		},
	},
}

// Seed populates the database with initial development data: a default
// admin user and the starter pricing plans. Each step is skipped when its
// table already has rows. The admin will be prompted to set up 2FA on
// first login (totp_enabled = false).
func Seed(db *sql.DB, adminEmail, adminPassword string) error {
	if err := seedAdmin(db, adminEmail, adminPassword); err != nil {
		return err
	}
	return seedPlans(db)
}

func seedAdmin(db *sql.DB, email, password string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("admin user already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, totp_enabled)
		VALUES ($1, $2, $3, $4)
	`, email, string(hash), "Admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user", "email", email)
	return nil
}

func seedPlans(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM pricing_plans").Scan(&count); err != nil {
		return fmt.Errorf("seed check plans: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i, p := range defaultPlans {
		features, err := json.Marshal(p.features)
		if err != nil {
			return fmt.Errorf("seed marshal features: %w", err)
		}
		_, err = db.Exec(`
			INSERT INTO pricing_plans (name, icon, price, period, description, features,
			                           cta_text, is_popular, display_order)
			VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)
		`, p.name, p.icon, p.price, p.period, p.description, string(features), p.cta, p.popular, i)
		if err != nil {
			return fmt.Errorf("seed insert plan %s: %w", p.name, err)
		}
	}

	slog.Info("database seeded with default pricing plans", "count", len(defaultPlans))
	return nil
}
