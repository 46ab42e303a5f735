// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"folio/internal/models"
	"folio/internal/slug"
)

// DefaultAdminEmail is the account created on an empty database.
const DefaultAdminEmail = "admin@folio.local"

// Seed populates an empty database with a default admin, the about and
// contact singletons, and a starter set of project categories and
// technologies. Every step is skipped when its table already has rows.
func Seed(db *sql.DB) error {
	steps := []struct {
		name string
		fn   func(*sql.DB) error
	}{
		{"admin", seedAdmin},
		{"settings", seedSettings},
		{"categories", seedCategories},
		{"technologies", seedTechnologies},
	}
	for _, s := range steps {
		if err := s.fn(db); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
	}
	return nil
}

func isEmpty(db *sql.DB, table string) (bool, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// seedAdmin creates the default admin. 2FA is not enabled, so the admin is
// sent through TOTP setup on first login.
func seedAdmin(db *sql.DB) error {
	empty, err := isEmpty(db, "users")
	if err != nil || !empty {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, DefaultAdminEmail, string(hash), "Admin", models.RoleAdmin, false)
	if err != nil {
		return err
	}

	slog.Info("database seeded with default admin user",
		"email", DefaultAdminEmail,
		"password", "admin",
	)
	return nil
}

func seedSettings(db *sql.DB) error {
	about, err := json.Marshal(models.About{
		Name:       "Your Name",
		Headline:   "Software engineer",
		Bio:        "Tell visitors who you are and what you build.",
		Experience: []models.Experience{},
		Socials:    []models.SocialLink{},
	})
	if err != nil {
		return err
	}
	contact, err := json.Marshal(models.ContactInfo{
		Email:        "hello@example.com",
		ResponseTime: "within 48 hours",
		Socials:      []models.SocialLink{},
	})
	if err != nil {
		return err
	}

	for key, value := range map[string][]byte{
		models.SettingAbout:   about,
		models.SettingContact: contact,
	} {
		if _, err := db.Exec(`
			INSERT INTO site_settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO NOTHING
		`, key, string(value)); err != nil {
			return err
		}
	}
	return nil
}

func seedCategories(db *sql.DB) error {
	empty, err := isEmpty(db, "project_categories")
	if err != nil || !empty {
		return err
	}

	cats := []struct{ name, color string }{
		{"Web Applications", "#3b82f6"},
		{"Mobile Apps", "#ec4899"},
		{"Developer Tools", "#64748b"},
		{"Open Source", "#10b981"},
	}
	for i, c := range cats {
		if _, err := db.Exec(`
			INSERT INTO project_categories (name, slug, color, sort_order)
			VALUES ($1, $2, $3, $4)
		`, c.name, slug.Generate(c.name), c.color, i); err != nil {
			return err
		}
	}
	return nil
}

func seedTechnologies(db *sql.DB) error {
	empty, err := isEmpty(db, "technologies")
	if err != nil || !empty {
		return err
	}

	techs := []struct {
		name     string
		category models.SkillCategory
	}{
		{"Go", models.CategoryBackend},
		{"TypeScript", models.CategoryFrontend},
		{"React", models.CategoryFrontend},
		{"Next.js", models.CategoryFrontend},
		{"PostgreSQL", models.CategoryDatabase},
		{"Valkey", models.CategoryDatabase},
		{"Docker", models.CategoryDevOps},
		{"Kubernetes", models.CategoryInfrastructure},
		{"Flutter", models.CategoryMobile},
		{"Figma", models.CategoryDesign},
	}
	for _, t := range techs {
		if _, err := db.Exec(`
			INSERT INTO technologies (name, slug, category) VALUES ($1, $2, $3)
		`, t.name, slug.Generate(t.name), t.category); err != nil {
			return err
		}
	}
	return nil
}
