// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/models"
)

// TechnologyStore manages the technologies projects can reference.
type TechnologyStore struct {
	db *sql.DB
}

// NewTechnologyStore returns a new TechnologyStore.
func NewTechnologyStore(db *sql.DB) *TechnologyStore {
	return &TechnologyStore{db: db}
}

const technologyColumns = `id, name, slug, category, icon, icon_url, created_at`

func scanTechnology(row scanner) (*models.Technology, error) {
	var t models.Technology
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Category, &t.Icon, &t.IconURL, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all technologies ordered by category and name.
func (s *TechnologyStore) List(ctx context.Context) ([]models.Technology, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+technologyColumns+` FROM technologies ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}
	return collect(rows, scanTechnology)
}

// FindByID retrieves a technology by ID. Returns nil if not found.
func (s *TechnologyStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Technology, error) {
	t, err := scanTechnology(s.db.QueryRowContext(ctx, `SELECT `+technologyColumns+` FROM technologies WHERE id = $1`, id))
	return notFound(t, err, "find technology by id")
}

// Create inserts a new technology and returns it.
func (s *TechnologyStore) Create(ctx context.Context, t *models.Technology) (*models.Technology, error) {
	out, err := scanTechnology(s.db.QueryRowContext(ctx, `
		INSERT INTO technologies (name, slug, category, icon, icon_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+technologyColumns,
		t.Name, t.Slug, t.Category, t.Icon, t.IconURL,
	))
	if err != nil {
		return nil, fmt.Errorf("create technology: %w", err)
	}
	return out, nil
}

// Update modifies an existing technology.
func (s *TechnologyStore) Update(ctx context.Context, t *models.Technology) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE technologies SET name = $1, slug = $2, category = $3, icon = $4, icon_url = $5
		WHERE id = $6
	`, t.Name, t.Slug, t.Category, t.Icon, t.IconURL, t.ID)
	if err != nil {
		return fmt.Errorf("update technology: %w", err)
	}
	return nil
}

// Delete removes a technology. Its project associations cascade.
func (s *TechnologyStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM technologies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete technology: %w", err)
	}
	return nil
}
