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

// SkillStore manages the skills shown on the public site.
type SkillStore struct {
	db *sql.DB
}

// NewSkillStore returns a new SkillStore.
func NewSkillStore(db *sql.DB) *SkillStore {
	return &SkillStore{db: db}
}

const skillColumns = `id, name, category, proficiency, icon, icon_url, show_percentage, sort_order, created_at, updated_at`

func scanSkill(row scanner) (*models.Skill, error) {
	var s models.Skill
	err := row.Scan(
		&s.ID, &s.Name, &s.Category, &s.Proficiency, &s.Icon, &s.IconURL,
		&s.ShowPercentage, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns every skill ordered by category, then strongest first.
func (s *SkillStore) List(ctx context.Context) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+skillColumns+` FROM skills
		ORDER BY category, proficiency DESC, sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return collect(rows, scanSkill)
}

// FindByID retrieves a skill by ID. Returns nil if not found.
func (s *SkillStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	sk, err := scanSkill(s.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
	return notFound(sk, err, "find skill by id")
}

// Create inserts a new skill and returns it.
func (s *SkillStore) Create(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	out, err := scanSkill(s.db.QueryRowContext(ctx, `
		INSERT INTO skills (name, category, proficiency, icon, icon_url, show_percentage, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+skillColumns,
		sk.Name, sk.Category, sk.Proficiency, sk.Icon, sk.IconURL, sk.ShowPercentage, sk.SortOrder,
	))
	if err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return out, nil
}

// Update modifies an existing skill.
func (s *SkillStore) Update(ctx context.Context, sk *models.Skill) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE skills SET
			name = $1, category = $2, proficiency = $3, icon = $4, icon_url = $5,
			show_percentage = $6, sort_order = $7, updated_at = NOW()
		WHERE id = $8
	`, sk.Name, sk.Category, sk.Proficiency, sk.Icon, sk.IconURL, sk.ShowPercentage, sk.SortOrder, sk.ID)
	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}
	return nil
}

// Delete removes a skill by ID.
func (s *SkillStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	return nil
}
