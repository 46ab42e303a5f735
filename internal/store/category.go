// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
)

// CategoryStore manages project categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, color, sort_order, created_at, updated_at`

// scanCategory scans a row into a ProjectCategory struct.
func scanCategory(row scanner) (*models.ProjectCategory, error) {
	var c models.ProjectCategory
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.Color, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by sort_order, with project counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.ProjectCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.color, c.sort_order,
		       c.created_at, c.updated_at,
		       COUNT(p.id) AS project_count
		FROM project_categories c
		LEFT JOIN projects p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.ProjectCategory
	for rows.Next() {
		var c models.ProjectCategory
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description,
			&c.Color, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
			&c.ProjectCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectCategory, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM project_categories WHERE id = $1`, id))
	return notFound(c, err, "find category by id")
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.ProjectCategory) (*models.ProjectCategory, error) {
	result, err := scanCategory(s.db.QueryRowContext(ctx, `
		INSERT INTO project_categories (name, slug, description, color, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Color, c.SortOrder,
	))
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.ProjectCategory) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE project_categories SET
			name = $1, slug = $2, description = $3, color = $4,
			sort_order = $5, updated_at = NOW()
		WHERE id = $6
	`, c.Name, c.Slug, c.Description, c.Color, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. Its projects become uncategorized.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM project_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// Reorder updates sort_order for multiple categories in a transaction.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			UPDATE project_categories SET sort_order = $1, updated_at = $2 WHERE id = $3`)
		if err != nil {
			return fmt.Errorf("prepare reorder: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, item := range items {
			if _, err := stmt.ExecContext(ctx, item.Order, now, item.ID); err != nil {
				return fmt.Errorf("reorder category %s: %w", item.ID, err)
			}
		}
		return nil
	})
}
