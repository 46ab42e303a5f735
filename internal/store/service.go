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

// ServiceStore manages the services offered on the public site.
type ServiceStore struct {
	db *sql.DB
}

// NewServiceStore returns a new ServiceStore.
func NewServiceStore(db *sql.DB) *ServiceStore {
	return &ServiceStore{db: db}
}

const serviceColumns = `id, title, slug, description, icon, features, price_from, currency,
	is_active, sort_order, created_at, updated_at`

func scanService(row scanner) (*models.Service, error) {
	var s models.Service
	err := row.Scan(
		&s.ID, &s.Title, &s.Slug, &s.Description, &s.Icon, jsonInto(&s.Features),
		&s.PriceFrom, &s.Currency, &s.IsActive, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns every service in display order.
func (s *ServiceStore) List(ctx context.Context) ([]models.Service, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY sort_order, title`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return collect(rows, scanService)
}

// ListActive returns the services shown on the public site.
func (s *ServiceStore) ListActive(ctx context.Context) ([]models.Service, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+serviceColumns+` FROM services WHERE is_active ORDER BY sort_order, title`)
	if err != nil {
		return nil, fmt.Errorf("list active services: %w", err)
	}
	return collect(rows, scanService)
}

// FindByID retrieves a service. Returns nil if not found.
func (s *ServiceStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	svc, err := scanService(s.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	return notFound(svc, err, "find service by id")
}

// Create inserts a new service and returns it.
func (s *ServiceStore) Create(ctx context.Context, svc *models.Service) (*models.Service, error) {
	out, err := scanService(s.db.QueryRowContext(ctx, `
		INSERT INTO services (title, slug, description, icon, features, price_from, currency, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+serviceColumns,
		svc.Title, svc.Slug, svc.Description, svc.Icon, jsonb{svc.Features},
		svc.PriceFrom, svc.Currency, svc.IsActive, svc.SortOrder,
	))
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return out, nil
}

// Update modifies an existing service.
func (s *ServiceStore) Update(ctx context.Context, svc *models.Service) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE services SET
			title = $1, slug = $2, description = $3, icon = $4, features = $5,
			price_from = $6, currency = $7, is_active = $8, sort_order = $9, updated_at = NOW()
		WHERE id = $10
	`, svc.Title, svc.Slug, svc.Description, svc.Icon, jsonb{svc.Features},
		svc.PriceFrom, svc.Currency, svc.IsActive, svc.SortOrder, svc.ID)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// Delete removes a service by ID.
func (s *ServiceStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
