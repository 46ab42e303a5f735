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

// SubscriberStore manages newsletter subscribers.
type SubscriberStore struct {
	db *sql.DB
}

// NewSubscriberStore returns a new SubscriberStore.
func NewSubscriberStore(db *sql.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

const subscriberColumns = `id, email, name, status, source, subscribed_at, unsubscribed_at,
	resubscribed_at, email_open_count, email_click_count, created_at, updated_at`

func scanSubscriber(row scanner) (*models.Subscriber, error) {
	var s models.Subscriber
	err := row.Scan(
		&s.ID, &s.Email, &s.Name, &s.Status, &s.Source, &s.SubscribedAt, &s.UnsubscribedAt,
		&s.ResubscribedAt, &s.EmailOpenCount, &s.EmailClickCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all subscribers, most recent signup first.
func (s *SubscriberStore) List(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+subscriberColumns+` FROM newsletter_subscribers ORDER BY subscribed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return collect(rows, scanSubscriber)
}

// FindByID retrieves a subscriber. Returns nil if not found.
func (s *SubscriberStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error) {
	sub, err := scanSubscriber(s.db.QueryRowContext(ctx,
		`SELECT `+subscriberColumns+` FROM newsletter_subscribers WHERE id = $1`, id))
	return notFound(sub, err, "find subscriber by id")
}

// FindByEmail retrieves a subscriber by normalized email. Returns nil if not found.
func (s *SubscriberStore) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	sub, err := scanSubscriber(s.db.QueryRowContext(ctx,
		`SELECT `+subscriberColumns+` FROM newsletter_subscribers WHERE email = $1`, email))
	return notFound(sub, err, "find subscriber by email")
}

// Create inserts a new subscriber.
func (s *SubscriberStore) Create(ctx context.Context, sub *models.Subscriber) (*models.Subscriber, error) {
	out, err := scanSubscriber(s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_subscribers (email, name, status, source, subscribed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+subscriberColumns,
		sub.Email, sub.Name, sub.Status, sub.Source, sub.SubscribedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	return out, nil
}

// UpdateStatus persists the status and lifecycle timestamps of sub.
func (s *SubscriberStore) UpdateStatus(ctx context.Context, sub *models.Subscriber) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE newsletter_subscribers SET
			status = $1, unsubscribed_at = $2, resubscribed_at = $3, updated_at = NOW()
		WHERE id = $4
	`, sub.Status, sub.UnsubscribedAt, sub.ResubscribedAt, sub.ID)
	if err != nil {
		return fmt.Errorf("update subscriber status: %w", err)
	}
	return nil
}

// Delete removes a subscriber by ID.
func (s *SubscriberStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM newsletter_subscribers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	return nil
}
