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

// NotificationStore manages admin notifications.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore returns a new NotificationStore.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationColumns = `id, kind, title, body, link, read_at, created_at`

func scanNotification(row scanner) (*models.Notification, error) {
	var n models.Notification
	if err := row.Scan(&n.ID, &n.Kind, &n.Title, &n.Body, &n.Link, &n.ReadAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// Recent returns the newest notifications, read or not.
func (s *NotificationStore) Recent(ctx context.Context, limit int) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

// Unread returns unread notifications, newest first.
func (s *NotificationStore) Unread(ctx context.Context, limit int) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE read_at IS NULL ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

// Create stores a notification.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	out, err := scanNotification(s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (kind, title, body, link)
		VALUES ($1, $2, $3, $4)
		RETURNING `+notificationColumns,
		n.Kind, n.Title, n.Body, n.Link,
	))
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return out, nil
}

// MarkRead marks one notification read.
func (s *NotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read_at = NOW() WHERE id = $1 AND read_at IS NULL`, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every notification read.
func (s *NotificationStore) MarkAllRead(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE notifications SET read_at = NOW() WHERE read_at IS NULL`); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
