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

// MessageStore manages contact form submissions.
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore returns a new MessageStore.
func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

const messageColumns = `id, name, email, phone, country, subject, body, is_read, created_at`

func scanMessage(row scanner) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Country, &m.Subject, &m.Body, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all messages, newest first.
func (s *MessageStore) List(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return collect(rows, scanMessage)
}

// FindByID retrieves a message. Returns nil if not found.
func (s *MessageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	m, err := scanMessage(s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM contact_messages WHERE id = $1`, id))
	return notFound(m, err, "find message by id")
}

// Create stores a submitted message.
func (s *MessageStore) Create(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error) {
	out, err := scanMessage(s.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, phone, country, subject, body)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+messageColumns,
		m.Name, m.Email, m.Phone, m.Country, m.Subject, m.Body,
	))
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return out, nil
}

// SetRead marks a message read or unread.
func (s *MessageStore) SetRead(ctx context.Context, id uuid.UUID, read bool) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE contact_messages SET is_read = $1 WHERE id = $2`, read, id); err != nil {
		return fmt.Errorf("mark message: %w", err)
	}
	return nil
}

// CountUnread returns the number of unread messages.
func (s *MessageStore) CountUnread(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages WHERE NOT is_read`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}

// Delete removes a message by ID.
func (s *MessageStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
