// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an admin inbox entry (new message, new subscriber, ...).
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Link      *string    `json:"link,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsRead returns true once the notification has been acknowledged.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// Activity is one line of the dashboard's recent activity feed. It is
// derived from the records themselves, not persisted.
type Activity struct {
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
