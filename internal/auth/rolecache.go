// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth decides whether an authenticated user may use the admin API.
package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
)

// DefaultTTL is how long a looked-up role is trusted.
const DefaultTTL = 15 * time.Minute

type cachedRole struct {
	role    models.Role
	expires time.Time
}

// RoleCache remembers user roles for a fixed TTL. Time is always passed in
// by the caller, which keeps expiry deterministic in tests.
type RoleCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uuid.UUID]cachedRole
}

// NewRoleCache creates an empty cache. A non-positive ttl uses DefaultTTL.
func NewRoleCache(ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RoleCache{ttl: ttl, entries: make(map[uuid.UUID]cachedRole)}
}

// Get returns the cached role of id. The second value is false on a miss,
// including when the entry expired at or before now.
func (c *RoleCache) Get(id uuid.UUID, now time.Time) (models.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return "", false
	}
	if !now.Before(e.expires) {
		delete(c.entries, id)
		return "", false
	}
	return e.role, true
}

// Set stores role for id until now plus the TTL.
func (c *RoleCache) Set(id uuid.UUID, role models.Role, now time.Time) {
	c.mu.Lock()
	c.entries[id] = cachedRole{role: role, expires: now.Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate forgets id, e.g. after its role was changed.
func (c *RoleCache) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// Len returns the number of entries, expired ones included.
func (c *RoleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
