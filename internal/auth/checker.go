// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
)

// RoleLookup loads the current role of a user. An empty role with a nil
// error means the user does not exist.
type RoleLookup interface {
	RoleOf(ctx context.Context, id uuid.UUID) (models.Role, error)
}

// Checker answers role questions, consulting its cache before the store.
type Checker struct {
	lookup RoleLookup
	cache  *RoleCache
	now    func() time.Time
}

// NewChecker creates a checker with its own cache of the given TTL.
func NewChecker(lookup RoleLookup, ttl time.Duration) *Checker {
	return &Checker{
		lookup: lookup,
		cache:  NewRoleCache(ttl),
		now:    time.Now,
	}
}

// Role returns the role of id. Unknown users are not cached.
func (c *Checker) Role(ctx context.Context, id uuid.UUID) (models.Role, error) {
	now := c.now()
	if role, ok := c.cache.Get(id, now); ok {
		return role, nil
	}

	role, err := c.lookup.RoleOf(ctx, id)
	if err != nil {
		return "", fmt.Errorf("lookup role: %w", err)
	}
	if role != "" {
		c.cache.Set(id, role, now)
	}
	return role, nil
}

// IsAdmin reports whether id currently has the admin role.
func (c *Checker) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	role, err := c.Role(ctx, id)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// Forget drops id from the cache so the next check hits the store.
func (c *Checker) Forget(id uuid.UUID) {
	c.cache.Invalidate(id)
}
