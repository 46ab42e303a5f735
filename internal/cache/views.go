// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"folio/internal/derive"
	"folio/internal/models"
)

// viewKeyTTL outlives the day a key is for, so late requests around
// midnight still hit it.
const viewKeyTTL = 26 * time.Hour

// ViewDedupe decides whether a page view should be counted. A visitor is
// counted at most once per content item and calendar day.
type ViewDedupe struct {
	client *redis.Client
}

// NewViewDedupe creates a ViewDedupe backed by the given Valkey client.
func NewViewDedupe(client *redis.Client) *ViewDedupe {
	return &ViewDedupe{client: client}
}

// First reports whether this is the visitor's first view of the item on
// the day of now.
func (v *ViewDedupe) First(ctx context.Context, kind models.ContentKind, id uuid.UUID, visitor string, now time.Time) (bool, error) {
	key := fmt.Sprintf("view:%s:%s:%s:%s", kind, id, derive.DayKey(now), visitor)
	ok, err := v.client.SetNX(ctx, key, 1, viewKeyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("view dedupe: %w", err)
	}
	return ok, nil
}
