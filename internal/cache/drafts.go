// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"folio/internal/editor"
)

const (
	draftKeyPrefix = "draft:"

	// DefaultDraftTTL is how long an untouched draft is kept.
	DefaultDraftTTL = 24 * time.Hour
)

// NewDraftKey names the draft of a project that does not exist yet.
const NewDraftKey = "new"

// DraftStore parks project drafts in Valkey between editor requests. Each
// user has at most one draft per project plus one for a new project.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore creates a draft store backed by the given Valkey client.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl == 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftStore{client: client, ttl: ttl}
}

// DraftKey returns the draft key of a project, or NewDraftKey for nil.
func DraftKey(projectID *uuid.UUID) string {
	if projectID == nil {
		return NewDraftKey
	}
	return projectID.String()
}

func draftKey(userID uuid.UUID, key string) string {
	return draftKeyPrefix + userID.String() + ":" + key
}

// Load returns the stored draft. The second result is false when there is none.
func (s *DraftStore) Load(ctx context.Context, userID uuid.UUID, key string) (editor.ProjectDraft, bool, error) {
	var d editor.ProjectDraft
	data, err := s.client.Get(ctx, draftKey(userID, key)).Bytes()
	if err == redis.Nil {
		return d, false, nil
	}
	if err != nil {
		return d, false, fmt.Errorf("load draft: %w", err)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, false, fmt.Errorf("decode draft: %w", err)
	}
	return d, true, nil
}

// Save stores d and restarts its TTL.
func (s *DraftStore) Save(ctx context.Context, userID uuid.UUID, key string, d editor.ProjectDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(userID, key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Delete discards a draft.
func (s *DraftStore) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	if err := s.client.Del(ctx, draftKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
