// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
)

// ErrNotFound is returned when the subscriber or campaign does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidEmail is returned by Subscribe for malformed addresses.
var ErrInvalidEmail = errors.New("invalid email address")

// SubscriberStore persists subscribers. Finders return nil, nil when the
// record does not exist.
type SubscriberStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error)
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	Create(ctx context.Context, s *models.Subscriber) (*models.Subscriber, error)
	UpdateStatus(ctx context.Context, s *models.Subscriber) error
}

// CampaignStore persists campaigns.
type CampaignStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssetStore deletes uploaded files by their public URL.
type AssetStore interface {
	DeleteByURL(ctx context.Context, url string) error
}

// Service applies the newsletter rules on top of the stores.
type Service struct {
	subscribers SubscriberStore
	campaigns   CampaignStore
	assets      AssetStore
	tokens      *Tokens
	now         func() time.Time
}

// NewService wires a Service. assets may be nil when object storage is
// not configured.
func NewService(subs SubscriberStore, campaigns CampaignStore, assets AssetStore, tokens *Tokens) *Service {
	return &Service{
		subscribers: subs,
		campaigns:   campaigns,
		assets:      assets,
		tokens:      tokens,
		now:         time.Now,
	}
}

// Subscribe adds email to the list, or brings an unsubscribed address
// back. Subscribing an active address again changes nothing. The boolean
// reports whether the subscriber record was created or changed.
func (s *Service) Subscribe(ctx context.Context, email, name, source string) (*models.Subscriber, bool, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.subscribers.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("find subscriber: %w", err)
	}

	if existing == nil {
		now := s.now()
		sub := &models.Subscriber{
			Email:        email,
			Status:       models.SubscriberActive,
			Source:       strings.TrimSpace(source),
			SubscribedAt: now,
		}
		if n := strings.TrimSpace(name); n != "" {
			sub.Name = &n
		}
		created, err := s.subscribers.Create(ctx, sub)
		if err != nil {
			return nil, false, fmt.Errorf("create subscriber: %w", err)
		}
		return created, true, nil
	}

	if existing.Status == models.SubscriberActive {
		return existing, false, nil
	}
	if err := Transition(existing, models.SubscriberActive, s.now()); err != nil {
		return nil, false, err
	}
	if err := s.subscribers.UpdateStatus(ctx, existing); err != nil {
		return nil, false, fmt.Errorf("resubscribe: %w", err)
	}
	return existing, true, nil
}

// Unsubscribe resolves an unsubscribe token and marks the subscriber as
// unsubscribed. Repeated calls are harmless.
func (s *Service) Unsubscribe(ctx context.Context, token string) (*models.Subscriber, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.SetStatus(ctx, id, models.SubscriberUnsubscribed)
}

// SetStatus changes a subscriber's status from the admin dashboard. Moving
// a bounced or complained address to active is allowed here as an
// explicit reactivation.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, to models.SubscriberStatus) (*models.Subscriber, error) {
	sub, err := s.subscribers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	if sub.Status == to {
		return sub, nil
	}

	now := s.now()
	if to == models.SubscriberActive && sub.Status != models.SubscriberUnsubscribed {
		Reactivate(sub, now)
	} else if err := Transition(sub, to, now); err != nil {
		return nil, err
	}

	if err := s.subscribers.UpdateStatus(ctx, sub); err != nil {
		return nil, fmt.Errorf("update subscriber status: %w", err)
	}
	return sub, nil
}

// UnsubscribeURL builds the link placed in every email sent to sub.
func (s *Service) UnsubscribeURL(baseURL string, sub uuid.UUID) (string, error) {
	token, err := s.tokens.Issue(sub)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + "/newsletter/unsubscribe?token=" + url.QueryEscape(token), nil
}

// DeleteCampaign removes a campaign and then, best effort, its featured
// image. A failed image delete is logged and does not fail the call; a
// failed record delete leaves the image in place.
func (s *Service) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find campaign: %w", err)
	}
	if c == nil {
		return ErrNotFound
	}

	if err := s.campaigns.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}

	if c.FeaturedImageURL != nil && *c.FeaturedImageURL != "" && s.assets != nil {
		if err := s.assets.DeleteByURL(ctx, *c.FeaturedImageURL); err != nil {
			slog.Warn("campaign image delete failed", "campaign_id", id, "url", *c.FeaturedImageURL, "error", err)
		}
	}
	return nil
}

// NormalizeEmail lowercases and validates a bare email address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
