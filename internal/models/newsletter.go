// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriberStatus is the delivery state of a newsletter subscriber.
type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
	SubscriberBounced      SubscriberStatus = "bounced"
	SubscriberComplained   SubscriberStatus = "complained"
)

// Valid reports whether s is a known subscriber status.
func (s SubscriberStatus) Valid() bool {
	switch s {
	case SubscriberActive, SubscriberUnsubscribed, SubscriberBounced, SubscriberComplained:
		return true
	}
	return false
}

// Subscriber is one newsletter recipient.
type Subscriber struct {
	ID              uuid.UUID        `json:"id"`
	Email           string           `json:"email"`
	Name            *string          `json:"name,omitempty"`
	Status          SubscriberStatus `json:"status"`
	Source          string           `json:"source"`
	SubscribedAt    time.Time        `json:"subscribed_at"`
	UnsubscribedAt  *time.Time       `json:"unsubscribed_at,omitempty"`
	ResubscribedAt  *time.Time       `json:"resubscribed_at,omitempty"`
	EmailOpenCount  int              `json:"email_open_count"`
	EmailClickCount int              `json:"email_click_count"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CampaignStatus is the sending state of a newsletter campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignSent      CampaignStatus = "sent"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignScheduled, CampaignSending, CampaignSent,
		CampaignPaused, CampaignCancelled:
		return true
	}
	return false
}

// Campaign is a newsletter issue. The counters are written by the sending
// pipeline only; the admin API never accepts them as input.
type Campaign struct {
	ID                uuid.UUID      `json:"id"`
	Name              string         `json:"name"`
	Subject           string         `json:"subject"`
	PreviewText       string         `json:"preview_text"`
	Body              string         `json:"body"`
	Status            CampaignStatus `json:"status"`
	FeaturedImageURL  *string        `json:"featured_image_url,omitempty"`
	ScheduledAt       *time.Time     `json:"scheduled_at,omitempty"`
	SentAt            *time.Time     `json:"sent_at,omitempty"`
	TotalRecipients   int            `json:"total_recipients"`
	TotalOpened       int            `json:"total_opened"`
	TotalClicked      int            `json:"total_clicked"`
	TotalBounced      int            `json:"total_bounced"`
	TotalComplained   int            `json:"total_complained"`
	TotalUnsubscribed int            `json:"total_unsubscribed"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
