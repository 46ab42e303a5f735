// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"context"
	"fmt"
	"time"

	"folio/internal/models"
	"folio/internal/poller"
)

// Names of the refresh tasks pushed to admin dashboards.
const (
	TaskNotifications = "notifications"
	TaskActivity      = "activity"
)

// Refresh intervals of the admin dashboard feeds.
const (
	NotificationInterval = 30 * time.Second
	ActivityInterval     = 60 * time.Second
)

// NotificationSource lists unread notifications.
type NotificationSource interface {
	Unread(ctx context.Context, limit int) ([]models.Notification, error)
}

// NotificationFeed is the payload of a notifications refresh.
type NotificationFeed struct {
	Unread int                   `json:"unread"`
	Items  []models.Notification `json:"items"`
}

// Tasks returns the two independent dashboard refresh tasks.
func Tasks(notifications NotificationSource, fetcher *Fetcher, now func() time.Time) []poller.Task {
	return []poller.Task{
		{
			Name:     TaskNotifications,
			Interval: NotificationInterval,
			Fetch: func(ctx context.Context) (any, error) {
				items, err := notifications.Unread(ctx, DefaultFeedSize)
				if err != nil {
					return nil, fmt.Errorf("load notifications: %w", err)
				}
				return NotificationFeed{Unread: len(items), Items: items}, nil
			},
		},
		{
			Name:     TaskActivity,
			Interval: ActivityInterval,
			Fetch: func(ctx context.Context) (any, error) {
				snap, err := fetcher.Fetch(ctx, now(), DefaultDays)
				if err != nil {
					return nil, err
				}
				return Feed(snap, DefaultFeedSize), nil
			},
		},
	}
}
