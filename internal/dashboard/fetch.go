// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dashboard loads everything the admin overview needs in one
// concurrent pass and turns it into chart-ready aggregates.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"folio/internal/models"
)

// Sources are the read paths the dashboard depends on. Each is a narrow
// view of one store.
type Sources struct {
	Skills      interface{ List(context.Context) ([]models.Skill, error) }
	Projects    interface{ List(context.Context) ([]models.Project, error) }
	Posts       interface{ List(context.Context) ([]models.Post, error) }
	Subscribers interface{ List(context.Context) ([]models.Subscriber, error) }
	Campaigns   interface{ List(context.Context) ([]models.Campaign, error) }
	Messages    interface{ List(context.Context) ([]models.ContactMessage, error) }
	Views       interface {
		Range(ctx context.Context, from, to time.Time) ([]models.ViewRow, error)
	}
}

// Snapshot is the raw material of a report.
type Snapshot struct {
	Skills      []models.Skill
	Projects    []models.Project
	Posts       []models.Post
	Subscribers []models.Subscriber
	Campaigns   []models.Campaign
	Messages    []models.ContactMessage
	Views       []models.ViewRow
}

// Fetcher loads snapshots.
type Fetcher struct {
	src Sources
}

// NewFetcher creates a fetcher over src. Every field of src must be set.
func NewFetcher(src Sources) *Fetcher {
	return &Fetcher{src: src}
}

// Fetch loads all collections concurrently. View rows cover the window
// Build compares: two periods of days ending at now. The first failing
// query cancels the others and its error is returned.
func (f *Fetcher) Fetch(ctx context.Context, now time.Time, days int) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	load(g, ctx, "skills", f.src.Skills.List, &snap.Skills)
	load(g, ctx, "projects", f.src.Projects.List, &snap.Projects)
	load(g, ctx, "posts", f.src.Posts.List, &snap.Posts)
	load(g, ctx, "subscribers", f.src.Subscribers.List, &snap.Subscribers)
	load(g, ctx, "campaigns", f.src.Campaigns.List, &snap.Campaigns)
	load(g, ctx, "messages", f.src.Messages.List, &snap.Messages)

	from, to := window(now, days)
	g.Go(func() error {
		rows, err := f.src.Views.Range(ctx, from, to)
		if err != nil {
			return fmt.Errorf("load views: %w", err)
		}
		snap.Views = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func load[T any](g *errgroup.Group, ctx context.Context, name string, list func(context.Context) ([]T, error), dst *[]T) {
	g.Go(func() error {
		items, err := list(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		*dst = items
		return nil
	})
}
