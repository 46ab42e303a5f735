// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"cmp"
	"slices"

	"folio/internal/models"
)

// DefaultFeedSize is the number of entries the activity feed keeps.
const DefaultFeedSize = 20

// Feed merges recent events from the snapshot into one newest-first list
// of at most limit entries.
func Feed(s *Snapshot, limit int) []models.Activity {
	if limit <= 0 {
		limit = DefaultFeedSize
	}

	var out []models.Activity
	for _, m := range s.Messages {
		out = append(out, models.Activity{
			Kind: "message", Title: "Message from " + m.Name + ": " + m.Subject,
			Link: "/admin/messages/" + m.ID.String(), CreatedAt: m.CreatedAt,
		})
	}
	for _, sub := range s.Subscribers {
		out = append(out, models.Activity{
			Kind: "subscriber", Title: "New subscriber " + sub.Email,
			Link: "/admin/subscribers/" + sub.ID.String(), CreatedAt: sub.SubscribedAt,
		})
	}
	for _, p := range s.Posts {
		if !p.IsPublished() || p.PublishedAt == nil {
			continue
		}
		out = append(out, models.Activity{
			Kind: "post", Title: "Published " + p.Title,
			Link: "/blog/" + p.Slug, CreatedAt: *p.PublishedAt,
		})
	}
	for _, p := range s.Projects {
		out = append(out, models.Activity{
			Kind: "project", Title: "Added project " + p.Title,
			Link: "/projects/" + p.Slug, CreatedAt: p.CreatedAt,
		})
	}

	slices.SortStableFunc(out, func(a, b models.Activity) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
