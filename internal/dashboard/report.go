// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"time"

	"folio/internal/derive"
	"folio/internal/models"
	"folio/internal/newsletter"
)

// DefaultDays is the length of the period the dashboard reports on.
const DefaultDays = 30

// Overview holds the headline counters.
type Overview struct {
	Projects          int `json:"projects"`
	FeaturedProjects  int `json:"featured_projects"`
	PublishedPosts    int `json:"published_posts"`
	DraftPosts        int `json:"draft_posts"`
	Skills            int `json:"skills"`
	ActiveSubscribers int `json:"active_subscribers"`
	UnreadMessages    int `json:"unread_messages"`
	TotalViews        int `json:"total_views"`
	TotalLikes        int `json:"total_likes"`
}

// ViewStats is the traffic chart with its period-over-period growth.
type ViewStats struct {
	Series   []derive.Point `json:"series"`
	Current  int            `json:"current"`
	Previous int            `json:"previous"`
	Growth   int            `json:"growth"`
	Projects int            `json:"projects"`
	Posts    int            `json:"posts"`
}

// StatusCount is one slice of a status breakdown.
type StatusCount struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// CategoryStats summarizes the skills of one category.
type CategoryStats struct {
	Category           models.SkillCategory `json:"category"`
	Color              string               `json:"color"`
	Count              int                  `json:"count"`
	AverageProficiency int                  `json:"average_proficiency"`
}

// ContentItem is one row of the top content table.
type ContentItem struct {
	ID        string             `json:"id"`
	Kind      models.ContentKind `json:"kind"`
	Title     string             `json:"title"`
	Slug      string             `json:"slug"`
	Views     int                `json:"views"`
	Likes     int                `json:"likes"`
	CreatedAt time.Time          `json:"created_at"`
}

func (c ContentItem) CreatedTime() time.Time { return c.CreatedAt }
func (c ContentItem) Engagement() int        { return c.Views + c.Likes }
func (c ContentItem) PriorityValue() int     { return 0 }

// Report is everything the admin overview renders.
type Report struct {
	GeneratedAt      time.Time                        `json:"generated_at"`
	Days             int                              `json:"days"`
	Overview         Overview                         `json:"overview"`
	Views            ViewStats                        `json:"views"`
	ProjectStatus    []StatusCount                    `json:"project_status"`
	SkillsByCategory []CategoryStats                  `json:"skills_by_category"`
	SkillSummary     derive.Summary                   `json:"skill_summary"`
	Subscribers      newsletter.SubscriberStats       `json:"subscribers"`
	SubscriberGrowth newsletter.Growth                `json:"subscriber_growth"`
	Sources          []newsletter.SourceCount         `json:"sources"`
	Campaigns        []newsletter.CampaignPerformance `json:"campaigns"`
	TopContent       []ContentItem                    `json:"top_content"`
}

// topN bounds the campaign and top content tables.
const topN = 5

// Build derives the report from a snapshot. It is pure: the same snapshot
// and now always give the same report.
func Build(s *Snapshot, now time.Time, days int) Report {
	if days <= 0 {
		days = DefaultDays
	}

	campaigns := newsletter.Performance(s.Campaigns)
	if len(campaigns) > topN {
		campaigns = campaigns[:topN]
	}

	return Report{
		GeneratedAt:      now,
		Days:             days,
		Overview:         overview(s),
		Views:            viewStats(s.Views, now, days),
		ProjectStatus:    projectStatus(s.Projects),
		SkillsByCategory: skillsByCategory(s.Skills),
		SkillSummary: derive.Summarize(s.Skills,
			func(sk models.Skill) models.SkillCategory { return models.NormalizeCategory(string(sk.Category)) },
			func(sk models.Skill) bool { return sk.Proficiency >= 75 }),
		Subscribers:      newsletter.Stats(s.Subscribers),
		SubscriberGrowth: newsletter.SignupGrowth(s.Subscribers, days, now),
		Sources:          newsletter.Sources(s.Subscribers),
		Campaigns:        campaigns,
		TopContent:       topContent(s.Projects, s.Posts, topN),
	}
}

func overview(s *Snapshot) Overview {
	projectViews := func(p models.Project) int { return p.ViewCount }
	projectLikes := func(p models.Project) int { return p.LikeCount }
	postViews := func(p models.Post) int { return p.ViewCount }
	postLikes := func(p models.Post) int { return p.LikeCount }

	published := derive.CountIf(s.Posts, func(p models.Post) bool { return p.IsPublished() })
	return Overview{
		Projects:          len(s.Projects),
		FeaturedProjects:  derive.CountIf(s.Projects, func(p models.Project) bool { return p.Featured }),
		PublishedPosts:    published,
		DraftPosts:        len(s.Posts) - published,
		Skills:            len(s.Skills),
		ActiveSubscribers: derive.CountIf(s.Subscribers, func(sub models.Subscriber) bool { return sub.Status == models.SubscriberActive }),
		UnreadMessages:    derive.CountIf(s.Messages, func(m models.ContactMessage) bool { return !m.IsRead }),
		TotalViews:        derive.Sum(s.Projects, projectViews) + derive.Sum(s.Posts, postViews),
		TotalLikes:        derive.Sum(s.Projects, projectLikes) + derive.Sum(s.Posts, postLikes),
	}
}

// window returns the first and last day of two back-to-back periods of
// days ending on the day of now.
func window(now time.Time, days int) (from, to time.Time) {
	if days <= 0 {
		days = DefaultDays
	}
	to = derive.Day(now)
	return to.AddDate(0, 0, -(2*days - 1)), to
}

func viewStats(rows []models.ViewRow, now time.Time, days int) ViewStats {
	from, to := window(now, days)

	toPoints := func(rows []models.ViewRow) []derive.Point {
		pts := make([]derive.Point, len(rows))
		for i, r := range rows {
			pts[i] = derive.Point{Date: derive.DayKey(r.Day), Count: r.Count}
		}
		return pts
	}

	dense := derive.Densify(toPoints(rows), from, to)
	cur, prev, growth := derive.PeriodOverPeriod(dense, days)

	periodStart := to.AddDate(0, 0, -(days - 1))
	inPeriod := derive.Filter(rows, func(r models.ViewRow) bool { return !derive.Day(r.Day).Before(periodStart) })
	count := func(r models.ViewRow) int { return r.Count }
	ofKind := func(k models.ContentKind) []models.ViewRow {
		return derive.Filter(inPeriod, derive.Equals(k, func(r models.ViewRow) models.ContentKind { return r.Kind }))
	}

	return ViewStats{
		Series:   dense[len(dense)-days:],
		Current:  cur,
		Previous: prev,
		Growth:   growth,
		Projects: derive.Sum(ofKind(models.KindProject), count),
		Posts:    derive.Sum(ofKind(models.KindPost), count),
	}
}

var statusOrder = []models.ProjectStatus{
	models.ProjectStatusPlanning,
	models.ProjectStatusInProgress,
	models.ProjectStatusCompleted,
	models.ProjectStatusMaintenance,
	models.ProjectStatusArchived,
}

// projectStatus counts projects per status, listing every status even
// when empty so the chart legend is stable.
func projectStatus(projects []models.Project) []StatusCount {
	out := make([]StatusCount, len(statusOrder))
	for i, st := range statusOrder {
		n := derive.CountIf(projects, func(p models.Project) bool { return p.Status == st })
		out[i] = StatusCount{Status: string(st), Count: n, Percent: derive.Percentage(n, len(projects))}
	}
	return out
}

func skillsByCategory(skills []models.Skill) []CategoryStats {
	groups := derive.GroupBy(skills, func(s models.Skill) models.SkillCategory {
		return models.NormalizeCategory(string(s.Category))
	})
	stats := derive.GroupStats(groups, func(s models.Skill) int { return s.Proficiency })

	out := make([]CategoryStats, len(groups))
	for i, g := range groups {
		out[i] = CategoryStats{
			Category:           g.Key,
			Color:              g.Key.Color(),
			Count:              stats[i].Count,
			AverageProficiency: stats[i].Average,
		}
	}
	return out
}

func topContent(projects []models.Project, posts []models.Post, n int) []ContentItem {
	items := make([]ContentItem, 0, len(projects)+len(posts))
	for _, p := range projects {
		items = append(items, ContentItem{
			ID: p.ID.String(), Kind: models.KindProject, Title: p.Title, Slug: p.Slug,
			Views: p.ViewCount, Likes: p.LikeCount, CreatedAt: p.CreatedAt,
		})
	}
	for _, p := range posts {
		items = append(items, ContentItem{
			ID: p.ID.String(), Kind: models.KindPost, Title: p.Title, Slug: p.Slug,
			Views: p.ViewCount, Likes: p.LikeCount, CreatedAt: p.CreatedAt,
		})
	}
	items = derive.Sort(items, derive.SortPopular)
	if len(items) > n {
		items = items[:n]
	}
	return items
}
