// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package newsletter

import (
	"cmp"
	"slices"
	"time"

	"folio/internal/derive"
	"folio/internal/models"
)

// CampaignRates are the delivery ratios of a campaign, in whole percent of
// total recipients.
type CampaignRates struct {
	OpenRate        int `json:"open_rate"`
	ClickRate       int `json:"click_rate"`
	ClickToOpenRate int `json:"click_to_open_rate"`
	BounceRate      int `json:"bounce_rate"`
	ComplaintRate   int `json:"complaint_rate"`
	UnsubscribeRate int `json:"unsubscribe_rate"`
}

// Rates computes the ratios of c. A campaign without recipients has all
// rates at zero.
func Rates(c models.Campaign) CampaignRates {
	n := c.TotalRecipients
	return CampaignRates{
		OpenRate:        derive.Percentage(c.TotalOpened, n),
		ClickRate:       derive.Percentage(c.TotalClicked, n),
		ClickToOpenRate: derive.Percentage(c.TotalClicked, c.TotalOpened),
		BounceRate:      derive.Percentage(c.TotalBounced, n),
		ComplaintRate:   derive.Percentage(c.TotalComplained, n),
		UnsubscribeRate: derive.Percentage(c.TotalUnsubscribed, n),
	}
}

// CampaignPerformance is one row of the campaign comparison table.
type CampaignPerformance struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	SentAt     *time.Time            `json:"sent_at,omitempty"`
	Recipients int                   `json:"recipients"`
	Rates      CampaignRates         `json:"rates"`
	Status     models.CampaignStatus `json:"status"`
}

// Performance lists sent campaigns, most recent first.
func Performance(campaigns []models.Campaign) []CampaignPerformance {
	sent := derive.Filter(campaigns, derive.Equals(models.CampaignSent, func(c models.Campaign) models.CampaignStatus {
		return c.Status
	}))
	slices.SortStableFunc(sent, func(a, b models.Campaign) int {
		return cmp.Compare(sentUnix(b), sentUnix(a))
	})

	out := make([]CampaignPerformance, len(sent))
	for i, c := range sent {
		out[i] = CampaignPerformance{
			ID:         c.ID.String(),
			Name:       c.Name,
			SentAt:     c.SentAt,
			Recipients: c.TotalRecipients,
			Rates:      Rates(c),
			Status:     c.Status,
		}
	}
	return out
}

func sentUnix(c models.Campaign) int64 {
	if c.SentAt == nil {
		return 0
	}
	return c.SentAt.Unix()
}

// SubscriberStats summarizes the subscriber list.
type SubscriberStats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Unsubscribed   int `json:"unsubscribed"`
	Bounced        int `json:"bounced"`
	Complained     int `json:"complained"`
	Sources        int `json:"sources"`
	ActiveRate     int `json:"active_rate"`
	EngagementRate int `json:"engagement_rate"`
}

// Stats counts subscribers by status. The engagement rate is the share of
// active subscribers that opened or clicked at least one email.
func Stats(subs []models.Subscriber) SubscriberStats {
	byStatus := func(s models.SubscriberStatus) int {
		return derive.CountIf(subs, func(sub models.Subscriber) bool { return sub.Status == s })
	}
	active := derive.Filter(subs, func(s models.Subscriber) bool { return s.Status == models.SubscriberActive })
	engaged := derive.CountIf(active, func(s models.Subscriber) bool {
		return s.EmailOpenCount > 0 || s.EmailClickCount > 0
	})

	st := SubscriberStats{
		Total:        len(subs),
		Active:       len(active),
		Unsubscribed: byStatus(models.SubscriberUnsubscribed),
		Bounced:      byStatus(models.SubscriberBounced),
		Complained:   byStatus(models.SubscriberComplained),
		Sources:      derive.Distinct(subs, sourceOf),
	}
	st.ActiveRate = derive.Percentage(st.Active, st.Total)
	st.EngagementRate = derive.Percentage(engaged, st.Active)
	return st
}

// SourceCount is one slice of the signup source breakdown.
type SourceCount struct {
	Source  string `json:"source"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// Sources breaks subscribers down by signup source, largest first. Ties
// keep first-seen order.
func Sources(subs []models.Subscriber) []SourceCount {
	groups := derive.GroupBy(subs, sourceOf)
	out := make([]SourceCount, len(groups))
	for i, g := range groups {
		out[i] = SourceCount{
			Source:  g.Key,
			Count:   len(g.Items),
			Percent: derive.Percentage(len(g.Items), len(subs)),
		}
	}
	slices.SortStableFunc(out, func(a, b SourceCount) int { return b.Count - a.Count })
	return out
}

func sourceOf(s models.Subscriber) string {
	if s.Source == "" {
		return "unknown"
	}
	return s.Source
}

// Growth is the signup series of a period and its change against the
// period of the same length just before it.
type Growth struct {
	Series   []derive.Point `json:"series"`
	Current  int            `json:"current"`
	Previous int            `json:"previous"`
	Percent  int            `json:"percent"`
}

// MaxGrowthDays caps the window of SignupGrowth.
const MaxGrowthDays = 366

// SignupGrowth returns daily signups over the days ending at now, gap
// filled, and the growth against the preceding days. days is capped at
// MaxGrowthDays.
func SignupGrowth(subs []models.Subscriber, days int, now time.Time) Growth {
	if days <= 0 {
		return Growth{}
	}
	days = min(days, MaxGrowthDays)
	end := derive.Day(now)
	start := end.AddDate(0, 0, -(2*days - 1))

	times := make([]time.Time, len(subs))
	for i, s := range subs {
		times[i] = s.SubscribedAt
	}
	dense := derive.Densify(derive.Bucket(times), start, end)
	cur, prev, pct := derive.PeriodOverPeriod(dense, days)

	return Growth{
		Series:   dense[len(dense)-days:],
		Current:  cur,
		Previous: prev,
		Percent:  pct,
	}
}
