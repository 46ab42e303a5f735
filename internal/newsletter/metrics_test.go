package newsletter

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
)

func TestRates(t *testing.T) {
	c := models.Campaign{
		TotalRecipients:   200,
		TotalOpened:       90,
		TotalClicked:      30,
		TotalBounced:      4,
		TotalComplained:   1,
		TotalUnsubscribed: 3,
	}
	want := CampaignRates{
		OpenRate:        45,
		ClickRate:       15,
		ClickToOpenRate: 33,
		BounceRate:      2,
		ComplaintRate:   1,
		UnsubscribeRate: 2,
	}
	if got := Rates(c); got != want {
		t.Errorf("Rates() = %+v, want %+v", got, want)
	}

	if got := Rates(models.Campaign{}); got != (CampaignRates{}) {
		t.Errorf("Rates(empty) = %+v, want zeros", got)
	}
}

func TestPerformanceOnlySentNewestFirst(t *testing.T) {
	older := t0
	newer := t0.Add(24 * time.Hour)
	campaigns := []models.Campaign{
		{ID: uuid.New(), Name: "draft", Status: models.CampaignDraft},
		{ID: uuid.New(), Name: "march", Status: models.CampaignSent, SentAt: &older, TotalRecipients: 10, TotalOpened: 5},
		{ID: uuid.New(), Name: "april", Status: models.CampaignSent, SentAt: &newer},
	}

	got := Performance(campaigns)
	if len(got) != 2 || got[0].Name != "april" || got[1].Name != "march" {
		t.Fatalf("Performance() = %+v", got)
	}
	if got[1].Rates.OpenRate != 50 {
		t.Errorf("march open rate = %d, want 50", got[1].Rates.OpenRate)
	}
	if campaigns[1].Name != "march" {
		t.Error("Performance must not reorder its input")
	}
}

func TestStats(t *testing.T) {
	subs := []models.Subscriber{
		{Status: models.SubscriberActive, Source: "footer", EmailOpenCount: 2},
		{Status: models.SubscriberActive, Source: "footer"},
		{Status: models.SubscriberActive, Source: "blog", EmailClickCount: 1},
		{Status: models.SubscriberUnsubscribed, Source: "blog"},
		{Status: models.SubscriberBounced},
	}
	want := SubscriberStats{
		Total:          5,
		Active:         3,
		Unsubscribed:   1,
		Bounced:        1,
		Complained:     0,
		Sources:        3,
		ActiveRate:     60,
		EngagementRate: 67,
	}
	if got := Stats(subs); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
	if got := Stats(nil); got != (SubscriberStats{}) {
		t.Errorf("Stats(nil) = %+v, want zeros", got)
	}
}

func TestSources(t *testing.T) {
	subs := []models.Subscriber{
		{Source: "blog"}, {Source: "footer"}, {Source: "footer"}, {Source: ""},
	}
	got := Sources(subs)
	want := []SourceCount{{"footer", 2, 50}, {"blog", 1, 25}, {"unknown", 1, 25}}
	if len(got) != len(want) {
		t.Fatalf("Sources() = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sources()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSignupGrowth(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 3, d, 9, 0, 0, 0, time.UTC) }

	subs := []models.Subscriber{
		// previous 3-day window: Mar 5..7
		{SubscribedAt: day(5)},
		{SubscribedAt: day(6)},
		// current 3-day window: Mar 8..10
		{SubscribedAt: day(8)},
		{SubscribedAt: day(10)},
		{SubscribedAt: day(10)},
		// outside both windows
		{SubscribedAt: day(1)},
	}

	g := SignupGrowth(subs, 3, now)
	if len(g.Series) != 3 || g.Series[0].Date != "2026-03-08" || g.Series[2].Count != 2 {
		t.Errorf("series = %+v", g.Series)
	}
	if g.Current != 3 || g.Previous != 2 || g.Percent != 50 {
		t.Errorf("growth = %d/%d/%d%%, want 3/2/50%%", g.Current, g.Previous, g.Percent)
	}

	if empty := SignupGrowth(nil, 7, now); empty.Percent != 0 || len(empty.Series) != 7 {
		t.Errorf("empty growth = %+v", empty)
	}
}

func TestSignupGrowthCapsWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	for _, days := range []int{MaxGrowthDays + 1, 2_000_000, 1 << 62} {
		g := SignupGrowth(nil, days, now)
		if len(g.Series) != MaxGrowthDays {
			t.Errorf("SignupGrowth(%d days) has %d points, want %d", days, len(g.Series), MaxGrowthDays)
		}
	}
	if g := SignupGrowth(nil, -5, now); len(g.Series) != 0 {
		t.Errorf("negative window gave %d points", len(g.Series))
	}
}
