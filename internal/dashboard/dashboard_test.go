package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
)

var now = time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

type listFunc[T any] func(context.Context) ([]T, error)

func (f listFunc[T]) List(ctx context.Context) ([]T, error) { return f(ctx) }

func static[T any](items ...T) listFunc[T] {
	return func(context.Context) ([]T, error) { return items, nil }
}

type viewRange func(ctx context.Context, from, to time.Time) ([]models.ViewRow, error)

func (f viewRange) Range(ctx context.Context, from, to time.Time) ([]models.ViewRow, error) {
	return f(ctx, from, to)
}

func testSources() Sources {
	return Sources{
		Skills:      static(models.Skill{Name: "Go", Category: models.CategoryBackend, Proficiency: 90}),
		Projects:    static(models.Project{Title: "Folio", Status: models.ProjectStatusCompleted}),
		Posts:       static[models.Post](),
		Subscribers: static[models.Subscriber](),
		Campaigns:   static[models.Campaign](),
		Messages:    static[models.ContactMessage](),
		Views: viewRange(func(_ context.Context, from, to time.Time) ([]models.ViewRow, error) {
			return []models.ViewRow{{Kind: models.KindProject, Day: to, Count: 4}}, nil
		}),
	}
}

func TestFetch(t *testing.T) {
	var gotFrom, gotTo time.Time
	src := testSources()
	src.Views = viewRange(func(_ context.Context, from, to time.Time) ([]models.ViewRow, error) {
		gotFrom, gotTo = from, to
		return nil, nil
	})

	snap, err := NewFetcher(src).Fetch(context.Background(), now, 30)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(snap.Skills) != 1 || len(snap.Projects) != 1 {
		t.Errorf("snapshot = %d skills, %d projects, want 1 and 1", len(snap.Skills), len(snap.Projects))
	}
	wantTo := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	if !gotTo.Equal(wantTo) {
		t.Errorf("views to = %v, want %v", gotTo, wantTo)
	}
	if want := wantTo.AddDate(0, 0, -59); !gotFrom.Equal(want) {
		t.Errorf("views from = %v, want %v", gotFrom, want)
	}
}

func TestFetchError(t *testing.T) {
	boom := errors.New("connection refused")
	src := testSources()
	src.Posts = listFunc[models.Post](func(context.Context) ([]models.Post, error) { return nil, boom })

	_, err := NewFetcher(src).Fetch(context.Background(), now, 30)
	if !errors.Is(err, boom) {
		t.Fatalf("Fetch error = %v, want wrapped %v", err, boom)
	}
}

func TestBuildOverview(t *testing.T) {
	pub := daysAgo(2)
	snap := &Snapshot{
		Projects: []models.Project{
			{Title: "A", Featured: true, ViewCount: 100, LikeCount: 5},
			{Title: "B", ViewCount: 10},
		},
		Posts: []models.Post{
			{Title: "P1", Status: models.PostStatusPublished, PublishedAt: &pub, ViewCount: 40, LikeCount: 2},
			{Title: "P2", Status: models.PostStatusDraft},
		},
		Skills: []models.Skill{{Name: "Go"}},
		Subscribers: []models.Subscriber{
			{Email: "a@example.com", Status: models.SubscriberActive},
			{Email: "b@example.com", Status: models.SubscriberUnsubscribed},
		},
		Messages: []models.ContactMessage{{IsRead: false}, {IsRead: true}, {IsRead: false}},
	}

	got := Build(snap, now, 30).Overview
	want := Overview{
		Projects:          2,
		FeaturedProjects:  1,
		PublishedPosts:    1,
		DraftPosts:        1,
		Skills:            1,
		ActiveSubscribers: 1,
		UnreadMessages:    2,
		TotalViews:        150,
		TotalLikes:        7,
	}
	if got != want {
		t.Errorf("Overview = %+v, want %+v", got, want)
	}
}

func TestBuildViews(t *testing.T) {
	snap := &Snapshot{Views: []models.ViewRow{
		{Kind: models.KindProject, Day: daysAgo(0), Count: 10},
		{Kind: models.KindPost, Day: daysAgo(0), Count: 5},
		{Kind: models.KindPost, Day: daysAgo(3), Count: 5},
		{Kind: models.KindProject, Day: daysAgo(40), Count: 10},
	}}

	v := Build(snap, now, 30).Views
	if len(v.Series) != 30 {
		t.Fatalf("series length = %d, want 30", len(v.Series))
	}
	if last := v.Series[29]; last.Date != "2026-03-31" || last.Count != 15 {
		t.Errorf("last point = %+v, want 2026-03-31 with 15", last)
	}
	if v.Current != 20 || v.Previous != 10 || v.Growth != 100 {
		t.Errorf("current/previous/growth = %d/%d/%d, want 20/10/100", v.Current, v.Previous, v.Growth)
	}
	if v.Projects != 10 || v.Posts != 10 {
		t.Errorf("projects/posts = %d/%d, want 10/10", v.Projects, v.Posts)
	}
}

func TestBuildProjectStatus(t *testing.T) {
	snap := &Snapshot{Projects: []models.Project{
		{Status: models.ProjectStatusCompleted},
		{Status: models.ProjectStatusCompleted},
		{Status: models.ProjectStatusInProgress},
		{Status: models.ProjectStatusArchived},
	}}

	got := Build(snap, now, 30).ProjectStatus
	if len(got) != 5 {
		t.Fatalf("got %d statuses, want 5", len(got))
	}
	want := map[string][2]int{
		"planning":    {0, 0},
		"in-progress": {1, 25},
		"completed":   {2, 50},
		"maintenance": {0, 0},
		"archived":    {1, 25},
	}
	for _, sc := range got {
		w := want[sc.Status]
		if sc.Count != w[0] || sc.Percent != w[1] {
			t.Errorf("%s = %d (%d%%), want %d (%d%%)", sc.Status, sc.Count, sc.Percent, w[0], w[1])
		}
	}
}

func TestBuildSkills(t *testing.T) {
	snap := &Snapshot{Skills: []models.Skill{
		{Name: "Go", Category: models.CategoryBackend, Proficiency: 90},
		{Name: "React", Category: models.CategoryFrontend, Proficiency: 70},
		{Name: "Rust", Category: "backend", Proficiency: 61},
		{Name: "Juggling", Category: "circus", Proficiency: 20},
	}}

	r := Build(snap, now, 30)
	if len(r.SkillsByCategory) != 3 {
		t.Fatalf("got %d categories, want 3: %+v", len(r.SkillsByCategory), r.SkillsByCategory)
	}
	be := r.SkillsByCategory[0]
	if be.Category != models.CategoryBackend || be.Count != 2 || be.AverageProficiency != 76 {
		t.Errorf("backend = %+v, want 2 skills averaging 76", be)
	}
	if be.Color != models.CategoryBackend.Color() {
		t.Errorf("backend color = %q", be.Color)
	}
	if other := r.SkillsByCategory[2]; other.Category != models.CategoryOther {
		t.Errorf("third category = %q, want Other", other.Category)
	}
	if s := r.SkillSummary; s.Total != 4 || s.Distinct != 3 || s.Matching != 1 || s.Percent != 25 {
		t.Errorf("SkillSummary = %+v", s)
	}
}

func TestBuildTopContent(t *testing.T) {
	snap := &Snapshot{
		Projects: []models.Project{
			{ID: uuid.New(), Title: "Quiet", ViewCount: 1},
			{ID: uuid.New(), Title: "Popular", ViewCount: 500, LikeCount: 20},
		},
		Posts: []models.Post{
			{ID: uuid.New(), Title: "Viral post", ViewCount: 900},
		},
	}

	top := Build(snap, now, 30).TopContent
	if len(top) != 3 {
		t.Fatalf("got %d items, want 3", len(top))
	}
	if top[0].Title != "Viral post" || top[0].Kind != models.KindPost {
		t.Errorf("top[0] = %+v, want the post", top[0])
	}
	if top[1].Title != "Popular" || top[2].Title != "Quiet" {
		t.Errorf("order = %q, %q", top[1].Title, top[2].Title)
	}
}

func TestBuildDefaultsDays(t *testing.T) {
	r := Build(&Snapshot{}, now, 0)
	if r.Days != DefaultDays || len(r.Views.Series) != DefaultDays {
		t.Errorf("Days = %d, series = %d, want %d", r.Days, len(r.Views.Series), DefaultDays)
	}
}

func TestFeed(t *testing.T) {
	pub := daysAgo(1)
	snap := &Snapshot{
		Messages:    []models.ContactMessage{{ID: uuid.New(), Name: "Ada", Subject: "Hi", CreatedAt: daysAgo(0)}},
		Subscribers: []models.Subscriber{{ID: uuid.New(), Email: "a@example.com", SubscribedAt: daysAgo(3)}},
		Posts: []models.Post{
			{Title: "Live", Slug: "live", Status: models.PostStatusPublished, PublishedAt: &pub},
			{Title: "Draft", Slug: "draft", Status: models.PostStatusDraft},
		},
		Projects: []models.Project{{Title: "Folio", Slug: "folio", CreatedAt: daysAgo(2)}},
	}

	feed := Feed(snap, 10)
	kinds := make([]string, len(feed))
	for i, a := range feed {
		kinds[i] = a.Kind
	}
	want := []string{"message", "post", "project", "subscriber"}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
	if feed[1].Link != "/blog/live" {
		t.Errorf("post link = %q", feed[1].Link)
	}

	if got := Feed(snap, 2); len(got) != 2 {
		t.Errorf("Feed limit 2 returned %d entries", len(got))
	}
}
