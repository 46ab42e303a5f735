// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"folio/internal/cache"
	"folio/internal/derive"
	"folio/internal/markdown"
	"folio/internal/models"
	"folio/internal/newsletter"
	"folio/internal/slug"
	"folio/internal/store"
)

// excerptRunes is the length of an excerpt derived from a post body.
const excerptRunes = 200

// saveFailed answers a failed insert or update. Unique constraint
// failures are reported on field.
func saveFailed(w http.ResponseWriter, msg, field string, err error) {
	if store.IsDuplicate(err) {
		writeInvalid(w, map[string]string{field: "Already in use"})
		return
	}
	serverError(w, msg, err)
}

// found writes 404 or 500 unless the lookup produced a record.
func found[T any](w http.ResponseWriter, v *T, err error, msg string, id uuid.UUID) bool {
	if err != nil {
		serverError(w, msg, err, "id", id)
		return false
	}
	if v == nil {
		notFound(w)
		return false
	}
	return true
}

// --- Skills ---

// Skills lists the skills for the editor, grouped by category. q searches
// the name and category narrows to one category.
func (a *Admin) Skills(w http.ResponseWriter, r *http.Request) {
	skills, err := a.Stores.Skills.List(r.Context())
	if err != nil {
		serverError(w, "list skills failed", err)
		return
	}
	writeJSON(w, http.StatusOK, groupSkills(derive.Filter(skills, skillFilters(r)...), a.Resolver))
}

func skillFilters(r *http.Request) []derive.Predicate[models.Skill] {
	q := r.URL.Query()
	var category models.SkillCategory
	if c := strings.TrimSpace(q.Get("category")); c != "" {
		category = models.NormalizeCategory(c)
	}
	return []derive.Predicate[models.Skill]{
		derive.Contains(q.Get("q"), func(s models.Skill) string { return s.Name }),
		derive.Equals(category, func(s models.Skill) models.SkillCategory {
			return models.NormalizeCategory(string(s.Category))
		}),
	}
}

// SkillCreate adds a skill.
func (a *Admin) SkillCreate(w http.ResponseWriter, r *http.Request) {
	var sk models.Skill
	if !decodeJSON(w, r, &sk) {
		return
	}
	if fe := validateSkill(&sk); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	ctx := r.Context()
	created, err := a.Stores.Skills.Create(ctx, &sk)
	if err != nil {
		saveFailed(w, "create skill failed", "name", err)
		return
	}
	a.invalidate(ctx, cache.SectionSkills)
	writeJSON(w, http.StatusCreated, created)
}

// SkillUpdate replaces a skill.
func (a *Admin) SkillUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	existing, err := a.Stores.Skills.FindByID(ctx, id)
	if !found(w, existing, err, "find skill failed", id) {
		return
	}

	var sk models.Skill
	if !decodeJSON(w, r, &sk) {
		return
	}
	sk.ID = id
	if fe := validateSkill(&sk); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	if err := a.Stores.Skills.Update(ctx, &sk); err != nil {
		saveFailed(w, "update skill failed", "name", err)
		return
	}
	a.invalidate(ctx, cache.SectionSkills)
	writeJSON(w, http.StatusOK, sk)
}

// SkillDelete removes a skill and its uploaded icon.
func (a *Admin) SkillDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	sk, err := a.Stores.Skills.FindByID(ctx, id)
	if !found(w, sk, err, "find skill failed", id) {
		return
	}
	if err := a.Stores.Skills.Delete(ctx, id); err != nil {
		serverError(w, "delete skill failed", err, "id", id)
		return
	}
	a.deleteAsset(ctx, sk.IconURL)
	a.invalidate(ctx, cache.SectionSkills)
	w.WriteHeader(http.StatusNoContent)
}

// --- Technologies ---

// Technologies lists all technologies with resolved icons.
func (a *Admin) Technologies(w http.ResponseWriter, r *http.Request) {
	techs, err := a.Stores.Technologies.List(r.Context())
	if err != nil {
		serverError(w, "list technologies failed", err)
		return
	}
	writeJSON(w, http.StatusOK, technologyViews(techs, a.Resolver))
}

// TechnologyCreate adds a technology.
func (a *Admin) TechnologyCreate(w http.ResponseWriter, r *http.Request) {
	var t models.Technology
	if !decodeJSON(w, r, &t) {
		return
	}
	if fe := validateTechnology(&t); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	ctx := r.Context()
	created, err := a.Stores.Technologies.Create(ctx, &t)
	if err != nil {
		saveFailed(w, "create technology failed", "slug", err)
		return
	}
	a.invalidate(ctx, cache.SectionSkills, cache.SectionProjects)
	writeJSON(w, http.StatusCreated, created)
}

// TechnologyUpdate replaces a technology.
func (a *Admin) TechnologyUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	existing, err := a.Stores.Technologies.FindByID(ctx, id)
	if !found(w, existing, err, "find technology failed", id) {
		return
	}

	var t models.Technology
	if !decodeJSON(w, r, &t) {
		return
	}
	t.ID = id
	if fe := validateTechnology(&t); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	if err := a.Stores.Technologies.Update(ctx, &t); err != nil {
		saveFailed(w, "update technology failed", "slug", err)
		return
	}
	a.invalidate(ctx, cache.SectionSkills, cache.SectionProjects)
	writeJSON(w, http.StatusOK, t)
}

// TechnologyDelete removes a technology. Project associations go with it.
func (a *Admin) TechnologyDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	t, err := a.Stores.Technologies.FindByID(ctx, id)
	if !found(w, t, err, "find technology failed", id) {
		return
	}
	if err := a.Stores.Technologies.Delete(ctx, id); err != nil {
		serverError(w, "delete technology failed", err, "id", id)
		return
	}
	a.deleteAsset(ctx, t.IconURL)
	a.invalidate(ctx, cache.SectionSkills, cache.SectionProjects)
	w.WriteHeader(http.StatusNoContent)
}

// --- Categories ---

// Categories lists the project categories with their project counts.
func (a *Admin) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.Stores.Categories.List(r.Context())
	if err != nil {
		serverError(w, "list categories failed", err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// CategoryCreate adds a project category.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var c models.ProjectCategory
	if !decodeJSON(w, r, &c) {
		return
	}
	if fe := validateCategory(&c); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	ctx := r.Context()
	created, err := a.Stores.Categories.Create(ctx, &c)
	if err != nil {
		saveFailed(w, "create category failed", "slug", err)
		return
	}
	a.invalidate(ctx, cache.SectionProjects)
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate replaces a project category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	existing, err := a.Stores.Categories.FindByID(ctx, id)
	if !found(w, existing, err, "find category failed", id) {
		return
	}

	var c models.ProjectCategory
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID = id
	if fe := validateCategory(&c); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	if err := a.Stores.Categories.Update(ctx, &c); err != nil {
		saveFailed(w, "update category failed", "slug", err)
		return
	}
	a.invalidate(ctx, cache.SectionProjects)
	writeJSON(w, http.StatusOK, c)
}

// CategoryDelete removes a category. Its projects become uncategorized.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	c, err := a.Stores.Categories.FindByID(ctx, id)
	if !found(w, c, err, "find category failed", id) {
		return
	}
	if err := a.Stores.Categories.Delete(ctx, id); err != nil {
		serverError(w, "delete category failed", err, "id", id)
		return
	}
	a.invalidate(ctx, cache.SectionProjects)
	w.WriteHeader(http.StatusNoContent)
}

// CategoriesReorder stores a new sort order for the categories.
func (a *Admin) CategoriesReorder(w http.ResponseWriter, r *http.Request) {
	var items []store.ReorderItem
	if !decodeJSON(w, r, &items) {
		return
	}
	ctx := r.Context()
	if err := a.Stores.Categories.Reorder(ctx, items); err != nil {
		serverError(w, "reorder categories failed", err)
		return
	}
	a.invalidate(ctx, cache.SectionProjects)
	w.WriteHeader(http.StatusNoContent)
}

// --- Services ---

// Services lists every service, active or not.
func (a *Admin) Services(w http.ResponseWriter, r *http.Request) {
	services, err := a.Stores.Services.List(r.Context())
	if err != nil {
		serverError(w, "list services failed", err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// ServiceCreate adds a service.
func (a *Admin) ServiceCreate(w http.ResponseWriter, r *http.Request) {
	var svc models.Service
	if !decodeJSON(w, r, &svc) {
		return
	}
	if fe := validateService(&svc); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	ctx := r.Context()
	created, err := a.Stores.Services.Create(ctx, &svc)
	if err != nil {
		saveFailed(w, "create service failed", "slug", err)
		return
	}
	a.invalidate(ctx, cache.SectionServices)
	writeJSON(w, http.StatusCreated, created)
}

// ServiceUpdate replaces a service.
func (a *Admin) ServiceUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	existing, err := a.Stores.Services.FindByID(ctx, id)
	if !found(w, existing, err, "find service failed", id) {
		return
	}

	var svc models.Service
	if !decodeJSON(w, r, &svc) {
		return
	}
	svc.ID = id
	if fe := validateService(&svc); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	if err := a.Stores.Services.Update(ctx, &svc); err != nil {
		saveFailed(w, "update service failed", "slug", err)
		return
	}
	a.invalidate(ctx, cache.SectionServices)
	writeJSON(w, http.StatusOK, svc)
}

// ServiceDelete removes a service.
func (a *Admin) ServiceDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	svc, err := a.Stores.Services.FindByID(ctx, id)
	if !found(w, svc, err, "find service failed", id) {
		return
	}
	if err := a.Stores.Services.Delete(ctx, id); err != nil {
		serverError(w, "delete service failed", err, "id", id)
		return
	}
	a.invalidate(ctx, cache.SectionServices)
	w.WriteHeader(http.StatusNoContent)
}

// --- Posts ---

// Posts lists every post including drafts.
func (a *Admin) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.Stores.Posts.List(r.Context())
	if err != nil {
		serverError(w, "list posts failed", err)
		return
	}
	preds := append(postFilters(r),
		derive.Equals(models.PostStatus(r.URL.Query().Get("status")), func(p models.Post) models.PostStatus { return p.Status }))
	writeJSON(w, http.StatusOK, derive.Filter(posts, preds...))
}

// Post returns one post with its rendered preview.
func (a *Admin) Post(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	p, err := a.Stores.Posts.FindByID(r.Context(), id)
	if !found(w, p, err, "find post failed", id) {
		return
	}
	html, err := markdown.ToHTML(p.Body)
	if err != nil {
		serverError(w, "render post failed", err, "id", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": p, "html": html})
}

// preparePost validates p and fills the derived fields: a unique slug,
// the reading time and an excerpt when none was written.
func (a *Admin) preparePost(ctx context.Context, p *models.Post) (fieldErrors, error) {
	explicit := p.Slug != ""
	if fe := validatePost(p); !fe.empty() {
		return fe, nil
	}

	taken := func(s string) (bool, error) { return a.Stores.Posts.SlugExists(ctx, s, p.ID) }
	if explicit {
		used, err := taken(p.Slug)
		if err != nil {
			return nil, err
		}
		if used {
			return fieldErrors{"slug": "Slug is already used by another post"}, nil
		}
	} else {
		s, err := slug.Unique(p.Slug, taken)
		if err != nil {
			return nil, err
		}
		p.Slug = s
	}

	p.ReadingTime = markdown.ReadingMinutes(p.Body)
	if p.Excerpt == "" {
		p.Excerpt = markdown.Excerpt(p.Body, excerptRunes)
	}
	return nil, nil
}

// PostCreate adds a post.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var p models.Post
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = uuid.Nil

	ctx := r.Context()
	fe, err := a.preparePost(ctx, &p)
	if err != nil {
		serverError(w, "prepare post failed", err)
		return
	}
	if fe != nil {
		writeInvalid(w, fe)
		return
	}
	created, err := a.Stores.Posts.Create(ctx, &p)
	if err != nil {
		saveFailed(w, "create post failed", "slug", err)
		return
	}
	a.invalidate(ctx, cache.SectionPosts)
	writeJSON(w, http.StatusCreated, created)
}

// PostUpdate replaces a post. Publishing stamps published_at once.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	existing, err := a.Stores.Posts.FindByID(ctx, id)
	if !found(w, existing, err, "find post failed", id) {
		return
	}

	var p models.Post
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = id
	fe, err := a.preparePost(ctx, &p)
	if err != nil {
		serverError(w, "prepare post failed", err, "id", id)
		return
	}
	if fe != nil {
		writeInvalid(w, fe)
		return
	}
	if err := a.Stores.Posts.Update(ctx, &p); err != nil {
		saveFailed(w, "update post failed", "slug", err)
		return
	}

	updated, err := a.Stores.Posts.FindByID(ctx, id)
	if !found(w, updated, err, "reload post failed", id) {
		return
	}
	a.invalidate(ctx, cache.SectionPosts)
	writeJSON(w, http.StatusOK, updated)
}

// PostDelete removes a post and its cover image.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	p, err := a.Stores.Posts.FindByID(ctx, id)
	if !found(w, p, err, "find post failed", id) {
		return
	}
	if err := a.Stores.Posts.Delete(ctx, id); err != nil {
		serverError(w, "delete post failed", err, "id", id)
		return
	}
	a.deleteAsset(ctx, p.CoverImageURL)
	a.invalidate(ctx, cache.SectionPosts)
	w.WriteHeader(http.StatusNoContent)
}

// --- Newsletter ---

// Subscribers lists the subscribers with their lifecycle stats. q searches
// email and name; status and source filter the list. Stats, sources and
// growth always cover the whole list.
func (a *Admin) Subscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := a.Stores.Subscribers.List(r.Context())
	if err != nil {
		serverError(w, "list subscribers failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subscribers": derive.Filter(subs, subscriberFilters(r)...),
		"stats":       newsletter.Stats(subs),
		"sources":     newsletter.Sources(subs),
		"growth":      newsletter.SignupGrowth(subs, reportDays(r), a.now()),
	})
}

func subscriberFilters(r *http.Request) []derive.Predicate[models.Subscriber] {
	q := r.URL.Query()
	return []derive.Predicate[models.Subscriber]{
		derive.Contains(q.Get("q"),
			func(s models.Subscriber) string { return s.Email },
			func(s models.Subscriber) string {
				if s.Name == nil {
					return ""
				}
				return *s.Name
			}),
		derive.Equals(models.SubscriberStatus(q.Get("status")), func(s models.Subscriber) models.SubscriberStatus { return s.Status }),
		derive.Equals(q.Get("source"), func(s models.Subscriber) string { return s.Source }),
	}
}

type statusRequest struct {
	Status models.SubscriberStatus `json:"status"`
}

// SubscriberSetStatus moves a subscriber through its lifecycle. Moving a
// bounced or complained address back to active is allowed here only.
func (a *Admin) SubscriberSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeInvalid(w, map[string]string{"status": "Unknown status"})
		return
	}

	sub, err := a.Newsletter.SetStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, newsletter.ErrNotFound):
		notFound(w)
		return
	case errors.Is(err, newsletter.ErrInvalidTransition):
		writeInvalid(w, map[string]string{"status": err.Error()})
		return
	case err != nil:
		serverError(w, "set subscriber status failed", err, "id", id)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// SubscriberUnsubscribeLink returns the signed unsubscribe link of a
// subscriber, as it would appear in a campaign footer.
func (a *Admin) SubscriberUnsubscribeLink(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	sub, err := a.Stores.Subscribers.FindByID(r.Context(), id)
	if !found(w, sub, err, "find subscriber failed", id) {
		return
	}
	link, err := a.Newsletter.UnsubscribeURL(a.BaseURL, sub.ID)
	if err != nil {
		serverError(w, "issue unsubscribe link failed", err, "id", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

// SubscriberDelete removes a subscriber permanently.
func (a *Admin) SubscriberDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	sub, err := a.Stores.Subscribers.FindByID(ctx, id)
	if !found(w, sub, err, "find subscriber failed", id) {
		return
	}
	if err := a.Stores.Subscribers.Delete(ctx, id); err != nil {
		serverError(w, "delete subscriber failed", err, "id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Campaigns lists campaigns with their delivery rates.
func (a *Admin) Campaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := a.Stores.Campaigns.List(r.Context())
	if err != nil {
		serverError(w, "list campaigns failed", err)
		return
	}
	writeJSON(w, http.StatusOK, newsletter.Performance(campaigns))
}

// Campaign returns one campaign with its rates.
func (a *Admin) Campaign(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	c, err := a.Stores.Campaigns.FindByID(r.Context(), id)
	if !found(w, c, err, "find campaign failed", id) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaign": c,
		"rates":    newsletter.Rates(*c),
	})
}

// CampaignCreate adds a campaign.
func (a *Admin) CampaignCreate(w http.ResponseWriter, r *http.Request) {
	var c models.Campaign
	if !decodeJSON(w, r, &c) {
		return
	}
	if fe := validateCampaign(&c); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	created, err := a.Stores.Campaigns.Create(r.Context(), &c)
	if err != nil {
		saveFailed(w, "create campaign failed", "name", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CampaignUpdate replaces a campaign. A replaced featured image is removed
// from storage.
func (a *Admin) CampaignUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	existing, err := a.Stores.Campaigns.FindByID(ctx, id)
	if !found(w, existing, err, "find campaign failed", id) {
		return
	}

	var c models.Campaign
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID = id
	if fe := validateCampaign(&c); !fe.empty() {
		writeInvalid(w, fe)
		return
	}
	if err := a.Stores.Campaigns.Update(ctx, &c); err != nil {
		saveFailed(w, "update campaign failed", "name", err)
		return
	}
	if old := existing.FeaturedImageURL; old != nil && (c.FeaturedImageURL == nil || *c.FeaturedImageURL != *old) {
		a.deleteAsset(ctx, old)
	}
	writeJSON(w, http.StatusOK, c)
}

// CampaignDelete removes a campaign. Its featured image is deleted on a
// best-effort basis first.
func (a *Admin) CampaignDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := a.Newsletter.DeleteCampaign(r.Context(), id)
	if errors.Is(err, newsletter.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		serverError(w, "delete campaign failed", err, "id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteAsset removes an uploaded file referenced by a deleted or replaced
// record. Failures are logged and never fail the request.
func (a *Admin) deleteAsset(ctx context.Context, url *string) {
	if a.Assets == nil || url == nil || *url == "" {
		return
	}
	if err := a.Assets.DeleteByURL(ctx, *url); err != nil {
		slog.Warn("asset delete failed", "error", err, "url", *url)
	}
}
