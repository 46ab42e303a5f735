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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/cache"
	"folio/internal/contact"
	"folio/internal/dashboard"
	"folio/internal/derive"
	"folio/internal/icons"
	"folio/internal/markdown"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/newsletter"
	"folio/internal/store"
)

// Refresher asks the dashboard poller to refresh a feed now.
type Refresher interface {
	Trigger(name string) error
}

// Public serves the read side of the portfolio site plus the visitor
// forms (contact, newsletter).
type Public struct {
	stores     *store.Stores
	resolver   *icons.Resolver
	dedupe     *cache.ViewDedupe
	newsletter *newsletter.Service
	captcha    *contact.Verifier
	refresh    Refresher
	now        func() time.Time
}

// NewPublic creates the public handler group. dedupe and refresh may be nil.
func NewPublic(stores *store.Stores, resolver *icons.Resolver, dedupe *cache.ViewDedupe, nl *newsletter.Service, captcha *contact.Verifier, refresh Refresher) *Public {
	return &Public{
		stores:     stores,
		resolver:   resolver,
		dedupe:     dedupe,
		newsletter: nl,
		captcha:    captcha,
		refresh:    refresh,
		now:        time.Now,
	}
}

// About returns the about-me singleton.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	about, err := p.stores.Settings.About(r.Context())
	if err != nil {
		serverError(w, "load about failed", err)
		return
	}
	writeJSON(w, http.StatusOK, about)
}

// ContactInfo returns the contact details singleton and the selectable
// phone countries of the contact form.
func (p *Public) ContactInfo(w http.ResponseWriter, r *http.Request) {
	info, err := p.stores.Settings.Contact(r.Context())
	if err != nil {
		serverError(w, "load contact info failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contact":   info,
		"countries": contact.Countries,
	})
}

// Services lists the active services.
func (p *Public) Services(w http.ResponseWriter, r *http.Request) {
	services, err := p.stores.Services.ListActive(r.Context())
	if err != nil {
		serverError(w, "list services failed", err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// Skills lists skills grouped by category with labels and icons.
func (p *Public) Skills(w http.ResponseWriter, r *http.Request) {
	skills, err := p.stores.Skills.List(r.Context())
	if err != nil {
		serverError(w, "list skills failed", err)
		return
	}
	writeJSON(w, http.StatusOK, groupSkills(skills, p.resolver))
}

// Technologies lists every technology with its resolved icon.
func (p *Public) Technologies(w http.ResponseWriter, r *http.Request) {
	techs, err := p.stores.Technologies.List(r.Context())
	if err != nil {
		serverError(w, "list technologies failed", err)
		return
	}
	writeJSON(w, http.StatusOK, technologyViews(techs, p.resolver))
}

// Categories lists the project categories.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := p.stores.Categories.List(r.Context())
	if err != nil {
		serverError(w, "list categories failed", err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// projectFilters builds the listing predicates from the query string:
// q (title, summary, description), category (slug), status, technology
// (slug) and featured.
func projectFilters(r *http.Request) []derive.Predicate[models.Project] {
	q := r.URL.Query()
	return []derive.Predicate[models.Project]{
		derive.Contains(q.Get("q"),
			func(p models.Project) string { return p.Title },
			func(p models.Project) string { return p.Summary },
			func(p models.Project) string { return p.Description }),
		derive.Equals(q.Get("category"), func(p models.Project) string {
			if p.Category == nil {
				return ""
			}
			return p.Category.Slug
		}),
		derive.Equals(models.ProjectStatus(q.Get("status")), func(p models.Project) models.ProjectStatus { return p.Status }),
		usesTechnology(q.Get("technology")),
		derive.Flag(queryBool(r, "featured"), func(p models.Project) bool { return p.Featured }),
	}
}

func usesTechnology(slug string) derive.Predicate[models.Project] {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}
	return func(p models.Project) bool {
		for _, t := range p.Technologies {
			if t.Technology != nil && t.Technology.Slug == slug {
				return true
			}
		}
		return false
	}
}

// Projects lists the public projects, filtered and sorted by the query.
func (p *Public) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := p.stores.Projects.ListPublic(r.Context())
	if err != nil {
		serverError(w, "list projects failed", err)
		return
	}
	projects = derive.Filter(projects, projectFilters(r)...)
	projects = derive.Sort(projects, derive.ParseSortKey(r.URL.Query().Get("sort")))
	writeJSON(w, http.StatusOK, projects)
}

// Project returns one public project by slug and counts the view.
func (p *Public) Project(w http.ResponseWriter, r *http.Request) {
	project, err := p.stores.Projects.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "find project failed", err)
		return
	}
	if project == nil {
		notFound(w)
		return
	}
	p.recordView(r, models.KindProject, project.ID)
	writeJSON(w, http.StatusOK, project)
}

// LikeProject increments a project's like counter.
func (p *Public) LikeProject(w http.ResponseWriter, r *http.Request) {
	p.like(w, r, p.stores.Projects.Like)
}

func postFilters(r *http.Request) []derive.Predicate[models.Post] {
	q := r.URL.Query()
	var tag derive.Predicate[models.Post]
	if t := strings.TrimSpace(q.Get("tag")); t != "" {
		tag = func(p models.Post) bool { return p.HasTag(t) }
	}
	return []derive.Predicate[models.Post]{
		derive.Contains(q.Get("q"),
			func(p models.Post) string { return p.Title },
			func(p models.Post) string { return p.Excerpt },
			func(p models.Post) string { return p.Body }),
		tag,
		derive.Flag(queryBool(r, "featured"), func(p models.Post) bool { return p.Featured }),
	}
}

// Posts lists published posts, filtered and sorted by the query.
func (p *Public) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := p.stores.Posts.ListPublished(r.Context())
	if err != nil {
		serverError(w, "list posts failed", err)
		return
	}
	posts = derive.Filter(posts, postFilters(r)...)
	posts = derive.Sort(posts, derive.ParseSortKey(r.URL.Query().Get("sort")))
	writeJSON(w, http.StatusOK, posts)
}

// Post returns one published post with its body rendered to HTML.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	post, err := p.stores.Posts.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "find post failed", err)
		return
	}
	if post == nil {
		notFound(w)
		return
	}

	html, err := markdown.ToHTML(post.Body)
	if err != nil {
		serverError(w, "render post failed", err, "post_id", post.ID)
		return
	}
	p.recordView(r, models.KindPost, post.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"post": post,
		"html": html,
	})
}

// LikePost increments a post's like counter.
func (p *Public) LikePost(w http.ResponseWriter, r *http.Request) {
	p.like(w, r, p.stores.Posts.Like)
}

func (p *Public) like(w http.ResponseWriter, r *http.Request, like func(context.Context, uuid.UUID) (int, error)) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	count, err := like(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		serverError(w, "like failed", err, "id", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"like_count": count})
}

// recordView counts a view once per visitor per day. Failures are logged
// and never fail the page.
func (p *Public) recordView(r *http.Request, kind models.ContentKind, id uuid.UUID) {
	ctx := r.Context()
	now := p.now()
	if p.dedupe != nil {
		visitor := middleware.ClientIP(r) + "|" + r.UserAgent()
		first, err := p.dedupe.First(ctx, kind, id, visitor, now)
		if err != nil {
			slog.Warn("view dedupe failed", "error", err, "kind", kind, "id", id)
		} else if !first {
			return
		}
	}
	if err := p.stores.Views.Record(ctx, kind, id, now); err != nil {
		slog.Warn("record view failed", "error", err, "kind", kind, "id", id)
	}
}

// SubmitContact validates and stores a contact form submission.
func (p *Public) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var form contact.Form
	if !decodeJSON(w, r, &form) {
		return
	}

	if err := form.Validate(p.captcha.Enabled()); err != nil {
		var verrs contact.ValidationErrors
		if errors.As(err, &verrs) {
			writeInvalid(w, verrs)
			return
		}
		serverError(w, "validate contact form failed", err)
		return
	}

	ctx := r.Context()
	if err := p.captcha.Verify(ctx, form.CaptchaToken, middleware.ClientIP(r)); err != nil {
		if errors.Is(err, contact.ErrCaptchaFailed) {
			writeInvalid(w, map[string]string{"captcha": "Captcha verification failed"})
			return
		}
		serverError(w, "captcha verification failed", err)
		return
	}

	msg, err := p.stores.Messages.Create(ctx, form.ToMessage())
	if err != nil {
		serverError(w, "save contact message failed", err)
		return
	}

	link := "/admin/messages/" + msg.ID.String()
	p.notify(ctx, &models.Notification{
		Kind:  "message",
		Title: "New message from " + msg.Name,
		Body:  msg.Subject,
		Link:  &link,
	})

	if form.Subscribe {
		if _, _, err := p.newsletter.Subscribe(ctx, msg.Email, msg.Name, "contact-form"); err != nil {
			slog.Warn("subscribe from contact form failed", "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": msg.ID})
}

type subscribeRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Subscribe adds an address to the newsletter. Answers 201 when the
// subscriber was created or reactivated, 200 when already active and 409
// for a bounced or complained address.
func (p *Public) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Source == "" {
		req.Source = "website"
	}

	ctx := r.Context()
	sub, changed, err := p.newsletter.Subscribe(ctx, req.Email, req.Name, req.Source)
	switch {
	case errors.Is(err, newsletter.ErrInvalidEmail):
		writeInvalid(w, map[string]string{"email": "Enter a valid email address"})
		return
	case errors.Is(err, newsletter.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "this address can no longer receive email")
		return
	case err != nil:
		serverError(w, "subscribe failed", err)
		return
	}

	status := http.StatusOK
	if changed {
		status = http.StatusCreated
		p.notify(ctx, &models.Notification{
			Kind:  "subscriber",
			Title: "New subscriber",
			Body:  sub.Email,
		})
	}
	writeJSON(w, status, map[string]any{"status": sub.Status})
}

// Unsubscribe resolves the token of an unsubscribe link.
func (p *Public) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	sub, err := p.newsletter.Unsubscribe(r.Context(), token)
	switch {
	case errors.Is(err, newsletter.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, "invalid or expired unsubscribe link")
		return
	case errors.Is(err, newsletter.ErrNotFound):
		notFound(w)
		return
	case errors.Is(err, newsletter.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "this address can no longer receive email")
		return
	case err != nil:
		serverError(w, "unsubscribe failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": sub.Status})
}

// notify stores an admin notification and asks for an immediate
// dashboard refresh. Failures are logged only.
func (p *Public) notify(ctx context.Context, n *models.Notification) {
	if _, err := p.stores.Notifications.Create(ctx, n); err != nil {
		slog.Warn("create notification failed", "error", err, "kind", n.Kind)
		return
	}
	if p.refresh != nil {
		if err := p.refresh.Trigger(dashboard.TaskNotifications); err != nil {
			slog.Warn("notification refresh failed", "error", err)
		}
	}
}
