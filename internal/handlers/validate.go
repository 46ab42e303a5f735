// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"folio/internal/derive"
	"folio/internal/models"
	"folio/internal/slug"
)

// Validation limits for admin-edited records.
const (
	maxNameLen    = 100
	maxTitleLen   = 200
	maxSlugLen    = 200
	maxExcerptLen = 500
	maxBodyLen    = 100_000
	maxDescLen    = 5_000
	maxTagCount   = 20
)

// fieldErrors collects one message per invalid field.
type fieldErrors map[string]string

// text trims *v and checks it is present (when required) and at most max runes.
func (fe fieldErrors) text(field string, v *string, required bool, max int) {
	*v = strings.TrimSpace(*v)
	switch {
	case required && *v == "":
		fe[field] = "Required"
	case utf8.RuneCountInString(*v) > max:
		fe[field] = fmt.Sprintf("Must be %d characters or fewer", max)
	}
}

// slug fills *v from source when blank and checks its format.
func (fe fieldErrors) slug(field string, v *string, source string) {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		*v = slug.Generate(source)
	}
	switch {
	case *v == "":
		fe[field] = "Required"
	case utf8.RuneCountInString(*v) > maxSlugLen:
		fe[field] = fmt.Sprintf("Must be %d characters or fewer", maxSlugLen)
	case slug.Generate(*v) != *v:
		fe[field] = "May only contain lowercase letters, digits and hyphens"
	}
}

// url checks an optional http(s) URL.
func (fe fieldErrors) url(field string, v *string) {
	if v == nil {
		return
	}
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return
	}
	u, err := url.Parse(*v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fe[field] = "Must be an http(s) URL"
	}
}

func (fe fieldErrors) empty() bool { return len(fe) == 0 }

// emptyToNil clears optional text fields that were sent blank.
func emptyToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

func validateSkill(s *models.Skill) fieldErrors {
	fe := fieldErrors{}
	fe.text("name", &s.Name, true, maxNameLen)
	if c, ok := models.ParseCategory(string(s.Category)); ok {
		s.Category = c
	} else if s.Category == "" {
		s.Category = models.CategoryOther
	} else {
		fe["category"] = fmt.Sprintf("Unknown category %q", s.Category)
	}
	if s.Proficiency < 0 || s.Proficiency > 100 {
		fe["proficiency"] = "Must be between 0 and 100"
	}
	s.Proficiency = derive.ClampPercent(s.Proficiency)
	s.Icon = emptyToNil(s.Icon)
	s.IconURL = emptyToNil(s.IconURL)
	fe.url("icon_url", s.IconURL)
	return fe
}

func validateTechnology(t *models.Technology) fieldErrors {
	fe := fieldErrors{}
	fe.text("name", &t.Name, true, maxNameLen)
	fe.slug("slug", &t.Slug, t.Name)
	t.Category = models.NormalizeCategory(string(t.Category))
	t.Icon = emptyToNil(t.Icon)
	t.IconURL = emptyToNil(t.IconURL)
	fe.url("icon_url", t.IconURL)
	return fe
}

func validateCategory(c *models.ProjectCategory) fieldErrors {
	fe := fieldErrors{}
	fe.text("name", &c.Name, true, maxNameLen)
	fe.slug("slug", &c.Slug, c.Name)
	fe.text("description", &c.Description, false, maxDescLen)
	c.Color = strings.TrimSpace(c.Color)
	if c.Color != "" && !isHexColor(c.Color) {
		fe["color"] = "Must be a #rrggbb color"
	}
	return fe
}

func validateService(s *models.Service) fieldErrors {
	fe := fieldErrors{}
	fe.text("title", &s.Title, true, maxTitleLen)
	fe.slug("slug", &s.Slug, s.Title)
	fe.text("description", &s.Description, true, maxDescLen)
	s.Icon = emptyToNil(s.Icon)
	if s.PriceFrom != nil && *s.PriceFrom < 0 {
		fe["price_from"] = "Must not be negative"
	}
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		s.Currency = "EUR"
	} else if len(s.Currency) != 3 {
		fe["currency"] = "Must be a 3 letter currency code"
	}
	s.Features = compact(s.Features)
	return fe
}

func validatePost(p *models.Post) fieldErrors {
	fe := fieldErrors{}
	fe.text("title", &p.Title, true, maxTitleLen)
	fe.slug("slug", &p.Slug, p.Title)
	fe.text("excerpt", &p.Excerpt, false, maxExcerptLen)
	if utf8.RuneCountInString(p.Body) > maxBodyLen {
		fe["body"] = fmt.Sprintf("Must be %d characters or fewer", maxBodyLen)
	}
	switch p.Status {
	case "":
		p.Status = models.PostStatusDraft
	case models.PostStatusDraft, models.PostStatusPublished:
	default:
		fe["status"] = fmt.Sprintf("Unknown status %q", p.Status)
	}
	p.CoverImageURL = emptyToNil(p.CoverImageURL)
	fe.url("cover_image_url", p.CoverImageURL)
	p.Tags = compact(p.Tags)
	if len(p.Tags) > maxTagCount {
		fe["tags"] = fmt.Sprintf("At most %d tags", maxTagCount)
	}
	return fe
}

func validateCampaign(c *models.Campaign) fieldErrors {
	fe := fieldErrors{}
	fe.text("name", &c.Name, true, maxTitleLen)
	fe.text("subject", &c.Subject, true, maxTitleLen)
	fe.text("preview_text", &c.PreviewText, false, maxExcerptLen)
	if utf8.RuneCountInString(c.Body) > maxBodyLen {
		fe["body"] = fmt.Sprintf("Must be %d characters or fewer", maxBodyLen)
	}
	if c.Status == "" {
		c.Status = models.CampaignDraft
	} else if !c.Status.Valid() {
		fe["status"] = fmt.Sprintf("Unknown status %q", c.Status)
	}
	if c.Status == models.CampaignScheduled && c.ScheduledAt == nil {
		fe["scheduled_at"] = "Required for a scheduled campaign"
	}
	c.FeaturedImageURL = emptyToNil(c.FeaturedImageURL)
	fe.url("featured_image_url", c.FeaturedImageURL)
	return fe
}

func validateAbout(a *models.About) fieldErrors {
	fe := fieldErrors{}
	fe.text("name", &a.Name, true, maxNameLen)
	fe.text("headline", &a.Headline, false, maxTitleLen)
	fe.text("bio", &a.Bio, false, maxDescLen)
	fe.url("avatar_url", &a.AvatarURL)
	fe.url("resume_url", &a.ResumeURL)
	for i := range a.Socials {
		fe.url(fmt.Sprintf("socials[%d]", i), &a.Socials[i].URL)
	}
	return fe
}

func validateContactInfo(c *models.ContactInfo) fieldErrors {
	fe := fieldErrors{}
	fe.text("email", &c.Email, true, maxTitleLen)
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		fe["email"] = "Must be an email address"
	}
	for i := range c.Socials {
		fe.url(fmt.Sprintf("socials[%d]", i), &c.Socials[i].URL)
	}
	return fe
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// compact trims entries and drops blanks and duplicates, keeping order.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}
