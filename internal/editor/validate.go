// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"

	"folio/internal/models"
	"folio/internal/slug"
)

// FieldErrors maps a field name to a human readable problem. It wraps
// ErrInvalid so callers can test with errors.Is.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return "invalid project: " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error { return ErrInvalid }

// Validate checks the draft and returns a normalized copy: trimmed text,
// a slug derived from the title when blank, and defaults for empty enums.
func (d ProjectDraft) Validate() (ProjectDraft, error) {
	errs := FieldErrors{}

	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		errs["title"] = "Title is required"
	} else if len(d.Title) > 200 {
		errs["title"] = "Title must be 200 characters or fewer"
	}

	d.Slug = strings.TrimSpace(d.Slug)
	if d.Slug == "" {
		d.Slug = slug.Generate(d.Title)
	}
	switch {
	case d.Slug == "":
		if _, ok := errs["title"]; !ok {
			errs["slug"] = "Slug is required"
		}
	case slug.Generate(d.Slug) != d.Slug:
		errs["slug"] = "Slug may only contain lowercase letters, digits and hyphens"
	}

	if d.Status == "" {
		d.Status = models.ProjectStatusPlanning
	} else if !d.Status.Valid() {
		errs["status"] = fmt.Sprintf("Unknown status %q", d.Status)
	}

	for field, raw := range map[string]string{
		"cover_image_url": d.CoverImageURL,
		"demo_url":        d.DemoURL,
		"repo_url":        d.RepoURL,
	} {
		if !validURL(raw) {
			errs[field] = "Must be an http(s) URL"
		}
	}

	seen := make(map[uuid.UUID]bool, len(d.Technologies))
	techs := make([]TechnologyRef, len(d.Technologies))
	for i, t := range d.Technologies {
		key := fmt.Sprintf("technologies[%d]", i)
		switch {
		case t.TechnologyID == uuid.Nil:
			errs[key] = "Pick a technology"
		case seen[t.TechnologyID]:
			errs[key] = "Technology is listed twice"
		}
		seen[t.TechnologyID] = true
		if t.ProficiencyLevel == "" {
			t.ProficiencyLevel = models.LevelIntermediate
		} else if !t.ProficiencyLevel.Valid() {
			errs[key] = fmt.Sprintf("Unknown proficiency level %q", t.ProficiencyLevel)
		}
		techs[i] = t
	}
	d.Technologies = techs

	for i, g := range d.Gallery {
		if strings.TrimSpace(g.URL) == "" {
			errs[fmt.Sprintf("gallery[%d]", i)] = "Image URL is required"
		}
	}

	if len(errs) > 0 {
		return d, errs
	}
	return d, nil
}

func validURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
