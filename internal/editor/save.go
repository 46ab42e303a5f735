// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/models"
	"folio/internal/slug"
)

// Writer is the persistence the save path needs. CreateProject returns the
// stored project with its generated ID.
type Writer interface {
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	ReplaceTechnologies(ctx context.Context, projectID uuid.UUID, techs []models.ProjectTechnology) error
}

// AtomicWriter is implemented by writers that can store the project and
// its associations in one transaction. A zero p.ID means create.
type AtomicWriter interface {
	SaveProjectAtomic(ctx context.Context, p *models.Project, techs []models.ProjectTechnology) (*models.Project, error)
}

// SlugChecker is implemented by writers that can tell whether a slug is
// already used by a project other than exclude.
type SlugChecker interface {
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
}

// PartialSaveError reports that the project record was written but its
// technology associations were not. Project is the saved record, so the
// caller can retry just the association step with ReplaceTechnologies.
type PartialSaveError struct {
	Project *models.Project
	Err     error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("project %s saved but technologies were not: %v", e.Project.ID, e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }

// Project converts the draft into the record written to the store. The
// draft should have been validated first.
func (d ProjectDraft) Project() *models.Project {
	p := &models.Project{
		Title:         d.Title,
		Slug:          d.Slug,
		Summary:       d.Summary,
		Description:   d.Description,
		CategoryID:    d.CategoryID,
		Status:        d.Status,
		CoverImageURL: ptr(d.CoverImageURL),
		DemoURL:       ptr(d.DemoURL),
		RepoURL:       ptr(d.RepoURL),
		Featured:      d.Featured,
		Priority:      d.Priority,
		IsPublic:      d.IsPublic,
		IsActive:      d.IsActive,
		KeyFeatures:   nonNil(d.KeyFeatures),
		Challenges:    nonNil(d.Challenges),
		Results:       nonNil(d.Results),
		Gallery:       nonNil(d.Gallery),
	}
	if d.ID != nil {
		p.ID = *d.ID
	}
	return p
}

// Associations returns the join rows for projectID in draft order. The
// position in the form becomes the display order.
func (d ProjectDraft) Associations(projectID uuid.UUID) []models.ProjectTechnology {
	rows := make([]models.ProjectTechnology, len(d.Technologies))
	for i, t := range d.Technologies {
		rows[i] = models.ProjectTechnology{
			ProjectID:        projectID,
			TechnologyID:     t.TechnologyID,
			ProficiencyLevel: t.ProficiencyLevel,
			IsPrimary:        t.IsPrimary,
			DisplayOrder:     i,
		}
	}
	return rows
}

// Save validates the draft and writes it. New drafts are created, existing
// ones updated; either way the association rows are replaced wholesale.
//
// When w implements AtomicWriter both steps share one transaction.
// Otherwise the project is written first and a failure while replacing the
// associations is returned as *PartialSaveError. A failure of the first
// step never touches the associations.
func Save(ctx context.Context, w Writer, d ProjectDraft) (*models.Project, error) {
	d, err := d.Validate()
	if err != nil {
		return nil, err
	}

	if sc, ok := w.(SlugChecker); ok {
		if d, err = ensureSlug(ctx, sc, d); err != nil {
			return nil, err
		}
	}

	p := d.Project()

	if aw, ok := w.(AtomicWriter); ok {
		saved, err := aw.SaveProjectAtomic(ctx, p, d.Associations(p.ID))
		if err != nil {
			return nil, fmt.Errorf("save project: %w", err)
		}
		return saved, nil
	}

	if d.IsNew() {
		created, err := w.CreateProject(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("create project: %w", err)
		}
		p = created
	} else if err := w.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	if err := w.ReplaceTechnologies(ctx, p.ID, d.Associations(p.ID)); err != nil {
		return p, &PartialSaveError{Project: p, Err: err}
	}
	return p, nil
}

// ensureSlug keeps an explicit slug only if it is free and suffixes a slug
// derived from the title until it is.
func ensureSlug(ctx context.Context, sc SlugChecker, d ProjectDraft) (ProjectDraft, error) {
	var exclude uuid.UUID
	if d.ID != nil {
		exclude = *d.ID
	}
	taken := func(s string) (bool, error) { return sc.SlugExists(ctx, s, exclude) }

	if d.Slug != slug.Generate(d.Title) {
		used, err := taken(d.Slug)
		if err != nil {
			return d, fmt.Errorf("check project slug: %w", err)
		}
		if used {
			return d, FieldErrors{"slug": "Slug is already used by another project"}
		}
		return d, nil
	}

	s, err := slug.Unique(d.Slug, taken)
	if err != nil {
		return d, fmt.Errorf("check project slug: %w", err)
	}
	d.Slug = s
	return d, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
