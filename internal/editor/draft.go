// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor holds the in-memory draft of a project being edited in
// the admin dashboard and knows how to save it.
//
// A draft is a plain value. Every operation returns a new draft and leaves
// the receiver untouched, so the HTTP layer can keep the previous version
// around (or park it in Valkey) without copying.
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"folio/internal/models"
)

// ErrInvalid is wrapped by every validation failure of this package.
var ErrInvalid = errors.New("invalid project")

// ArrayField names one of the repeated sections of a project.
type ArrayField string

const (
	FieldKeyFeatures  ArrayField = "key_features"
	FieldChallenges   ArrayField = "challenges"
	FieldResults      ArrayField = "results"
	FieldGallery      ArrayField = "gallery"
	FieldTechnologies ArrayField = "technologies"
)

// TechnologyRef is a technology association as edited in the form.
type TechnologyRef struct {
	TechnologyID     uuid.UUID               `json:"technology_id"`
	ProficiencyLevel models.ProficiencyLevel `json:"proficiency_level"`
	IsPrimary        bool                    `json:"is_primary"`
}

// ProjectDraft is the editable form state of a project. ID is nil until
// the project has been created.
type ProjectDraft struct {
	ID            *uuid.UUID           `json:"id,omitempty"`
	Title         string               `json:"title"`
	Slug          string               `json:"slug"`
	Summary       string               `json:"summary"`
	Description   string               `json:"description"`
	CategoryID    *uuid.UUID           `json:"category_id,omitempty"`
	Status        models.ProjectStatus `json:"status"`
	CoverImageURL string               `json:"cover_image_url"`
	DemoURL       string               `json:"demo_url"`
	RepoURL       string               `json:"repo_url"`
	Featured      bool                 `json:"featured"`
	Priority      int                  `json:"priority"`
	IsPublic      bool                 `json:"is_public"`
	IsActive      bool                 `json:"is_active"`

	KeyFeatures  []models.KeyFeature   `json:"key_features"`
	Challenges   []models.Challenge    `json:"challenges"`
	Results      []models.Result       `json:"results"`
	Gallery      []models.GalleryImage `json:"gallery"`
	Technologies []TechnologyRef       `json:"technologies"`
}

// NewDraft returns the blank form shown for a new project.
func NewDraft() ProjectDraft {
	return ProjectDraft{
		Status:   models.ProjectStatusPlanning,
		IsPublic: true,
		IsActive: true,
	}
}

// FromProject loads an existing project into a draft.
func FromProject(p *models.Project) ProjectDraft {
	id := p.ID
	d := ProjectDraft{
		ID:            &id,
		Title:         p.Title,
		Slug:          p.Slug,
		Summary:       p.Summary,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		Status:        p.Status,
		CoverImageURL: deref(p.CoverImageURL),
		DemoURL:       deref(p.DemoURL),
		RepoURL:       deref(p.RepoURL),
		Featured:      p.Featured,
		Priority:      p.Priority,
		IsPublic:      p.IsPublic,
		IsActive:      p.IsActive,
		KeyFeatures:   slices.Clone(p.KeyFeatures),
		Challenges:    slices.Clone(p.Challenges),
		Results:       slices.Clone(p.Results),
		Gallery:       slices.Clone(p.Gallery),
	}
	for _, pt := range p.Technologies {
		d.Technologies = append(d.Technologies, TechnologyRef{
			TechnologyID:     pt.TechnologyID,
			ProficiencyLevel: pt.ProficiencyLevel,
			IsPrimary:        pt.IsPrimary,
		})
	}
	return d
}

// IsNew reports whether saving the draft creates a project.
func (d ProjectDraft) IsNew() bool {
	return d.ID == nil
}

// AddItem appends a blank entry to field.
func (d ProjectDraft) AddItem(field ArrayField) (ProjectDraft, error) {
	switch field {
	case FieldKeyFeatures:
		d.KeyFeatures = appendItem(d.KeyFeatures, models.KeyFeature{})
	case FieldChallenges:
		d.Challenges = appendItem(d.Challenges, models.Challenge{})
	case FieldResults:
		d.Results = appendItem(d.Results, models.Result{})
	case FieldGallery:
		d.Gallery = appendItem(d.Gallery, models.GalleryImage{})
	case FieldTechnologies:
		d.Technologies = appendItem(d.Technologies, TechnologyRef{ProficiencyLevel: models.LevelIntermediate})
	default:
		return d, unknownField(field)
	}
	return d, nil
}

// RemoveItem drops the entry at index; later entries shift down by one.
func (d ProjectDraft) RemoveItem(field ArrayField, index int) (ProjectDraft, error) {
	var err error
	switch field {
	case FieldKeyFeatures:
		d.KeyFeatures, err = removeAt(d.KeyFeatures, field, index)
	case FieldChallenges:
		d.Challenges, err = removeAt(d.Challenges, field, index)
	case FieldResults:
		d.Results, err = removeAt(d.Results, field, index)
	case FieldGallery:
		d.Gallery, err = removeAt(d.Gallery, field, index)
	case FieldTechnologies:
		d.Technologies, err = removeAt(d.Technologies, field, index)
	default:
		return d, unknownField(field)
	}
	return d, err
}

// UpdateItem replaces one key of the entry at index. value must be a
// string, except for is_primary (bool) and technology_id (string or UUID).
func (d ProjectDraft) UpdateItem(field ArrayField, index int, key string, value any) (ProjectDraft, error) {
	var err error
	switch field {
	case FieldKeyFeatures:
		d.KeyFeatures, err = updateAt(d.KeyFeatures, field, index, func(it *models.KeyFeature) error {
			return setString(key, value, map[string]*string{
				"title":       &it.Title,
				"description": &it.Description,
			})
		})
	case FieldChallenges:
		d.Challenges, err = updateAt(d.Challenges, field, index, func(it *models.Challenge) error {
			return setString(key, value, map[string]*string{
				"problem":  &it.Problem,
				"solution": &it.Solution,
			})
		})
	case FieldResults:
		d.Results, err = updateAt(d.Results, field, index, func(it *models.Result) error {
			return setString(key, value, map[string]*string{
				"metric":      &it.Metric,
				"value":       &it.Value,
				"description": &it.Description,
			})
		})
	case FieldGallery:
		d.Gallery, err = updateAt(d.Gallery, field, index, func(it *models.GalleryImage) error {
			return setString(key, value, map[string]*string{
				"url":       &it.URL,
				"thumb_url": &it.ThumbURL,
				"caption":   &it.Caption,
			})
		})
	case FieldTechnologies:
		d.Technologies, err = updateAt(d.Technologies, field, index, func(it *TechnologyRef) error {
			return it.set(key, value)
		})
	default:
		return d, unknownField(field)
	}
	return d, err
}

func (t *TechnologyRef) set(key string, value any) error {
	switch key {
	case "technology_id":
		id, err := toUUID(value)
		if err != nil {
			return err
		}
		t.TechnologyID = id
	case "proficiency_level":
		s, ok := value.(string)
		if !ok {
			return typeError(key, "string", value)
		}
		level := models.ProficiencyLevel(strings.ToLower(strings.TrimSpace(s)))
		if !level.Valid() {
			return fmt.Errorf("%w: unknown proficiency level %q", ErrInvalid, s)
		}
		t.ProficiencyLevel = level
	case "is_primary":
		b, ok := value.(bool)
		if !ok {
			return typeError(key, "bool", value)
		}
		t.IsPrimary = b
	default:
		return fmt.Errorf("%w: technologies have no field %q", ErrInvalid, key)
	}
	return nil
}

// SetField updates one top-level field by its JSON name.
func (d ProjectDraft) SetField(key string, value any) (ProjectDraft, error) {
	strs := map[string]*string{
		"title":           &d.Title,
		"slug":            &d.Slug,
		"summary":         &d.Summary,
		"description":     &d.Description,
		"cover_image_url": &d.CoverImageURL,
		"demo_url":        &d.DemoURL,
		"repo_url":        &d.RepoURL,
	}
	bools := map[string]*bool{
		"featured":  &d.Featured,
		"is_public": &d.IsPublic,
		"is_active": &d.IsActive,
	}

	if _, ok := strs[key]; ok {
		err := setString(key, value, strs)
		return d, err
	}
	if dst, ok := bools[key]; ok {
		b, ok := value.(bool)
		if !ok {
			return d, typeError(key, "bool", value)
		}
		*dst = b
		return d, nil
	}

	switch key {
	case "status":
		s, ok := value.(string)
		if !ok {
			return d, typeError(key, "string", value)
		}
		status := models.ProjectStatus(s)
		if !status.Valid() {
			return d, fmt.Errorf("%w: unknown status %q", ErrInvalid, s)
		}
		d.Status = status
	case "priority":
		n, err := toInt(value)
		if err != nil {
			return d, typeError(key, "number", value)
		}
		d.Priority = n
	case "category_id":
		if value == nil || value == "" {
			d.CategoryID = nil
			return d, nil
		}
		id, err := toUUID(value)
		if err != nil {
			return d, err
		}
		d.CategoryID = &id
	default:
		return d, fmt.Errorf("%w: unknown field %q", ErrInvalid, key)
	}
	return d, nil
}

// appendItem, removeAt and updateAt never write into the backing array of
// their input.

func appendItem[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func removeAt[T any](s []T, field ArrayField, i int) ([]T, error) {
	if i < 0 || i >= len(s) {
		return s, outOfRange(field, i, len(s))
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...), nil
}

func updateAt[T any](s []T, field ArrayField, i int, set func(*T) error) ([]T, error) {
	if i < 0 || i >= len(s) {
		return s, outOfRange(field, i, len(s))
	}
	out := slices.Clone(s)
	if err := set(&out[i]); err != nil {
		return s, err
	}
	return out, nil
}

func setString(key string, value any, fields map[string]*string) error {
	dst, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: unknown field %q", ErrInvalid, key)
	}
	s, ok := value.(string)
	if !ok {
		return typeError(key, "string", value)
	}
	*dst = s
	return nil
}

func toUUID(value any) (uuid.UUID, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %q is not a valid id", ErrInvalid, v)
		}
		return id, nil
	}
	return uuid.Nil, typeError("id", "string", value)
}

// toInt accepts the numeric types produced by encoding/json and Go callers.
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, errors.New("not an integer")
		}
		return int(v), nil
	}
	return 0, errors.New("not a number")
}

func unknownField(field ArrayField) error {
	return fmt.Errorf("%w: unknown section %q", ErrInvalid, field)
}

func outOfRange(field ArrayField, i, n int) error {
	return fmt.Errorf("%w: %s has no item %d (length %d)", ErrInvalid, field, i, n)
}

func typeError(key, want string, got any) error {
	return fmt.Errorf("%w: %s must be a %s, got %T", ErrInvalid, key, want, got)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
