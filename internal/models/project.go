// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus tracks where a portfolio project is in its lifecycle.
type ProjectStatus string

const (
	ProjectStatusPlanning    ProjectStatus = "planning"
	ProjectStatusInProgress  ProjectStatus = "in-progress"
	ProjectStatusCompleted   ProjectStatus = "completed"
	ProjectStatusMaintenance ProjectStatus = "maintenance"
	ProjectStatusArchived    ProjectStatus = "archived"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted,
		ProjectStatusMaintenance, ProjectStatusArchived:
		return true
	}
	return false
}

// ProficiencyLevel describes how deeply a technology was used in a project.
type ProficiencyLevel string

const (
	LevelBeginner     ProficiencyLevel = "beginner"
	LevelIntermediate ProficiencyLevel = "intermediate"
	LevelAdvanced     ProficiencyLevel = "advanced"
	LevelExpert       ProficiencyLevel = "expert"
)

// Valid reports whether l is a known proficiency level.
func (l ProficiencyLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

// ProjectCategory groups projects on the public portfolio page.
type ProjectCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated by CategoryStore.List.
	ProjectCount int `json:"project_count"`
}

// Technology is a reusable tool or framework that projects reference.
type Technology struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Slug      string        `json:"slug"`
	Category  SkillCategory `json:"category"`
	Icon      *string       `json:"icon,omitempty"`
	IconURL   *string       `json:"icon_url,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// ProjectTechnology is the join row between a project and a technology.
// The rows of a project are owned by it and replaced wholesale on save.
type ProjectTechnology struct {
	ProjectID        uuid.UUID        `json:"project_id"`
	TechnologyID     uuid.UUID        `json:"technology_id"`
	ProficiencyLevel ProficiencyLevel `json:"proficiency_level"`
	IsPrimary        bool             `json:"is_primary"`
	DisplayOrder     int              `json:"display_order"`

	// Populated when the technology is joined in.
	Technology *Technology `json:"technology,omitempty"`
}

// KeyFeature is one highlighted capability of a project.
type KeyFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Challenge pairs a problem faced during a project with how it was solved.
type Challenge struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
}

// Result is a measurable outcome of a project.
type Result struct {
	Metric      string `json:"metric"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// GalleryImage is a screenshot shown on the project detail page.
type GalleryImage struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url,omitempty"`
	Caption  string `json:"caption"`
}

// Project is a portfolio entry.
type Project struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Summary       string         `json:"summary"`
	Description   string         `json:"description"`
	CategoryID    *uuid.UUID     `json:"category_id,omitempty"`
	Status        ProjectStatus  `json:"status"`
	CoverImageURL *string        `json:"cover_image_url,omitempty"`
	DemoURL       *string        `json:"demo_url,omitempty"`
	RepoURL       *string        `json:"repo_url,omitempty"`
	Featured      bool           `json:"featured"`
	Priority      int            `json:"priority"`
	ViewCount     int            `json:"view_count"`
	LikeCount     int            `json:"like_count"`
	IsPublic      bool           `json:"is_public"`
	IsActive      bool           `json:"is_active"`
	KeyFeatures   []KeyFeature   `json:"key_features"`
	Challenges    []Challenge    `json:"challenges"`
	Results       []Result       `json:"results"`
	Gallery       []GalleryImage `json:"gallery"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// Populated by ProjectStore when relations are expanded.
	Category     *ProjectCategory    `json:"category,omitempty"`
	Technologies []ProjectTechnology `json:"technologies"`
}

// CreatedTime, Engagement and PriorityValue let projects be ordered by the
// shared sort comparators.
func (p Project) CreatedTime() time.Time { return p.CreatedAt }

func (p Project) Engagement() int { return p.ViewCount + p.LikeCount }

func (p Project) PriorityValue() int { return p.Priority }

// IsListed reports whether the project is shown on the public site.
func (p *Project) IsListed() bool {
	return p.IsPublic && p.IsActive
}

// CategoryName returns the expanded category name or "" when uncategorized.
func (p Project) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}
