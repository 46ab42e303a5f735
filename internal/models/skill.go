// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SkillCategory is the closed set of categories used to group skills and
// technologies. Anything outside the set is treated as CategoryOther.
type SkillCategory string

const (
	CategoryFrontend       SkillCategory = "Frontend"
	CategoryBackend        SkillCategory = "Backend"
	CategoryDatabase       SkillCategory = "Database"
	CategoryDevOps         SkillCategory = "DevOps"
	CategoryInfrastructure SkillCategory = "Infrastructure"
	CategoryMobile         SkillCategory = "Mobile"
	CategoryTools          SkillCategory = "Tools"
	CategoryDesign         SkillCategory = "Design"
	CategoryOther          SkillCategory = "Other"
)

// SkillCategories lists every known category in display order.
var SkillCategories = []SkillCategory{
	CategoryFrontend, CategoryBackend, CategoryDatabase, CategoryDevOps,
	CategoryInfrastructure, CategoryMobile, CategoryTools, CategoryDesign,
	CategoryOther,
}

var categoryColors = map[SkillCategory]string{
	CategoryFrontend:       "#3b82f6",
	CategoryBackend:        "#10b981",
	CategoryDatabase:       "#f59e0b",
	CategoryDevOps:         "#8b5cf6",
	CategoryInfrastructure: "#6366f1",
	CategoryMobile:         "#ec4899",
	CategoryTools:          "#64748b",
	CategoryDesign:         "#f43f5e",
	CategoryOther:          "#9ca3af",
}

// ParseCategory matches s case-insensitively against the known categories.
// The second return value is false when s is not one of them.
func ParseCategory(s string) (SkillCategory, bool) {
	s = strings.TrimSpace(s)
	for _, c := range SkillCategories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return CategoryOther, false
}

// NormalizeCategory returns the canonical category for s, falling back to
// CategoryOther for unknown values.
func NormalizeCategory(s string) SkillCategory {
	c, _ := ParseCategory(s)
	return c
}

// Valid reports whether c is one of the known categories.
func (c SkillCategory) Valid() bool {
	_, ok := categoryColors[c]
	return ok
}

// Color returns the chart color for the category.
func (c SkillCategory) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[CategoryOther]
}

// Skill is one entry of the public skills section.
type Skill struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Category       SkillCategory `json:"category"`
	Proficiency    int           `json:"proficiency"`
	Icon           *string       `json:"icon,omitempty"`
	IconURL        *string       `json:"icon_url,omitempty"`
	ShowPercentage bool          `json:"show_percentage"`
	SortOrder      int           `json:"sort_order"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
