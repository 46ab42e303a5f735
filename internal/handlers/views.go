// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"folio/internal/derive"
	"folio/internal/icons"
	"folio/internal/models"
)

// skillView is a skill as listed: its label is either the percentage or
// the tier name, never both.
type skillView struct {
	models.Skill
	Label   string    `json:"label"`
	Tier    string    `json:"tier"`
	IconRef icons.Ref `json:"icon_ref"`
}

type skillGroup struct {
	Category           models.SkillCategory `json:"category"`
	Color              string               `json:"color"`
	Count              int                  `json:"count"`
	AverageProficiency int                  `json:"average_proficiency"`
	Skills             []skillView          `json:"skills"`
}

type skillsResponse struct {
	Groups  []skillGroup   `json:"groups"`
	Summary derive.Summary `json:"summary"`
}

// expertThreshold is the proficiency counted as expert in skill summaries.
const expertThreshold = 75

// groupSkills groups skills by category in the order the store returned
// them (category, then proficiency descending).
func groupSkills(skills []models.Skill, resolver *icons.Resolver) skillsResponse {
	category := func(s models.Skill) models.SkillCategory {
		return models.NormalizeCategory(string(s.Category))
	}
	groups := derive.GroupBy(skills, category)

	out := make([]skillGroup, 0, len(groups))
	for _, g := range groups {
		views := make([]skillView, len(g.Items))
		for i, s := range g.Items {
			views[i] = skillView{
				Skill:   s,
				Label:   derive.ProficiencyLabel(s.Proficiency, s.ShowPercentage),
				Tier:    derive.Tier(s.Proficiency),
				IconRef: resolver.ResolveSkill(s),
			}
		}
		out = append(out, skillGroup{
			Category:           g.Key,
			Color:              g.Key.Color(),
			Count:              len(g.Items),
			AverageProficiency: derive.Average(g.Items, func(s models.Skill) int { return s.Proficiency }),
			Skills:             views,
		})
	}

	return skillsResponse{
		Groups: out,
		Summary: derive.Summarize(skills, category,
			func(s models.Skill) bool { return s.Proficiency >= expertThreshold }),
	}
}

type technologyView struct {
	models.Technology
	IconRef icons.Ref `json:"icon_ref"`
}

func technologyViews(techs []models.Technology, resolver *icons.Resolver) []technologyView {
	out := make([]technologyView, len(techs))
	for i, t := range techs {
		out[i] = technologyView{Technology: t, IconRef: resolver.ResolveTechnology(t)}
	}
	return out
}
