// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package derive

import "strconv"

// Proficiency tiers, from lowest to highest.
const (
	TierBeginner     = "Beginner"
	TierIntermediate = "Intermediate"
	TierAdvanced     = "Advanced"
	TierExpert       = "Expert"
	TierMaster       = "Master"
)

// Tier maps a 0-100 proficiency to its label. Each tier includes its lower
// bound: 40 is Intermediate, 90 is Master.
func Tier(proficiency int) string {
	switch {
	case proficiency < 40:
		return TierBeginner
	case proficiency < 60:
		return TierIntermediate
	case proficiency < 75:
		return TierAdvanced
	case proficiency < 90:
		return TierExpert
	default:
		return TierMaster
	}
}

// ProficiencyLabel renders a proficiency either as an exact percentage or
// as its tier, never both.
func ProficiencyLabel(proficiency int, showPercentage bool) string {
	if showPercentage {
		return strconv.Itoa(ClampPercent(proficiency)) + "%"
	}
	return Tier(proficiency)
}

// ClampPercent bounds p to 0..100.
func ClampPercent(p int) int {
	return min(max(p, 0), 100)
}
