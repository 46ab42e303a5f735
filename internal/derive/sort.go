// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package derive

import (
	"slices"
	"strings"
	"time"
)

// SortKey selects the ordering of a public listing.
type SortKey string

const (
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortPopular  SortKey = "popular"
	SortPriority SortKey = "priority"
)

// ParseSortKey maps a query parameter to a SortKey, defaulting to newest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortOldest, SortPopular, SortPriority:
		return k
	}
	return SortNewest
}

// Rankable is implemented by records that can be listed with a SortKey.
type Rankable interface {
	CreatedTime() time.Time
	Engagement() int
	PriorityValue() int
}

// Comparator returns a three-way comparison for key. Unknown keys behave
// like SortNewest. Ties compare equal so a stable sort keeps input order.
func Comparator[T Rankable](key SortKey) func(a, b T) int {
	switch key {
	case SortOldest:
		return func(a, b T) int { return a.CreatedTime().Compare(b.CreatedTime()) }
	case SortPopular:
		return func(a, b T) int { return b.Engagement() - a.Engagement() }
	case SortPriority:
		return func(a, b T) int { return b.PriorityValue() - a.PriorityValue() }
	default:
		return func(a, b T) int { return b.CreatedTime().Compare(a.CreatedTime()) }
	}
}

// Sort returns a stably sorted copy of items.
func Sort[T Rankable](items []T, key SortKey) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, Comparator[T](key))
	return out
}
