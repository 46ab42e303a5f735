// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package derive

import "math"

// Group is one bucket produced by GroupBy.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy partitions items by key. Groups appear in the order their key is
// first seen in items, and items keep their relative order inside a group.
func GroupBy[K comparable, T any](items []T, key func(T) K) []Group[K, T] {
	var groups []Group[K, T]
	index := make(map[K]int)
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Average returns the rounded mean of field over items, or 0 for no items.
func Average[T any](items []T, field func(T) int) int {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, item := range items {
		sum += field(item)
	}
	return int(math.Round(float64(sum) / float64(len(items))))
}

// Sum adds field over items.
func Sum[T any](items []T, field func(T) int) int {
	total := 0
	for _, item := range items {
		total += field(item)
	}
	return total
}

// CountIf counts the items accepted by pred.
func CountIf[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// Distinct counts the different values of field across items.
func Distinct[T any, V comparable](items []T, field func(T) V) int {
	seen := make(map[V]struct{})
	for _, item := range items {
		seen[field(item)] = struct{}{}
	}
	return len(seen)
}

// Percentage returns round(part/total*100), or 0 when total is not positive.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Stats is the per-group roll-up shown next to each category.
type Stats struct {
	Count   int `json:"count"`
	Average int `json:"average"`
}

// GroupStats computes Stats for every group, in group order.
func GroupStats[K comparable, T any](groups []Group[K, T], field func(T) int) []Stats {
	out := make([]Stats, len(groups))
	for i, g := range groups {
		out[i] = Stats{Count: len(g.Items), Average: Average(g.Items, field)}
	}
	return out
}

// Summary holds whole-collection statistics.
type Summary struct {
	Total    int `json:"total"`
	Distinct int `json:"distinct"`
	Matching int `json:"matching"`
	Percent  int `json:"percent"`
}

// Summarize counts items, the distinct values of field and the items
// accepted by match, with the matching share as a percentage.
func Summarize[T any, V comparable](items []T, field func(T) V, match func(T) bool) Summary {
	s := Summary{
		Total:    len(items),
		Distinct: Distinct(items, field),
		Matching: CountIf(items, match),
	}
	s.Percent = Percentage(s.Matching, s.Total)
	return s
}
