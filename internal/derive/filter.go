// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package derive reshapes collections loaded in bulk from the store into
// presentation-ready structures: filtered and sorted lists, category groups,
// statistics roll-ups and gap-filled daily series.
//
// Every function is pure. Inputs are never mutated and results are freshly
// allocated, so callers can share the loaded collections between requests.
package derive

import "strings"

// Predicate reports whether an item passes a filter. A nil Predicate is an
// unset filter and lets everything through.
type Predicate[T any] func(T) bool

// Filter returns the items accepted by every non-nil predicate. The result
// is always a new slice, even when no predicate is active.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	active := preds[:0:0]
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchAll(item, active) {
			out = append(out, item)
		}
	}
	return out
}

func matchAll[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

// And combines predicates into one. Nil predicates are skipped; if all are
// nil the result is nil as well.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	active := preds[:0:0]
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(item T) bool { return matchAll(item, active) }
}

// Contains matches items where any of the given text fields contains query,
// ignoring case. An empty or blank query yields a nil (unset) predicate.
func Contains[T any](query string, fields ...func(T) string) Predicate[T] {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(fields) == 0 {
		return nil
	}
	return func(item T) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f(item)), q) {
				return true
			}
		}
		return false
	}
}

// Equals matches items whose field equals want. The zero value of V means
// "no filter" and yields a nil predicate.
func Equals[T any, V comparable](want V, get func(T) V) Predicate[T] {
	var zero V
	if want == zero {
		return nil
	}
	return func(item T) bool { return get(item) == want }
}

// Flag matches items whose boolean field equals *want. A nil want is unset.
func Flag[T any](want *bool, get func(T) bool) Predicate[T] {
	if want == nil {
		return nil
	}
	w := *want
	return func(item T) bool { return get(item) == w }
}
