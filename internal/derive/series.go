// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package derive

import (
	"sort"
	"time"
)

// DateLayout is the calendar-day format used by Point.Date.
const DateLayout = "2006-01-02"

// Zone is the reference time zone every calendar day is computed in.
var Zone = time.UTC

// Point is one day of a date-keyed count series.
type Point struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Day truncates t to midnight of its calendar day in Zone.
func Day(t time.Time) time.Time {
	y, m, d := t.In(Zone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Zone)
}

// DayKey formats t as the calendar day it falls on in Zone.
func DayKey(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// Densify expands a sparse series into one point per calendar day from
// start to end inclusive, ascending, with missing days counted as zero.
// Points outside the range are dropped and points sharing a day are summed.
// Dates that fail to parse are ignored. An end before start gives nil.
func Densify(sparse []Point, start, end time.Time) []Point {
	from, to := Day(start), Day(end)
	if to.Before(from) {
		return nil
	}

	counts := make(map[string]int, len(sparse))
	for _, p := range sparse {
		t, err := time.ParseInLocation(DateLayout, p.Date, Zone)
		if err != nil {
			continue
		}
		counts[t.Format(DateLayout)] += p.Count
	}

	var out []Point
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(DateLayout)
		out = append(out, Point{Date: key, Count: counts[key]})
	}
	return out
}

// Bucket turns timestamps into a sparse daily series, one point per day
// that has at least one event, sorted by date.
func Bucket(times []time.Time) []Point {
	counts := make(map[string]int)
	for _, t := range times {
		counts[DayKey(t)]++
	}
	out := make([]Point, 0, len(counts))
	for date, n := range counts {
		out = append(out, Point{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Total sums the counts of a series.
func Total(series []Point) int {
	n := 0
	for _, p := range series {
		n += p.Count
	}
	return n
}

// Growth returns the percentage change from previous to current, rounded.
// A zero previous total has no baseline and yields 0.
func Growth(current, previous int) int {
	if previous == 0 {
		return 0
	}
	return Percentage(current-previous, previous)
}

// PeriodOverPeriod compares the last days points of a dense series with the
// days points just before them. It returns both totals and the growth. When
// the series is shorter than 2*days the previous period is whatever remains.
func PeriodOverPeriod(series []Point, days int) (current, previous, growth int) {
	if days <= 0 || len(series) == 0 {
		return 0, 0, 0
	}
	split := max(len(series)-days, 0)
	current = Total(series[split:])
	previous = Total(series[max(split-days, 0):split])
	return current, previous, Growth(current, previous)
}
