// Package engine derives progress and achievements from a plan snapshot.
// Every function is pure: no clock reads, no I/O, arguments are never
// modified.
package engine

import "time"

const daysPerWeek = 7

// ResolveWeek maps today onto a zero-based week of the plan. Both dates are
// compared by calendar day only. Before the start it reports week 0; past the
// end it stays on the last week.
func ResolveWeek(startDate time.Time, totalWeeks int, today time.Time) int {
	if totalWeeks < 1 {
		return 0
	}

	start := calendarDay(startDate)
	now := calendarDay(today)

	if now.Before(start) {
		return 0
	}

	days := int(now.Sub(start).Hours() / 24)
	week := days / daysPerWeek

	return min(week, totalWeeks-1)
}

// calendarDay keeps the date as seen in t's own location and drops the rest.
// The result is in UTC so day differences are always multiples of 24h.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
