package agenda

import (
	"time"

	"fieldops/internal/model"
)

// Classify maps a days-remaining value to an urgency tier. Anything already
// overdue (negative) is CRITICAL.
func Classify(daysRemaining int) model.UrgencyTier {
	switch {
	case daysRemaining <= 3:
		return model.UrgencyCritical
	case daysRemaining <= 7:
		return model.UrgencyHigh
	case daysRemaining <= 15:
		return model.UrgencyMedium
	default:
		return model.UrgencyNormal
	}
}

// DaysRemaining is the ceiling of (due - today) in whole days. today must
// already be truncated to midnight; due today yields 0, due yesterday -1.
func DaysRemaining(due, today time.Time) int {
	d := due.Sub(today)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Midnight truncates t to 00:00 in loc. The calendar zone is injected rather
// than assumed UTC; deployments configure it to the zone dispatch plans in.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WeekStart returns the Monday 00:00 of the week containing day (day must be
// a midnight value).
func WeekStart(day time.Time) time.Time {
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

// MonthBounds returns the first day of day's month at 00:00 and the last
// calendar day at 23:59:59. The inclusive end is intentional: the month
// window, unlike the day/week windows, closes on its final second.
func MonthBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}
