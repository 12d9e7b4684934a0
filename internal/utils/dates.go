package utils

import "time"

// StartOfDay returns local midnight of t's calendar date, in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date once a is moved to b's location.
func SameDate(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// StartOfWeek returns midnight of the most recent weekStart on or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	diff := (int(t.Weekday()) - int(weekStart) + 7) % 7
	day := StartOfDay(t)
	return time.Date(day.Year(), day.Month(), day.Day()-diff, 0, 0, 0, 0, t.Location())
}

// EndOfWeek returns midnight of the day after the last day of t's week (exclusive bound).
func EndOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	start := StartOfWeek(t, weekStart)
	return time.Date(start.Year(), start.Month(), start.Day()+7, 0, 0, 0, 0, t.Location())
}

func AddDays(t time.Time, days int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+days, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
