package view

import (
	"fmt"
	"time"

	"github.com/klokku/kalendar/internal/utils"
)

type Mode string

const (
	Month    Mode = "month"
	Week     Mode = "week"
	ThreeDay Mode = "3day"
	Day      Mode = "day"
)

var Modes = []Mode{Month, Week, ThreeDay, Day}

var ErrUnknownMode = fmt.Errorf("unknown view mode")

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// DateRange is a run of whole days. Start is inclusive, End exclusive, both at local midnight.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Len() int {
	n := 0
	for d := r.Start; d.Before(r.End); d = utils.AddDays(d, 1) {
		n++
	}
	return n
}

func (r DateRange) Days() []time.Time {
	days := make([]time.Time, 0, r.Len())
	for d := r.Start; d.Before(r.End); d = utils.AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) Contains(t time.Time) bool {
	t = t.In(r.Start.Location())
	return !t.Before(r.Start) && t.Before(r.End)
}

// Range returns the days displayed by mode around the reference date.
func Range(mode Mode, ref time.Time, weekStart time.Weekday) DateRange {
	day := utils.StartOfDay(ref)
	switch mode {
	case Month:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		last := time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location())
		return DateRange{
			Start: utils.StartOfWeek(first, weekStart),
			End:   utils.EndOfWeek(last, weekStart),
		}
	case Week:
		start := utils.StartOfWeek(day, weekStart)
		return DateRange{Start: start, End: utils.AddDays(start, 7)}
	case ThreeDay:
		return DateRange{Start: day, End: utils.AddDays(day, 3)}
	default:
		return DateRange{Start: day, End: utils.AddDays(day, 1)}
	}
}

// Navigate moves the reference date one view-width forwards or backwards.
// Month steps use calendar normalisation, so Jan 31 + 1 month lands on Mar 3 (or Mar 2).
func Navigate(mode Mode, ref time.Time, dir Direction) time.Time {
	switch mode {
	case Month:
		return ref.AddDate(0, int(dir), 0)
	case Week:
		return utils.AddDays(ref, 7*int(dir))
	case ThreeDay:
		return utils.AddDays(ref, 3*int(dir))
	default:
		return utils.AddDays(ref, int(dir))
	}
}

// Today returns the current moment as seen by clock.
func Today(clock utils.Clock) time.Time {
	return clock.Now()
}

// Title is the heading shown above a range.
func Title(mode Mode, ref time.Time, weekStart time.Weekday) string {
	r := Range(mode, ref, weekStart)
	switch mode {
	case Month:
		return ref.Format("January 2006")
	case Day:
		return ref.Format("Monday, January 2, 2006")
	default:
		last := utils.AddDays(r.End, -1)
		return fmt.Sprintf("%s - %s", r.Start.Format("Jan 2"), last.Format("Jan 2, 2006"))
	}
}
