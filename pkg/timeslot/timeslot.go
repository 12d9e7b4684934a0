package timeslot

import (
	"sort"
	"time"

	"github.com/klokku/kalendar/internal/utils"
	"github.com/klokku/kalendar/pkg/event"
)

const (
	SlotsPerDay   = 96
	SlotDuration  = 15 * time.Minute
	PixelsPerSlot = 15
)

// Slot is one quarter hour of a day together with the events that start inside it.
type Slot struct {
	Start  time.Time
	Events []event.Event
}

func (s Slot) End() time.Time {
	return s.Start.Add(SlotDuration)
}

func (s Slot) Index() int {
	return SlotIndex(s.Start)
}

// SlotIndex maps a wall-clock time to its quarter-hour slot within the day.
func SlotIndex(t time.Time) int {
	return t.Hour()*4 + t.Minute()/15
}

// Bucket lays out the 96 slots of day and assigns each event to the slot containing its start.
// Events starting on other dates are ignored. Slots are laid out by wall clock in day's
// location, so a DST transition does not change the slot count.
func Bucket(day time.Time, events []event.Event) []Slot {
	midnight := utils.StartOfDay(day)
	slots := make([]Slot, SlotsPerDay)
	for i := range slots {
		slots[i].Start = time.Date(midnight.Year(), midnight.Month(), midnight.Day(), i/4, (i%4)*15, 0, 0, midnight.Location())
	}

	for _, ev := range events {
		start := ev.Start.In(midnight.Location())
		if !utils.SameDate(start, midnight) {
			continue
		}
		idx := SlotIndex(start)
		slots[idx].Events = append(slots[idx].Events, ev)
	}
	return slots
}

// Height is the rendered height of an event in pixels, PixelsPerSlot for every 15 minutes.
// An event that ends before it starts has no height.
func Height(ev event.Event) int {
	minutes := int(ev.End.Sub(ev.Start) / time.Minute)
	if minutes <= 0 {
		return 0
	}
	return minutes * PixelsPerSlot / int(SlotDuration/time.Minute)
}

// Column is one day of a multi-day grid.
type Column struct {
	Day   time.Time
	Slots []Slot
}

// BucketRange builds one column per day, in the order given.
func BucketRange(days []time.Time, events []event.Event) []Column {
	columns := make([]Column, 0, len(days))
	for _, day := range days {
		columns = append(columns, Column{
			Day:   day,
			Slots: Bucket(day, events),
		})
	}
	return columns
}

// EventsOn returns the events starting on day's date, ordered by start.
func EventsOn(day time.Time, events []event.Event) []event.Event {
	result := make([]event.Event, 0)
	for _, ev := range events {
		if utils.SameDate(ev.Start, day) {
			result = append(result, ev)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	return result
}
