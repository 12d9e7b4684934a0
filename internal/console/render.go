package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klokku/kalendar/internal/utils"
	"github.com/klokku/kalendar/pkg/appstate"
	"github.com/klokku/kalendar/pkg/event"
	"github.com/klokku/kalendar/pkg/timeslot"
	"github.com/klokku/kalendar/pkg/view"
)

const (
	clockFormat = "15:04"
	dayFormat   = "Mon Jan 2"
	barGlyph    = "#"
)

// RenderAgenda writes the state's current view: a month grid followed by the selected day,
// or one slot listing per day for the time-grid views.
func RenderAgenda(w io.Writer, s appstate.State) error {
	var b strings.Builder
	b.WriteString(view.Title(s.View, s.SelectedDate, s.WeekStart))
	b.WriteString("\n\n")

	if s.View == view.Month {
		renderMonth(&b, s)
	} else {
		renderColumns(&b, s)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderMonth(b *strings.Builder, s appstate.State) {
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(s.WeekStart) + i) % 7)
		fmt.Fprintf(b, " %s ", wd.String()[:3])
	}
	b.WriteString("\n")

	visible := s.VisibleEvents()
	days := s.Range().Days()
	for i, day := range days {
		b.WriteString(monthCell(day, s.SelectedDate, visible))
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	renderDayList(b, s.SelectedDate, visible)
}

func monthCell(day, selected time.Time, events []event.Event) string {
	marker := " "
	if len(timeslot.EventsOn(day, events)) > 0 {
		marker = "*"
	}
	if utils.SameDate(day, selected) {
		return fmt.Sprintf("[%2d]%s", day.Day(), marker)
	}
	if day.Month() != selected.Month() {
		return fmt.Sprintf("(%2d)%s", day.Day(), marker)
	}
	return fmt.Sprintf(" %2d %s", day.Day(), marker)
}

func renderDayList(b *strings.Builder, day time.Time, events []event.Event) {
	fmt.Fprintf(b, "%s\n", day.Format(dayFormat))
	dayEvents := timeslot.EventsOn(day, events)
	if len(dayEvents) == 0 {
		b.WriteString("  no events\n")
		return
	}
	for _, ev := range dayEvents {
		writeEventLine(b, ev, day.Location())
	}
}

func renderColumns(b *strings.Builder, s appstate.State) {
	columns := timeslot.BucketRange(s.Range().Days(), s.VisibleEvents())
	for i, column := range columns {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "%s\n", column.Day.Format(dayFormat))
		empty := true
		for _, slot := range column.Slots {
			for _, ev := range slot.Events {
				writeEventLine(b, ev, column.Day.Location())
				empty = false
			}
		}
		if empty {
			b.WriteString("  no events\n")
		}
	}
}

func writeEventLine(b *strings.Builder, ev event.Event, loc *time.Location) {
	fmt.Fprintf(b, "  %s-%s  %s %s\n",
		ev.Start.In(loc).Format(clockFormat),
		ev.End.In(loc).Format(clockFormat),
		bar(ev),
		ev.Title,
	)
}

// bar draws one glyph per quarter hour of the event's length.
func bar(ev event.Event) string {
	quarters := timeslot.Height(ev) / timeslot.PixelsPerSlot
	if quarters < 1 {
		quarters = 1
	}
	return strings.Repeat(barGlyph, quarters)
}
