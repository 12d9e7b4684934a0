package appstate

import (
	"sort"
	"time"

	"github.com/klokku/kalendar/pkg/assistant"
	"github.com/klokku/kalendar/pkg/event"
	"github.com/klokku/kalendar/pkg/view"
)

// DraftDuration is the length of an event opened by clicking an empty time slot.
const DraftDuration = time.Hour

type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

type ChatMessage struct {
	Author  Author
	Text    string
	Success bool
}

type State struct {
	SelectedDate time.Time
	View         view.Mode
	WeekStart    time.Weekday
	Events       []event.Event
	ChatBusy     bool
	Messages     []ChatMessage
}

// New returns the state shown on start-up: month view on today with the assistant greeting.
func New(today time.Time, weekStart time.Weekday) State {
	return State{
		SelectedDate: today,
		View:         view.Month,
		WeekStart:    weekStart,
		Events:       []event.Event{},
		Messages: []ChatMessage{
			{Author: AuthorAssistant, Text: assistant.Greeting, Success: true},
		},
	}
}

func (s State) Range() view.DateRange {
	return view.Range(s.View, s.SelectedDate, s.WeekStart)
}

// VisibleEvents returns the events starting inside the current range.
func (s State) VisibleEvents() []event.Event {
	r := s.Range()
	result := make([]event.Event, 0)
	for _, ev := range s.Events {
		if r.Contains(ev.Start) {
			result = append(result, ev)
		}
	}
	return result
}

type Action interface {
	isAction()
}

type SelectDate struct{ Date time.Time }
type SetView struct{ Mode view.Mode }
type Navigate struct{ Direction view.Direction }
type JumpToday struct{ Now time.Time }
type EventsLoaded struct{ Events []event.Event }
type EventAdded struct{ Event event.Event }
type EventUpdated struct{ Event event.Event }
type EventRemoved struct{ ID string }
type ChatSubmitted struct{ Text string }
type ChatReplied struct{ Reply assistant.Reply }

// ChatRejected undoes a ChatSubmitted the session refused. StillBusy tells whether an
// earlier message is still being answered.
type ChatRejected struct{ StillBusy bool }

func (SelectDate) isAction()    {}
func (SetView) isAction()       {}
func (Navigate) isAction()      {}
func (JumpToday) isAction()     {}
func (EventsLoaded) isAction()  {}
func (EventAdded) isAction()    {}
func (EventUpdated) isAction()  {}
func (EventRemoved) isAction()  {}
func (ChatSubmitted) isAction() {}
func (ChatReplied) isAction()   {}
func (ChatRejected) isAction()  {}

// Reduce returns the state after applying action. It never modifies s.
func Reduce(s State, action Action) State {
	next := s
	next.Events = append([]event.Event(nil), s.Events...)
	next.Messages = append([]ChatMessage(nil), s.Messages...)

	switch a := action.(type) {
	case SelectDate:
		next.SelectedDate = a.Date
		// picking a day in the month grid opens that day
		if s.View == view.Month {
			next.View = view.Day
		}
	case SetView:
		next.View = a.Mode
	case Navigate:
		next.SelectedDate = view.Navigate(s.View, s.SelectedDate, a.Direction)
	case JumpToday:
		next.SelectedDate = a.Now
	case EventsLoaded:
		next.Events = append([]event.Event(nil), a.Events...)
		sortByStart(next.Events)
	case EventAdded:
		next.Events = append(next.Events, a.Event)
		sortByStart(next.Events)
	case EventUpdated:
		for i := range next.Events {
			if next.Events[i].ID == a.Event.ID {
				next.Events[i] = a.Event
			}
		}
		sortByStart(next.Events)
	case EventRemoved:
		kept := next.Events[:0]
		for _, ev := range next.Events {
			if ev.ID != a.ID {
				kept = append(kept, ev)
			}
		}
		next.Events = kept
	case ChatSubmitted:
		next.ChatBusy = true
		next.Messages = append(next.Messages, ChatMessage{Author: AuthorUser, Text: a.Text, Success: true})
	case ChatReplied:
		next.ChatBusy = false
		next.Messages = append(next.Messages, ChatMessage{Author: AuthorAssistant, Text: a.Reply.Text, Success: a.Reply.Success})
	case ChatRejected:
		next.ChatBusy = a.StillBusy
		if last := len(next.Messages) - 1; last >= 0 && next.Messages[last].Author == AuthorUser {
			next.Messages = next.Messages[:last]
		}
	}
	return next
}

// NewDraftAt opens a draft for an empty time slot starting at slotStart.
func NewDraftAt(slotStart time.Time) event.Draft {
	return event.Draft{
		Start: slotStart,
		End:   slotStart.Add(DraftDuration),
		Color: event.DefaultColor,
	}
}

func sortByStart(events []event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
