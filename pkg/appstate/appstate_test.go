package appstate

import (
	"testing"
	"time"

	"github.com/klokku/kalendar/pkg/assistant"
	"github.com/klokku/kalendar/pkg/event"
	"github.com/klokku/kalendar/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

func ev(id string, start time.Time) event.Event {
	return event.Event{ID: id, Title: id, Start: start, End: start.Add(time.Hour)}
}

func TestNew(t *testing.T) {
	s := New(today, time.Monday)
	assert.Equal(t, view.Month, s.View)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, assistant.Greeting, s.Messages[0].Text)
	assert.Equal(t, time.Monday, s.Range().Start.Weekday())
}

func TestReduce_Navigation(t *testing.T) {
	t.Run("selecting a date in month view opens the day", func(t *testing.T) {
		picked := today.AddDate(0, 0, 5)
		s := Reduce(New(today, time.Sunday), SelectDate{Date: picked})
		assert.Equal(t, view.Day, s.View)
		assert.Equal(t, picked, s.SelectedDate)
	})

	t.Run("selecting a date in week view keeps the view", func(t *testing.T) {
		s := Reduce(New(today, time.Sunday), SetView{Mode: view.Week})
		s = Reduce(s, SelectDate{Date: today.AddDate(0, 0, 1)})
		assert.Equal(t, view.Week, s.View)
	})

	t.Run("navigate uses the current view width", func(t *testing.T) {
		s := Reduce(New(today, time.Sunday), SetView{Mode: view.ThreeDay})
		s = Reduce(s, Navigate{Direction: view.Next})
		assert.Equal(t, today.AddDate(0, 0, 3), s.SelectedDate)
		s = Reduce(s, Navigate{Direction: view.Previous})
		assert.Equal(t, today, s.SelectedDate)
	})

	t.Run("jump to today keeps the view", func(t *testing.T) {
		s := Reduce(New(today, time.Sunday), SetView{Mode: view.Week})
		s = Reduce(s, Navigate{Direction: view.Next})
		later := today.Add(3 * time.Hour)
		s = Reduce(s, JumpToday{Now: later})
		assert.Equal(t, later, s.SelectedDate)
		assert.Equal(t, view.Week, s.View)
	})
}

func TestReduce_Events(t *testing.T) {
	a := ev("a", today)
	b := ev("b", today.Add(2*time.Hour))
	c := ev("c", today.Add(time.Hour))

	s := Reduce(New(today, time.Sunday), EventsLoaded{Events: []event.Event{b, a}})
	assert.Equal(t, []event.Event{a, b}, s.Events)

	s = Reduce(s, EventAdded{Event: c})
	assert.Equal(t, []event.Event{a, c, b}, s.Events)

	moved := a
	moved.Start = today.Add(5 * time.Hour)
	moved.End = moved.Start.Add(time.Hour)
	s = Reduce(s, EventUpdated{Event: moved})
	assert.Equal(t, []event.Event{c, b, moved}, s.Events)

	s = Reduce(s, EventRemoved{ID: "b"})
	assert.Equal(t, []event.Event{c, moved}, s.Events)
}

func TestReduce_DoesNotModifyInput(t *testing.T) {
	initial := Reduce(New(today, time.Sunday), EventsLoaded{Events: []event.Event{ev("a", today), ev("b", today.Add(time.Hour))}})
	snapshot := append([]event.Event(nil), initial.Events...)

	_ = Reduce(initial, EventRemoved{ID: "a"})
	_ = Reduce(initial, ChatSubmitted{Text: "hi"})

	assert.Equal(t, snapshot, initial.Events)
	assert.Len(t, initial.Messages, 1)
}

func TestReduce_Chat(t *testing.T) {
	s := Reduce(New(today, time.Sunday), ChatSubmitted{Text: "add lunch at noon"})
	assert.True(t, s.ChatBusy)

	s = Reduce(s, ChatReplied{Reply: assistant.Reply{Text: assistant.ApologyText}})
	assert.False(t, s.ChatBusy)
	require.Len(t, s.Messages, 3)
	assert.Equal(t, ChatMessage{Author: AuthorUser, Text: "add lunch at noon", Success: true}, s.Messages[1])
	assert.Equal(t, ChatMessage{Author: AuthorAssistant, Text: assistant.ApologyText}, s.Messages[2])
}

func TestReduce_ChatRejected(t *testing.T) {
	s := Reduce(New(today, time.Sunday), ChatSubmitted{Text: "add lunch at noon"})

	s = Reduce(s, ChatRejected{})

	assert.False(t, s.ChatBusy)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, AuthorAssistant, s.Messages[0].Author)

	s = Reduce(s, ChatSubmitted{Text: "first"})
	s = Reduce(s, ChatSubmitted{Text: "second"})
	s = Reduce(s, ChatRejected{StillBusy: true})

	assert.True(t, s.ChatBusy)
	require.Len(t, s.Messages, 2)
	assert.Equal(t, "first", s.Messages[1].Text)
}

func TestVisibleEvents(t *testing.T) {
	inside := ev("in", today)
	outside := ev("out", today.AddDate(0, 2, 0))
	s := Reduce(New(today, time.Sunday), EventsLoaded{Events: []event.Event{inside, outside}})
	assert.Equal(t, []event.Event{inside}, s.VisibleEvents())
}

func TestNewDraftAt(t *testing.T) {
	slot := time.Date(2025, time.January, 15, 13, 45, 0, 0, time.UTC)
	draft := NewDraftAt(slot)
	assert.Equal(t, slot, draft.Start)
	assert.Equal(t, slot.Add(time.Hour), draft.End)
	assert.Equal(t, event.DefaultColor, draft.Color)
	assert.Empty(t, draft.Title)
}
