package assistant

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/klokku/kalendar/internal/utils"
	"github.com/klokku/kalendar/pkg/event"
	"github.com/klokku/kalendar/pkg/gateway"
	"github.com/klokku/kalendar/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday morning
var now = time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC)

func setupKeyword(t *testing.T, events ...event.Event) (*KeywordInterpreter, *store.Store, *gateway.ClientStub) {
	backend := gateway.NewClientStub(events...)
	s := store.New(backend, nil)
	require.NoError(t, s.Refresh(ctx))
	return NewKeywordInterpreter(s, &utils.MockClock{FixedNow: now}), s, backend
}

func TestClassify(t *testing.T) {
	tests := []struct {
		message  string
		expected ActionType
	}{
		{"Add lunch at noon", ActionCreate},
		{"please SCHEDULE a call", ActionCreate},
		{"create standup", ActionCreate},
		{"edit my dentist appointment", ActionUpdate},
		{"move gym to 6pm", ActionUpdate},
		{"change the review", ActionUpdate},
		{"cancel standup", ActionDelete},
		{"remove gym", ActionUpdate}, // "remove" contains "move", checked first
		{"add and delete", ActionCreate},
		{"update or remove", ActionUpdate},
		{"what's up?", ActionResponse},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.message))
		})
	}
}

func TestKeywordInterpreter_Help(t *testing.T) {
	interpreter, _, _ := setupKeyword(t)
	reply, err := interpreter.Interpret(ctx, "hello there")
	require.NoError(t, err)
	assert.Equal(t, Reply{Text: HelpText, Action: ActionResponse, Success: true}, reply)
}

func TestKeywordInterpreter_Create(t *testing.T) {
	tests := []struct {
		message       string
		expectedTitle string
		expectedStart time.Time
	}{
		{"Add team lunch tomorrow at 12:30pm", "team lunch", time.Date(2025, time.February, 11, 12, 30, 0, 0, time.UTC)},
		{"schedule dentist at 3pm", "dentist", time.Date(2025, time.February, 10, 15, 0, 0, 0, time.UTC)},
		{"create review on friday at 14:00", "review", time.Date(2025, time.February, 14, 14, 0, 0, 0, time.UTC)},
		{"add call with Bob for today at noon", "call with Bob", time.Date(2025, time.February, 10, 12, 0, 0, 0, time.UTC)},
		{"add deploy monday at midnight", "deploy", time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)},
		{"add standup 9am", "standup", time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			interpreter, s, _ := setupKeyword(t)

			reply, err := interpreter.Interpret(ctx, tt.message)

			require.NoError(t, err)
			assert.Equal(t, ActionCreate, reply.Action)
			assert.True(t, reply.Success)
			events := s.Events()
			require.Len(t, events, 1)
			assert.Equal(t, tt.expectedTitle, events[0].Title)
			assert.Equal(t, tt.expectedStart, events[0].Start)
			assert.Equal(t, tt.expectedStart.Add(DefaultDuration), events[0].End)
			assert.Equal(t, event.AssistantColor, events[0].Color)
		})
	}

	t.Run("keyword after a polite prefix", func(t *testing.T) {
		interpreter, s, _ := setupKeyword(t)

		_, err := interpreter.Interpret(ctx, "Please add lunch at noon")

		require.NoError(t, err)
		events := s.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "lunch", events[0].Title)
		assert.Equal(t, time.Date(2025, time.February, 10, 12, 0, 0, 0, time.UTC), events[0].Start)
	})

	t.Run("resolves the hour in the clock's location", func(t *testing.T) {
		warsaw, err := time.LoadLocation("Europe/Warsaw")
		require.NoError(t, err)
		backend := gateway.NewClientStub()
		s := store.New(backend, nil)
		clock := &utils.MockClock{FixedNow: time.Date(2025, time.February, 10, 9, 0, 0, 0, warsaw)}
		interpreter := NewKeywordInterpreter(s, clock)

		reply, err := interpreter.Interpret(ctx, "Add a meeting tomorrow at 2pm")

		require.NoError(t, err)
		assert.Equal(t, ActionCreate, reply.Action)
		events := s.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "a meeting", events[0].Title)
		start := events[0].Start.In(warsaw)
		assert.Equal(t, 14, start.Hour())
		assert.Equal(t, 0, start.Minute())
		assert.Equal(t, time.Date(2025, time.February, 11, 14, 0, 0, 0, warsaw).Unix(), events[0].Start.Unix())
	})

	t.Run("without a time asks for one", func(t *testing.T) {
		interpreter, s, _ := setupKeyword(t)
		reply, err := interpreter.Interpret(ctx, "add gym tomorrow")
		require.NoError(t, err)
		assert.Equal(t, MissingTimeText, reply.Text)
		assert.Empty(t, s.Events())
	})
}

func TestKeywordInterpreter_Update(t *testing.T) {
	dentist := event.Event{
		ID:    "d1",
		Title: "Dentist",
		Start: time.Date(2025, time.February, 11, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.February, 11, 10, 30, 0, 0, time.UTC),
	}

	t.Run("moves the event keeping its duration", func(t *testing.T) {
		interpreter, s, _ := setupKeyword(t, dentist)

		reply, err := interpreter.Interpret(ctx, "move dentist to friday at 3pm")

		require.NoError(t, err)
		assert.Equal(t, ActionUpdate, reply.Action)
		moved, _ := s.Find("d1")
		assert.Equal(t, time.Date(2025, time.February, 14, 15, 0, 0, 0, time.UTC), moved.Start)
		assert.Equal(t, 30*time.Minute, moved.Duration())
	})

	t.Run("time only keeps the event's date", func(t *testing.T) {
		interpreter, s, _ := setupKeyword(t, dentist)

		_, err := interpreter.Interpret(ctx, "change dentist at 11:15")

		require.NoError(t, err)
		moved, _ := s.Find("d1")
		assert.Equal(t, time.Date(2025, time.February, 11, 11, 15, 0, 0, time.UTC), moved.Start)
	})

	t.Run("date only keeps the time of day", func(t *testing.T) {
		interpreter, s, _ := setupKeyword(t, dentist)

		_, err := interpreter.Interpret(ctx, "move dentist to thursday")

		require.NoError(t, err)
		moved, _ := s.Find("d1")
		assert.Equal(t, time.Date(2025, time.February, 13, 10, 0, 0, 0, time.UTC), moved.Start)
	})

	t.Run("unknown event", func(t *testing.T) {
		interpreter, s, _ := setupKeyword(t, dentist)

		reply, err := interpreter.Interpret(ctx, "move yoga to 5pm")

		require.NoError(t, err)
		assert.Equal(t, NoMatchText, reply.Text)
		assert.Equal(t, []event.Event{dentist}, s.Events())
	})
}

func TestKeywordInterpreter_Delete(t *testing.T) {
	standup := event.Event{ID: "s1", Title: "Standup", Start: now.Add(time.Hour), End: now.Add(90 * time.Minute)}

	t.Run("removes the matching event", func(t *testing.T) {
		interpreter, s, _ := setupKeyword(t, standup)

		reply, err := interpreter.Interpret(ctx, "cancel standup")

		require.NoError(t, err)
		assert.Equal(t, ActionDelete, reply.Action)
		assert.Empty(t, s.Events())
	})

	t.Run("no match leaves the store", func(t *testing.T) {
		interpreter, s, _ := setupKeyword(t, standup)

		reply, err := interpreter.Interpret(ctx, "delete retro")

		require.NoError(t, err)
		assert.Equal(t, NoMatchText, reply.Text)
		assert.Len(t, s.Events(), 1)
	})

	t.Run("gateway failure yields apology", func(t *testing.T) {
		interpreter, s, backend := setupKeyword(t, standup)
		backend.FailWith("delete", assert.AnError)

		reply, err := interpreter.Interpret(ctx, "delete standup")

		assert.Error(t, err)
		assert.Equal(t, Reply{Text: ApologyText, Success: false}, reply)
		assert.Len(t, s.Events(), 1)
	})
}
