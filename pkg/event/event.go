package event

import (
	"errors"
	"time"
)

const (
	// DefaultColor is used for events created from the form when no color was picked.
	DefaultColor = "var(--tokyo-blue)"
	// AssistantColor marks events created by the chat assistant.
	AssistantColor = "var(--tokyo-purple)"
)

var ErrEmptyTitle = errors.New("event title must not be empty")
var ErrInvalidRange = errors.New("event end must be after its start")

type Event struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Draft is an event that has not been assigned an id by the gateway yet.
type Draft struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Color       string
}

func (d Draft) Event() Event {
	return Event{
		Title:       d.Title,
		Description: d.Description,
		Start:       d.Start,
		End:         d.End,
		Color:       d.Color,
	}
}

// Validate checks the invariants every stored event must hold.
func (e Event) Validate() error {
	if len(e.Title) == 0 {
		return ErrEmptyTitle
	}
	if !e.End.After(e.Start) {
		return ErrInvalidRange
	}
	return nil
}

func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
