package assistant

import (
	"context"
	"errors"

	"github.com/klokku/kalendar/pkg/event"
)

type ActionType string

const (
	ActionCreate   ActionType = "create"
	ActionUpdate   ActionType = "update"
	ActionDelete   ActionType = "delete"
	ActionResponse ActionType = "response"
)

const (
	Greeting    = "Hi, I'm your AI calendar assistant. Need help managing your schedule?"
	ApologyText = "Something went wrong while processing your message. Could you try again?"
)

var ErrBusy = errors.New("assistant is still answering the previous message")
var ErrEmptyMessage = errors.New("message must not be empty")

// Reply is the single user-visible answer to a chat message.
type Reply struct {
	Text    string
	Action  ActionType
	Success bool
}

type Interpreter interface {
	Interpret(ctx context.Context, message string) (Reply, error)
}

// EventStore is the part of the client store the interpreters mutate.
type EventStore interface {
	Events() []event.Event
	Find(id string) (event.Event, bool)
	Create(ctx context.Context, draft event.Draft) (event.Event, error)
	Update(ctx context.Context, ev event.Event) (event.Event, error)
	Delete(ctx context.Context, id string) error
}

func apology() Reply {
	return Reply{Text: ApologyText, Success: false}
}
