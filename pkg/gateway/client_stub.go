package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/klokku/kalendar/pkg/event"
)

// ClientStub is an in-memory gateway used by tests and by the offline console.
type ClientStub struct {
	mu           sync.RWMutex
	events       map[string]event.Event
	chatReply    ChatResponse
	chatMessages []string
	listErr      error
	createErr    error
	updateErr    error
	deleteErr    error
	chatErr      error
}

func NewClientStub(events ...event.Event) *ClientStub {
	stub := &ClientStub{events: make(map[string]event.Event)}
	for _, ev := range events {
		stub.events[ev.ID] = ev
	}
	return stub
}

func (c *ClientStub) ListEvents(ctx context.Context) ([]event.Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.listErr != nil {
		return nil, c.listErr
	}
	result := make([]event.Event, 0, len(c.events))
	for _, ev := range c.events {
		result = append(result, ev)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	return result, nil
}

func (c *ClientStub) CreateEvent(ctx context.Context, draft event.Draft) (event.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.createErr != nil {
		return event.Event{}, c.createErr
	}
	ev := draft.Event()
	ev.ID = uuid.NewString()
	c.events[ev.ID] = ev
	return ev, nil
}

func (c *ClientStub) UpdateEvent(ctx context.Context, ev event.Event) (event.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.updateErr != nil {
		return event.Event{}, c.updateErr
	}
	if _, ok := c.events[ev.ID]; !ok {
		return event.Event{}, &StatusError{Op: "update event", StatusCode: http.StatusNotFound}
	}
	c.events[ev.ID] = ev
	return ev, nil
}

func (c *ClientStub) DeleteEvent(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deleteErr != nil {
		return c.deleteErr
	}
	if _, ok := c.events[id]; !ok {
		return &StatusError{Op: "delete event", StatusCode: http.StatusNotFound}
	}
	delete(c.events, id)
	return nil
}

func (c *ClientStub) Chat(ctx context.Context, message string, timezone string) (ChatResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.chatMessages = append(c.chatMessages, message)
	if c.chatErr != nil {
		return ChatResponse{}, c.chatErr
	}
	return c.chatReply, nil
}

func (c *ClientStub) SetChatReply(reply ChatResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chatReply = reply
}

func (c *ClientStub) ChatMessages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.chatMessages...)
}

// Stored returns the event as currently held by the stub.
func (c *ClientStub) Stored(id string) (event.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ev, ok := c.events[id]
	return ev, ok
}

// FailWith makes the named operation ("list", "create", "update", "delete", "chat") return err.
func (c *ClientStub) FailWith(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch op {
	case "list":
		c.listErr = err
	case "create":
		c.createErr = err
	case "update":
		c.updateErr = err
	case "delete":
		c.deleteErr = err
	case "chat":
		c.chatErr = err
	default:
		panic(fmt.Sprintf("unknown operation %q", op))
	}
}
