package event

import (
	"context"
	"sort"
	"sync"
)

type RepositoryStub struct {
	mu     sync.RWMutex
	events map[string]Event
	err    error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{events: make(map[string]Event)}
}

// FailWith makes every following call return err.
func (r *RepositoryStub) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Event{}, r.err
	}
	r.events[event.ID] = event
	return event, nil
}

func (r *RepositoryStub) GetEvent(ctx context.Context, id string) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return Event{}, r.err
	}
	event, ok := r.events[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return event, nil
}

func (r *RepositoryStub) ListEvents(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	events := make([]Event, 0, len(r.events))
	for _, event := range r.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].ID < events[j].ID
		}
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Event{}, r.err
	}
	stored, ok := r.events[event.ID]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	event.CreatedAt = stored.CreatedAt
	r.events[event.ID] = event
	return event, nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}
