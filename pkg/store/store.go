package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/klokku/kalendar/internal/event_bus"
	"github.com/klokku/kalendar/pkg/event"
	log "github.com/sirupsen/logrus"
)

// Backend is the remote side of the store. gateway.Client satisfies it.
type Backend interface {
	ListEvents(ctx context.Context) ([]event.Event, error)
	CreateEvent(ctx context.Context, draft event.Draft) (event.Event, error)
	UpdateEvent(ctx context.Context, ev event.Event) (event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// Store keeps the client-side snapshot of events. The snapshot is only changed after the
// backend confirmed the operation.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	bus     *event_bus.EventBus
	events  map[string]event.Event
}

func New(backend Backend, bus *event_bus.EventBus) *Store {
	return &Store{
		backend: backend,
		bus:     bus,
		events:  make(map[string]event.Event),
	}
}

// Refresh replaces the snapshot with the backend's current list.
func (s *Store) Refresh(ctx context.Context) error {
	events, err := s.backend.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("could not load events: %w", err)
	}
	s.Replace(events)
	s.publish(ctx, event_bus.ChangeRefreshed, "")
	return nil
}

func (s *Store) Create(ctx context.Context, draft event.Draft) (event.Event, error) {
	created, err := s.backend.CreateEvent(ctx, draft)
	if err != nil {
		return event.Event{}, fmt.Errorf("could not create event: %w", err)
	}

	s.mu.Lock()
	s.events[created.ID] = created
	s.mu.Unlock()

	log.Debugf("event %s created", created.ID)
	s.publish(ctx, event_bus.ChangeCreated, created.ID)
	return created, nil
}

func (s *Store) Update(ctx context.Context, ev event.Event) (event.Event, error) {
	updated, err := s.backend.UpdateEvent(ctx, ev)
	if err != nil {
		return event.Event{}, fmt.Errorf("could not update event %s: %w", ev.ID, err)
	}

	s.mu.Lock()
	s.events[updated.ID] = updated
	s.mu.Unlock()

	log.Debugf("event %s updated", updated.ID)
	s.publish(ctx, event_bus.ChangeUpdated, updated.ID)
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("could not delete event %s: %w", id, err)
	}

	s.mu.Lock()
	delete(s.events, id)
	s.mu.Unlock()

	log.Debugf("event %s deleted", id)
	s.publish(ctx, event_bus.ChangeDeleted, id)
	return nil
}

func (s *Store) Find(id string) (event.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	return ev, ok
}

// Events returns a copy of the snapshot ordered by start time.
func (s *Store) Events() []event.Event {
	s.mu.RLock()
	result := make([]event.Event, 0, len(s.events))
	for _, ev := range s.events {
		result = append(result, ev)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Start.Equal(result[j].Start) {
			return result[i].ID < result[j].ID
		}
		return result[i].Start.Before(result[j].Start)
	})
	return result
}

// Replace swaps the whole snapshot without contacting the backend.
func (s *Store) Replace(events []event.Event) {
	snapshot := make(map[string]event.Event, len(events))
	for _, ev := range events {
		snapshot[ev.ID] = ev
	}
	s.mu.Lock()
	s.events = snapshot
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *Store) publish(ctx context.Context, kind event_bus.ChangeKind, id string) {
	if s.bus == nil {
		return
	}
	change := event_bus.StoreChange{Kind: kind, EventID: id, Total: s.Len()}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.StoreChanged, change)); err != nil {
		log.Warnf("store change listeners failed: %v", err)
	}
}
