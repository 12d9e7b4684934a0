package event

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/klokku/kalendar/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	CreateEvent(ctx context.Context, draft Draft) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: &utils.SystemClock{}}
}

func (s *ServiceImpl) ListEvents(ctx context.Context) ([]Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *ServiceImpl) GetEvent(ctx context.Context, id string) (Event, error) {
	return s.repo.GetEvent(ctx, id)
}

// CreateEvent assigns a new id and timestamps to draft and stores it.
func (s *ServiceImpl) CreateEvent(ctx context.Context, draft Draft) (Event, error) {
	event := draft.Event()
	event.Title = strings.TrimSpace(event.Title)
	if event.Color == "" {
		event.Color = DefaultColor
	}
	if err := event.Validate(); err != nil {
		return Event{}, err
	}

	now := s.clock.Now()
	event.ID = uuid.NewString()
	event.CreatedAt = now
	event.UpdatedAt = now

	log.Debugf("Creating event %s (%s)", event.ID, event.Title)
	return s.repo.StoreEvent(ctx, event)
}

func (s *ServiceImpl) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	event.Title = strings.TrimSpace(event.Title)
	if event.Color == "" {
		event.Color = DefaultColor
	}
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	event.UpdatedAt = s.clock.Now()

	updated, err := s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return Event{}, fmt.Errorf("could not update event %s: %w", event.ID, err)
	}
	return updated, nil
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("could not delete event %s: %w", id, err)
	}
	log.Debugf("Deleted event %s", id)
	return nil
}
