package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klokku/kalendar/internal/utils"
	"github.com/klokku/kalendar/pkg/event"
	"github.com/klokku/kalendar/pkg/llm"
	log "github.com/sirupsen/logrus"
)

var ErrEmptyMessage = errors.New("message is required")

type Service interface {
	Query(ctx context.Context, message string, timezone string) (Response, error)
}

type ServiceImpl struct {
	events   event.Service
	provider llm.Provider
	clock    utils.Clock
}

func NewService(events event.Service, provider llm.Provider) *ServiceImpl {
	return &ServiceImpl{
		events:   events,
		provider: provider,
		clock:    &utils.SystemClock{},
	}
}

// Query asks the language model about message with the current schedule as context.
// The returned action is a suggestion; nothing is written to the calendar here.
func (s *ServiceImpl) Query(ctx context.Context, message string, timezone string) (Response, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Response{}, ErrEmptyMessage
	}

	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("failed to get schedule: %w", err)
	}

	loc := resolveLocation(timezone)
	system := buildSystemPrompt(s.clock.Now(), timezone, loc, events)

	raw, err := s.provider.Complete(ctx, system, message)
	if err != nil {
		err := fmt.Errorf("%s query failed: %w", s.provider.Name(), err)
		log.Error(err)
		return Response{}, err
	}
	log.Tracef("raw model answer: %s", raw)

	response := parseAnswer(raw)
	if response.Action != nil {
		log.Debugf("model suggested %s action", response.Action.Type)
	}
	return response, nil
}

func resolveLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warnf("unknown timezone %q, schedule shown in UTC", timezone)
		return time.UTC
	}
	return loc
}
