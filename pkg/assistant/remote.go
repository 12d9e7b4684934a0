package assistant

import (
	"context"
	"fmt"

	"github.com/klokku/kalendar/pkg/event"
	"github.com/klokku/kalendar/pkg/gateway"
	log "github.com/sirupsen/logrus"
)

type ChatClient interface {
	Chat(ctx context.Context, message string, timezone string) (gateway.ChatResponse, error)
}

// RemoteInterpreter lets the gateway's language model interpret the message and applies
// the returned action to the store before replying.
type RemoteInterpreter struct {
	client   ChatClient
	store    EventStore
	timezone string
}

func NewRemoteInterpreter(client ChatClient, store EventStore, timezone string) *RemoteInterpreter {
	return &RemoteInterpreter{client: client, store: store, timezone: timezone}
}

func (r *RemoteInterpreter) Interpret(ctx context.Context, message string) (Reply, error) {
	response, err := r.client.Chat(ctx, message, r.timezone)
	if err != nil {
		return apology(), err
	}

	applied, err := r.apply(ctx, response.Action)
	if err != nil {
		return apology(), err
	}

	reply := Reply{Text: response.Message, Action: ActionResponse, Success: true}
	if applied {
		reply.Action = ActionType(response.Action.Type)
	}
	return reply, nil
}

// apply performs the store mutation described by action and reports whether one happened.
// Incomplete actions and references to unknown events are ignored.
func (r *RemoteInterpreter) apply(ctx context.Context, action *gateway.ChatAction) (bool, error) {
	if action == nil {
		return false, nil
	}

	switch ActionType(action.Type) {
	case ActionCreate:
		if action.Title == "" || action.Start == nil || action.End == nil {
			log.Debugf("dropping incomplete create action: %+v", action)
			return false, nil
		}
		_, err := r.store.Create(ctx, event.Draft{
			Title:       action.Title,
			Description: action.Description,
			Start:       *action.Start,
			End:         *action.End,
			Color:       event.AssistantColor,
		})
		return err == nil, err

	case ActionUpdate:
		current, ok := r.resolve(action.EventID)
		if !ok {
			return false, nil
		}
		if action.Title != "" {
			current.Title = action.Title
		}
		if action.Description != "" {
			current.Description = action.Description
		}
		if action.Start != nil {
			current.Start = *action.Start
		}
		if action.End != nil {
			current.End = *action.End
		}
		_, err := r.store.Update(ctx, current)
		return err == nil, err

	case ActionDelete:
		current, ok := r.resolve(action.EventID)
		if !ok {
			return false, nil
		}
		if err := r.store.Delete(ctx, current.ID); err != nil {
			return false, fmt.Errorf("assistant delete failed: %w", err)
		}
		return true, nil
	}
	return false, nil
}

func (r *RemoteInterpreter) resolve(id string) (event.Event, bool) {
	if id == "" {
		log.Debug("action without event_id ignored")
		return event.Event{}, false
	}
	ev, ok := r.store.Find(id)
	if !ok {
		log.Debugf("action references unknown event %s, ignored", id)
	}
	return ev, ok
}
