package assistant

import (
	"context"
	"strings"
	"sync"

	"github.com/klokku/kalendar/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type State int

const (
	Idle State = iota
	AwaitingResponse
)

func (s State) String() string {
	if s == AwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// Session serialises chat messages: while one message is being interpreted every other
// submission is rejected with ErrBusy.
type Session struct {
	mu          sync.Mutex
	state       State
	interpreter Interpreter
	bus         *event_bus.EventBus
}

func NewSession(interpreter Interpreter, bus *event_bus.EventBus) *Session {
	return &Session{interpreter: interpreter, bus: bus}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Submit(ctx context.Context, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == AwaitingResponse {
		s.mu.Unlock()
		log.Debug("chat message rejected, previous one still in flight")
		return Reply{}, ErrBusy
	}
	s.state = AwaitingResponse
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = Idle
		s.mu.Unlock()
	}()

	reply, err := s.interpreter.Interpret(ctx, message)
	if err != nil {
		log.Errorf("could not process chat message: %v", err)
	}

	if s.bus != nil {
		payload := event_bus.AssistantReply{Text: reply.Text, Action: string(reply.Action), Success: reply.Success}
		if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ChatReplied, payload)); err != nil {
			log.Warnf("chat reply listeners failed: %v", err)
		}
	}
	return reply, nil
}
