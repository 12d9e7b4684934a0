package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/klokku/kalendar/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingInterpreter struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingInterpreter) Interpret(ctx context.Context, message string) (Reply, error) {
	close(b.started)
	<-b.release
	return Reply{Text: "echo: " + message, Action: ActionResponse, Success: true}, nil
}

type failingInterpreter struct{}

func (failingInterpreter) Interpret(ctx context.Context, message string) (Reply, error) {
	return apology(), errors.New("gateway down")
}

func TestSession_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty messages without changing state", func(t *testing.T) {
		session := NewSession(failingInterpreter{}, nil)
		_, err := session.Submit(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Equal(t, Idle, session.State())
	})

	t.Run("rejects a second message while the first is in flight", func(t *testing.T) {
		interpreter := &blockingInterpreter{started: make(chan struct{}), release: make(chan struct{})}
		session := NewSession(interpreter, nil)

		done := make(chan Reply)
		go func() {
			reply, _ := session.Submit(ctx, "first")
			done <- reply
		}()
		<-interpreter.started

		assert.Equal(t, AwaitingResponse, session.State())
		_, err := session.Submit(ctx, "second")
		assert.ErrorIs(t, err, ErrBusy)

		close(interpreter.release)
		reply := <-done
		assert.Equal(t, "echo: first", reply.Text)
		assert.Equal(t, Idle, session.State())
	})

	t.Run("interpreter failure yields the apology and publishes it", func(t *testing.T) {
		bus := event_bus.NewEventBus()
		var published []event_bus.AssistantReply
		event_bus.SubscribeTyped(bus, event_bus.ChatReplied, func(e event_bus.EventT[event_bus.AssistantReply]) error {
			published = append(published, e.Data)
			return nil
		})
		session := NewSession(failingInterpreter{}, bus)

		reply, err := session.Submit(ctx, "hello")

		require.NoError(t, err)
		assert.Equal(t, ApologyText, reply.Text)
		assert.False(t, reply.Success)
		assert.Equal(t, []event_bus.AssistantReply{{Text: ApologyText, Success: false}}, published)
		assert.Equal(t, Idle, session.State())
	})
}
