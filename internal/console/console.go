package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klokku/kalendar/internal/event_bus"
	"github.com/klokku/kalendar/internal/utils"
	"github.com/klokku/kalendar/pkg/appstate"
	"github.com/klokku/kalendar/pkg/assistant"
	"github.com/klokku/kalendar/pkg/store"
	"github.com/klokku/kalendar/pkg/timeslot"
	"github.com/klokku/kalendar/pkg/view"
	log "github.com/sirupsen/logrus"
)

const (
	userPrompt      = "you> "
	assistantPrefix = "assistant> "
	dateInput       = "2006-01-02"
)

const commandHelp = `Commands:
  /agenda            show the current view
  /view <mode>       month, week, 3day or day
  /next, /prev       move one view forward or back
  /today             jump to today
  /date YYYY-MM-DD   select a date
  /new HH:MM title   add a one hour event on the selected date
  /quit              leave
Anything else is sent to the assistant.
`

// Console keeps the terminal's application state in step with the event store and the
// assistant session through the event bus.
type Console struct {
	out         io.Writer
	state       appstate.State
	store       *store.Store
	session     *assistant.Session
	clock       utils.Clock
	unsubscribe []func()
}

func New(out io.Writer, st *store.Store, session *assistant.Session, bus *event_bus.EventBus, clock utils.Clock, weekStart time.Weekday) *Console {
	c := &Console{
		out:     out,
		state:   appstate.New(view.Today(clock), weekStart),
		store:   st,
		session: session,
		clock:   clock,
	}
	c.unsubscribe = append(c.unsubscribe,
		event_bus.SubscribeTyped(bus, event_bus.StoreChanged, c.onStoreChanged),
		event_bus.SubscribeTyped(bus, event_bus.ChatReplied, c.onChatReplied),
	)
	return c
}

// Close detaches the console from the bus.
func (c *Console) Close() {
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
}

func (c *Console) State() appstate.State {
	return c.state
}

func (c *Console) Dispatch(action appstate.Action) {
	c.state = appstate.Reduce(c.state, action)
}

// Load fetches the events from the gateway.
func (c *Console) Load(ctx context.Context) error {
	return c.store.Refresh(ctx)
}

func (c *Console) Agenda() error {
	return RenderAgenda(c.out, c.state)
}

func (c *Console) onStoreChanged(e event_bus.EventT[event_bus.StoreChange]) error {
	c.Dispatch(c.storeAction(e.Data))
	if e.Data.Kind != event_bus.ChangeRefreshed {
		c.printf("(calendar %s, %d events)\n", e.Data.Kind, e.Data.Total)
	}
	return nil
}

// storeAction maps a store change onto the reducer. A change whose event is gone from the
// store reloads the whole list.
func (c *Console) storeAction(change event_bus.StoreChange) appstate.Action {
	switch change.Kind {
	case event_bus.ChangeCreated:
		if ev, ok := c.store.Find(change.EventID); ok {
			return appstate.EventAdded{Event: ev}
		}
	case event_bus.ChangeUpdated:
		if ev, ok := c.store.Find(change.EventID); ok {
			return appstate.EventUpdated{Event: ev}
		}
	case event_bus.ChangeDeleted:
		return appstate.EventRemoved{ID: change.EventID}
	}
	return appstate.EventsLoaded{Events: c.store.Events()}
}

func (c *Console) onChatReplied(e event_bus.EventT[event_bus.AssistantReply]) error {
	c.Dispatch(appstate.ChatReplied{Reply: assistant.Reply{
		Text:    e.Data.Text,
		Action:  assistant.ActionType(e.Data.Action),
		Success: e.Data.Success,
	}})
	c.printf("%s%s\n", assistantPrefix, e.Data.Text)
	return nil
}

// Chat runs the interactive loop until in is exhausted, /quit is entered or ctx ends.
func (c *Console) Chat(ctx context.Context, in io.Reader) error {
	c.printf("%s%s\n", assistantPrefix, assistant.Greeting)
	c.printf("Type /help for commands.\n")

	scanner := bufio.NewScanner(in)
	for {
		c.printf(userPrompt)
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			quit, err := c.command(ctx, line)
			if err != nil {
				c.printf("%v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}
		c.submit(ctx, line)
	}
	return scanner.Err()
}

func (c *Console) submit(ctx context.Context, message string) {
	c.Dispatch(appstate.ChatSubmitted{Text: message})
	_, err := c.session.Submit(ctx, message)
	if err == nil {
		return
	}
	c.Dispatch(appstate.ChatRejected{StillBusy: c.session.State() == assistant.AwaitingResponse})
	if errors.Is(err, assistant.ErrBusy) {
		c.printf("still working on the previous message\n")
		return
	}
	log.Debugf("chat message not submitted: %v", err)
}

func (c *Console) command(ctx context.Context, line string) (quit bool, err error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		c.printf("%s", commandHelp)
		return false, nil
	case "agenda":
	case "view":
		mode, err := view.ParseMode(arg)
		if err != nil {
			return false, err
		}
		c.Dispatch(appstate.SetView{Mode: mode})
	case "next":
		c.Dispatch(appstate.Navigate{Direction: view.Next})
	case "prev":
		c.Dispatch(appstate.Navigate{Direction: view.Previous})
	case "today":
		c.Dispatch(appstate.JumpToday{Now: view.Today(c.clock)})
	case "date":
		date, err := time.ParseInLocation(dateInput, arg, c.state.SelectedDate.Location())
		if err != nil {
			return false, fmt.Errorf("expected a date like 2025-01-31: %w", err)
		}
		c.Dispatch(appstate.SelectDate{Date: date})
	case "new":
		if err := c.newEvent(ctx, arg); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown command /%s, try /help", name)
	}
	return false, c.Agenda()
}

// newEvent creates an event from "HH:MM title" in the slot containing HH:MM on the
// selected date.
func (c *Console) newEvent(ctx context.Context, arg string) error {
	hhmm, title, _ := strings.Cut(arg, " ")
	title = strings.TrimSpace(title)
	at, err := time.Parse(clockFormat, hhmm)
	if err != nil || title == "" {
		return errors.New("expected /new HH:MM title")
	}

	day := c.state.SelectedDate
	offset := time.Duration(timeslot.SlotIndex(at)) * timeslot.SlotDuration
	slotStart := time.Date(day.Year(), day.Month(), day.Day(), 0, int(offset.Minutes()), 0, 0, day.Location())
	draft := appstate.NewDraftAt(slotStart)
	draft.Title = title
	if _, err := c.store.Create(ctx, draft); err != nil {
		log.Errorf("could not create event from console: %v", err)
		return err
	}
	return nil
}

func (c *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		log.Debugf("console write failed: %v", err)
	}
}
