package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/klokku/kalendar/internal/utils"
	"github.com/klokku/kalendar/pkg/event"
)

const DefaultDuration = time.Hour

const (
	HelpText = "I can help you manage your calendar. Try something like:\n" +
		"- \"Add team lunch tomorrow at 12:30pm\"\n" +
		"- \"Move dentist to friday at 3pm\"\n" +
		"- \"Cancel standup\""
	NoMatchText     = "I couldn't find an event matching that. Could you mention its title?"
	MissingTimeText = "What time should I put it in your calendar? Try adding something like \"at 3pm\"."
)

var intents = []struct {
	action   ActionType
	keywords []string
}{
	{ActionCreate, []string{"add", "schedule", "create"}},
	{ActionUpdate, []string{"edit", "update", "change", "move"}},
	{ActionDelete, []string{"delete", "remove", "cancel"}},
}

var (
	twelveHourPattern  = regexp.MustCompile(`(?i)\b(?:at\s+)?(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\b`)
	clockPattern       = regexp.MustCompile(`(?i)\b(?:at\s+)?([01]?\d|2[0-3]):([0-5]\d)\b`)
	namedTimePattern   = regexp.MustCompile(`(?i)\b(?:at\s+)?(noon|midnight)\b`)
	relativeDayPattern = regexp.MustCompile(`(?i)\b(today|tomorrow)\b`)
	weekdayPattern     = regexp.MustCompile(`(?i)\b(?:on\s+)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	connectorPattern   = regexp.MustCompile(`(?i)\s+(?:to|for)\s*$`)
	spacePattern       = regexp.MustCompile(`\s+`)
)

// KeywordInterpreter understands a handful of phrasings without a language model.
type KeywordInterpreter struct {
	store EventStore
	clock utils.Clock
}

func NewKeywordInterpreter(store EventStore, clock utils.Clock) *KeywordInterpreter {
	return &KeywordInterpreter{store: store, clock: clock}
}

// Classify returns the intent of message by keyword presence, checked in priority order.
func Classify(message string) ActionType {
	lower := strings.ToLower(message)
	for _, intent := range intents {
		for _, keyword := range intent.keywords {
			if strings.Contains(lower, keyword) {
				return intent.action
			}
		}
	}
	return ActionResponse
}

func (k *KeywordInterpreter) Interpret(ctx context.Context, message string) (Reply, error) {
	switch Classify(message) {
	case ActionCreate:
		return k.create(ctx, message)
	case ActionUpdate:
		return k.update(ctx, message)
	case ActionDelete:
		return k.delete(ctx, message)
	default:
		return Reply{Text: HelpText, Action: ActionResponse, Success: true}, nil
	}
}

func (k *KeywordInterpreter) create(ctx context.Context, message string) (Reply, error) {
	now := k.clock.Now()
	when, ok := parseWhen(message, now, utils.StartOfDay(now))
	if !ok {
		return Reply{Text: MissingTimeText, Action: ActionResponse, Success: true}, nil
	}

	title := extractTitle(message)
	if title == "" {
		title = "New event"
	}
	created, err := k.store.Create(ctx, event.Draft{
		Title: title,
		Start: when,
		End:   when.Add(DefaultDuration),
		Color: event.AssistantColor,
	})
	if err != nil {
		return apology(), err
	}
	return Reply{
		Text:    fmt.Sprintf("Added %q on %s.", created.Title, created.Start.In(now.Location()).Format("Mon Jan 2 at 3:04 PM")),
		Action:  ActionCreate,
		Success: true,
	}, nil
}

func (k *KeywordInterpreter) update(ctx context.Context, message string) (Reply, error) {
	target, ok := k.match(message)
	if !ok {
		return Reply{Text: NoMatchText, Action: ActionResponse, Success: true}, nil
	}

	location := k.clock.Now().Location()
	currentStart := target.Start.In(location)
	day, hasDay := parseDay(message, k.clock.Now())
	if !hasDay {
		day = utils.StartOfDay(currentStart)
	}
	newStart, hasTime := parseTime(message, day)
	if !hasTime {
		if !hasDay {
			return Reply{
				Text:    fmt.Sprintf("When should I move %q to?", target.Title),
				Action:  ActionResponse,
				Success: true,
			}, nil
		}
		newStart = time.Date(day.Year(), day.Month(), day.Day(), currentStart.Hour(), currentStart.Minute(), 0, 0, location)
	}

	duration := target.Duration()
	target.Start = newStart
	target.End = newStart.Add(duration)
	updated, err := k.store.Update(ctx, target)
	if err != nil {
		return apology(), err
	}
	return Reply{
		Text:    fmt.Sprintf("Moved %q to %s.", updated.Title, updated.Start.In(location).Format("Mon Jan 2 at 3:04 PM")),
		Action:  ActionUpdate,
		Success: true,
	}, nil
}

func (k *KeywordInterpreter) delete(ctx context.Context, message string) (Reply, error) {
	target, ok := k.match(message)
	if !ok {
		return Reply{Text: NoMatchText, Action: ActionResponse, Success: true}, nil
	}
	if err := k.store.Delete(ctx, target.ID); err != nil {
		return apology(), err
	}
	return Reply{Text: fmt.Sprintf("Removed %q from your calendar.", target.Title), Action: ActionDelete, Success: true}, nil
}

// match returns the earliest event whose title appears in message.
func (k *KeywordInterpreter) match(message string) (event.Event, bool) {
	lower := strings.ToLower(message)
	for _, ev := range k.store.Events() {
		title := strings.ToLower(strings.TrimSpace(ev.Title))
		if title != "" && strings.Contains(lower, title) {
			return ev, true
		}
	}
	return event.Event{}, false
}

// parseWhen combines the date words and the time of day found in message. Without a date
// word the event goes on fallbackDay.
func parseWhen(message string, now time.Time, fallbackDay time.Time) (time.Time, bool) {
	day, ok := parseDay(message, now)
	if !ok {
		day = fallbackDay
	}
	return parseTime(message, day)
}

// parseDay resolves "today", "tomorrow" and weekday names. A weekday means its next
// occurrence, today included.
func parseDay(message string, now time.Time) (time.Time, bool) {
	today := utils.StartOfDay(now)
	if m := relativeDayPattern.FindStringSubmatch(message); m != nil {
		if strings.ToLower(m[1]) == "tomorrow" {
			return utils.AddDays(today, 1), true
		}
		return today, true
	}
	if m := weekdayPattern.FindStringSubmatch(message); m != nil {
		target := weekdayByName(m[1])
		ahead := (int(target) - int(today.Weekday()) + 7) % 7
		return utils.AddDays(today, ahead), true
	}
	return time.Time{}, false
}

// parseTime finds a time of day in message and places it on day.
func parseTime(message string, day time.Time) (time.Time, bool) {
	hour, minute, ok := -1, 0, false

	if m := twelveHourPattern.FindStringSubmatch(message); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h >= 1 && h <= 12 {
			if m[2] != "" {
				minute, _ = strconv.Atoi(m[2])
			}
			h = h % 12
			if strings.ToLower(m[3]) == "pm" {
				h += 12
			}
			hour, ok = h, true
		}
	}
	if !ok {
		if m := clockPattern.FindStringSubmatch(message); m != nil {
			hour, _ = strconv.Atoi(m[1])
			minute, _ = strconv.Atoi(m[2])
			ok = true
		}
	}
	if !ok {
		if m := namedTimePattern.FindStringSubmatch(message); m != nil {
			hour, minute, ok = 12, 0, true
			if strings.ToLower(m[1]) == "midnight" {
				hour = 0
			}
		}
	}
	if !ok {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}

// extractTitle removes the time phrase and the date words from message, then drops
// everything up to and including the first create keyword.
func extractTitle(message string) string {
	title := message
	for _, pattern := range []*regexp.Regexp{twelveHourPattern, clockPattern, namedTimePattern, relativeDayPattern, weekdayPattern} {
		title = pattern.ReplaceAllString(title, " ")
	}

	words := strings.Fields(title)
	for i, word := range words {
		if isCreateKeyword(strings.Trim(word, ".,!?:")) {
			words = words[i+1:]
			break
		}
	}
	title = spacePattern.ReplaceAllString(strings.Join(words, " "), " ")
	title = connectorPattern.ReplaceAllString(title, "")
	return strings.Trim(title, " .,!?:")
}

func isCreateKeyword(word string) bool {
	for _, keyword := range intents[0].keywords {
		if strings.EqualFold(word, keyword) {
			return true
		}
	}
	return false
}

func weekdayByName(name string) time.Weekday {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d
		}
	}
	return time.Sunday
}
