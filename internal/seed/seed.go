package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/klokku/kalendar/internal/utils"
	"github.com/klokku/kalendar/pkg/event"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var samples []byte

// FixtureEvent places an event relative to the seeding day. Start and End are "15:04" wall
// clock times; an End not after Start rolls over to the next day.
type FixtureEvent struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Day         int    `yaml:"day"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Color       string `yaml:"color"`
}

type Fixture struct {
	Events []FixtureEvent `yaml:"events"`
}

type EventCreator interface {
	CreateEvent(ctx context.Context, draft event.Draft) (event.Event, error)
}

// Builtin returns the sample events shipped with the binary.
func Builtin() (Fixture, error) {
	return parse(samples)
}

func LoadFile(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to read fixture: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return fixture, nil
}

// Drafts resolves every fixture event against the day containing now.
func (f Fixture) Drafts(now time.Time) ([]event.Draft, error) {
	today := utils.StartOfDay(now)
	drafts := make([]event.Draft, 0, len(f.Events))
	for i, fe := range f.Events {
		day := utils.AddDays(today, fe.Day)
		start, err := atClock(day, fe.Start)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): invalid start: %w", i, fe.Title, err)
		}
		end, err := atClock(day, fe.End)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): invalid end: %w", i, fe.Title, err)
		}
		if !end.After(start) {
			end = utils.AddDays(end, 1)
		}
		drafts = append(drafts, event.Draft{
			Title:       fe.Title,
			Description: fe.Description,
			Start:       start,
			End:         end,
			Color:       fe.Color,
		})
	}
	return drafts, nil
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// Run creates every fixture event and returns how many were stored.
func Run(ctx context.Context, creator EventCreator, fixture Fixture, now time.Time) (int, error) {
	drafts, err := fixture.Drafts(now)
	if err != nil {
		return 0, err
	}
	for i, draft := range drafts {
		created, err := creator.CreateEvent(ctx, draft)
		if err != nil {
			return i, fmt.Errorf("failed to create %q: %w", draft.Title, err)
		}
		log.Infof("Created event: %s (%s)", created.Title, created.ID)
	}
	return len(drafts), nil
}
