package chat

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/klokku/kalendar/internal/utils"
	"github.com/klokku/kalendar/pkg/event"
	"github.com/klokku/kalendar/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)

func setupService(t *testing.T, reply string) (*ServiceImpl, *llm.ProviderStub, *event.RepositoryStub) {
	repo := event.NewRepositoryStub()
	provider := llm.NewProviderStub(reply)
	service := &ServiceImpl{
		events:   event.NewService(repo),
		provider: provider,
		clock:    &utils.MockClock{FixedNow: now},
	}
	return service, provider, repo
}

func TestService_Query(t *testing.T) {
	t.Run("system prompt carries date, timezone and schedule", func(t *testing.T) {
		service, provider, repo := setupService(t, `{"message":"ok"}`)
		_, err := repo.StoreEvent(context.Background(), event.Event{
			ID:          "e-1",
			Title:       "Standup",
			Description: "daily",
			Start:       time.Date(2025, 2, 10, 14, 0, 0, 0, time.UTC),
			End:         time.Date(2025, 2, 10, 14, 15, 0, 0, time.UTC),
			Color:       event.DefaultColor,
		})
		require.NoError(t, err)

		response, err := service.Query(context.Background(), "  what's on today?  ", "Europe/Warsaw")

		require.NoError(t, err)
		assert.Equal(t, "ok", response.Message)
		require.Len(t, provider.Prompts, 1)
		assert.Equal(t, "what's on today?", provider.Prompts[0])

		system := provider.Systems[0]
		assert.Contains(t, system, "The current date is 2025-02-10")
		assert.Contains(t, system, "time zone is Europe/Warsaw")
		assert.Contains(t, system, "Here are the current events:\n- [e-1] Standup: Mon Feb 10 3:00 PM to 3:15 PM (daily)\n")
		assert.NotContains(t, system, "{{.")
	})

	t.Run("unknown timezone shows schedule in UTC", func(t *testing.T) {
		service, provider, repo := setupService(t, `{"message":"ok"}`)
		_, err := repo.StoreEvent(context.Background(), event.Event{
			ID:    "e-1",
			Title: "Standup",
			Start: time.Date(2025, 2, 10, 14, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 2, 10, 15, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		_, err = service.Query(context.Background(), "hi", "Mars/Olympus")

		require.NoError(t, err)
		assert.Contains(t, provider.Systems[0], "- [e-1] Standup: Mon Feb 10 2:00 PM to 3:00 PM ()\n")
	})

	t.Run("empty message", func(t *testing.T) {
		service, provider, _ := setupService(t, "")

		_, err := service.Query(context.Background(), "   ", "UTC")

		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Empty(t, provider.Prompts)
	})

	t.Run("provider failure", func(t *testing.T) {
		service, provider, _ := setupService(t, "")
		providerErr := errors.New("connection refused")
		provider.FailWith(providerErr)

		_, err := service.Query(context.Background(), "hi", "UTC")

		assert.ErrorIs(t, err, providerErr)
	})

	t.Run("schedule failure", func(t *testing.T) {
		service, provider, repo := setupService(t, "")
		repo.FailWith(errors.New("db down"))

		_, err := service.Query(context.Background(), "hi", "UTC")

		assert.ErrorContains(t, err, "failed to get schedule")
		assert.Empty(t, provider.Prompts)
	})
}
