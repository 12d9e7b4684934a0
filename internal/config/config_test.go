package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("file values override defaults and env overrides file", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "server:\n  port: 9090\nclient:\n  timezone: Europe/Warsaw\n  weekstart: monday\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("KALENDAR_SERVER_PORT", "7070")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "Europe/Warsaw", cfg.Client.Timezone)
		assert.Equal(t, time.Monday, cfg.Client.FirstDayOfWeek())
		assert.Equal(t, "kalendar", cfg.Database.Name)
	})

	t.Run("plain OPENAI_API_KEY is picked up", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "sk-test", cfg.AI.OpenAI.ApiKey)
		assert.True(t, cfg.AI.OpenAI.Enabled())
	})
}

func TestOpenAIEnabled(t *testing.T) {
	assert.False(t, OpenAI{}.Enabled())
	assert.False(t, OpenAI{ApiKey: OpenAIPlaceholderKey}.Enabled())
	assert.True(t, OpenAI{ApiKey: "sk-123"}.Enabled())
}

func TestClientSettings(t *testing.T) {
	t.Run("week start", func(t *testing.T) {
		assert.Equal(t, time.Sunday, Client{}.FirstDayOfWeek())
		assert.Equal(t, time.Saturday, Client{WeekStart: "Saturday"}.FirstDayOfWeek())
		assert.Equal(t, time.Sunday, Client{WeekStart: "someday"}.FirstDayOfWeek())
	})

	t.Run("location", func(t *testing.T) {
		assert.Equal(t, time.Local, Client{}.Location())
		assert.Equal(t, time.Local, Client{Timezone: "Nowhere/City"}.Location())
		assert.Equal(t, "Asia/Tokyo", Client{Timezone: "Asia/Tokyo"}.Location().String())
	})

	t.Run("timezone name follows the resolved location", func(t *testing.T) {
		t.Setenv("TZ", "Europe/Warsaw")

		assert.Equal(t, "Europe/Warsaw", Client{}.TimezoneName())
		assert.Equal(t, "Europe/Warsaw", Client{Timezone: "Nowhere/City"}.TimezoneName())
		assert.Equal(t, "Asia/Tokyo", Client{Timezone: "Asia/Tokyo"}.TimezoneName())
	})

	t.Run("timezone name accepts the colon form of TZ", func(t *testing.T) {
		t.Setenv("TZ", ":America/New_York")

		assert.Equal(t, "America/New_York", Client{}.TimezoneName())
	})
}
