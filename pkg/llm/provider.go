package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/klokku/kalendar/internal/config"
	log "github.com/sirupsen/logrus"
)

var ErrEmptyCompletion = errors.New("language model returned no content")

// Provider turns a system prompt and a user prompt into the model's raw text answer.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system string, prompt string) (string, error)
}

// NewProvider picks OpenAI when an API key is configured and falls back to a local Ollama.
func NewProvider(cfg config.AI, httpClient *http.Client) Provider {
	if cfg.OpenAI.Enabled() {
		log.Infof("Using OpenAI provider (%s)", cfg.OpenAI.Model)
		return NewOpenAIProvider(cfg.OpenAI.BaseUrl, cfg.OpenAI.Model, cfg.OpenAI.ApiKey, httpClient)
	}
	log.Infof("OpenAI API key not set, using Ollama provider (%s at %s)", cfg.Ollama.Model, cfg.Ollama.BaseUrl)
	return NewOllamaProvider(cfg.Ollama.BaseUrl, cfg.Ollama.Model, httpClient)
}

type statusError struct {
	provider   string
	statusCode int
}

func (e statusError) Error() string {
	return fmt.Sprintf("%s returned non-OK status: %d", e.provider, e.statusCode)
}
