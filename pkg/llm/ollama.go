package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// maxStreamLine bounds a single NDJSON line of the streamed answer.
const maxStreamLine = 1024 * 1024

type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

type ollamaStreamChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewOllamaProvider(baseURL string, model string, httpClient *http.Client) *OllamaProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
	}
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Complete streams /api/generate and concatenates the chunks until the one marked done.
func (p *OllamaProvider) Complete(ctx context.Context, system string, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  p.model,
		Prompt: prompt,
		System: system,
		Stream: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("failed to make request to Ollama: %w", err)
		log.Error(err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := statusError{provider: "Ollama", statusCode: resp.StatusCode}
		log.Error(err)
		return "", err
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, maxStreamLine), maxStreamLine)
	for scanner.Scan() {
		var chunk ollamaStreamChunk
		if err := json.Unmarshal(scanner.Bytes(), &chunk); err != nil {
			log.Tracef("skipping undecodable stream line: %v", err)
			continue
		}
		full.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if strings.TrimSpace(full.String()) == "" {
		return "", ErrEmptyCompletion
	}
	log.Debugf("Ollama response received (%d bytes)", full.Len())
	return full.String(), nil
}
