package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klokku/kalendar/pkg/event"
	log "github.com/sirupsen/logrus"
)

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: gateway returned non-OK status: %d", e.Op, e.StatusCode)
}

type EventDTO struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Color       string     `json:"color"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type ChatRequest struct {
	Message  string `json:"message"`
	Timezone string `json:"timezone"`
}

type ChatAction struct {
	Type        string     `json:"type"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	EventID     string     `json:"event_id,omitempty"`
}

type ChatResponse struct {
	Message string      `json:"message"`
	Action  *ChatAction `json:"action,omitempty"`
}

type Client interface {
	ListEvents(ctx context.Context) ([]event.Event, error)
	CreateEvent(ctx context.Context, draft event.Draft) (event.Event, error)
	UpdateEvent(ctx context.Context, ev event.Event) (event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	Chat(ctx context.Context, message string, timezone string) (ChatResponse, error)
}

type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *ClientImpl {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ClientImpl{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *ClientImpl) ListEvents(ctx context.Context) ([]event.Event, error) {
	var dtos []EventDTO
	if err := c.do(ctx, "list events", http.MethodGet, "/api/events", nil, &dtos); err != nil {
		return nil, err
	}
	events := make([]event.Event, 0, len(dtos))
	for _, dto := range dtos {
		events = append(events, dtoToEvent(dto))
	}
	return events, nil
}

func (c *ClientImpl) CreateEvent(ctx context.Context, draft event.Draft) (event.Event, error) {
	var created EventDTO
	if err := c.do(ctx, "create event", http.MethodPost, "/api/events", eventToDTO(draft.Event()), &created); err != nil {
		return event.Event{}, err
	}
	return dtoToEvent(created), nil
}

func (c *ClientImpl) UpdateEvent(ctx context.Context, ev event.Event) (event.Event, error) {
	var updated EventDTO
	path := "/api/events/" + url.PathEscape(ev.ID)
	if err := c.do(ctx, "update event", http.MethodPut, path, eventToDTO(ev), &updated); err != nil {
		return event.Event{}, err
	}
	return dtoToEvent(updated), nil
}

func (c *ClientImpl) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, "delete event", http.MethodDelete, "/api/events/"+url.PathEscape(id), nil, nil)
}

func (c *ClientImpl) Chat(ctx context.Context, message string, timezone string) (ChatResponse, error) {
	var response ChatResponse
	request := ChatRequest{Message: message, Timezone: timezone}
	if err := c.do(ctx, "chat", http.MethodPost, "/api/chat", request, &response); err != nil {
		return ChatResponse{}, err
	}
	return response, nil
}

func (c *ClientImpl) do(ctx context.Context, op string, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	log.Tracef("%s %s", method, req.URL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("%s: failed to execute request: %w", op, err)
		log.Error(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{Op: op, StatusCode: resp.StatusCode}
		log.Error(err)
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err := fmt.Errorf("%s: failed to decode response: %w", op, err)
		log.Error(err)
		return err
	}
	return nil
}

func eventToDTO(ev event.Event) EventDTO {
	return EventDTO{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Start:       ev.Start,
		End:         ev.End,
		Color:       ev.Color,
	}
}

func dtoToEvent(dto EventDTO) event.Event {
	ev := event.Event{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Start:       dto.Start,
		End:         dto.End,
		Color:       dto.Color,
	}
	if dto.CreatedAt != nil {
		ev.CreatedAt = *dto.CreatedAt
	}
	if dto.UpdatedAt != nil {
		ev.UpdatedAt = *dto.UpdatedAt
	}
	return ev
}
