package chat

import (
	"encoding/json"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type Action struct {
	Type        string     `json:"type"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	EventID     string     `json:"event_id,omitempty"`
}

type Response struct {
	Message string  `json:"message"`
	Action  *Action `json:"action,omitempty"`
}

// modelAction keeps times as text so one malformed timestamp does not discard the whole answer.
type modelAction struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	EventID     string `json:"event_id"`
}

type modelAnswer struct {
	Message string       `json:"message"`
	Action  *modelAction `json:"action"`
}

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// parseAnswer extracts {message, action} from the raw model output. Output that is not
// JSON becomes a plain message.
func parseAnswer(raw string) Response {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, thinkOpen) {
		if _, after, found := strings.Cut(text, thinkClose); found && strings.Contains(after, "{") {
			text = strings.TrimSpace(after)
		}
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start != -1 && end > start {
			text = text[start : end+1]
		}
	}

	var answer modelAnswer
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		log.Debugf("model answer is not JSON, replying with plain text: %v", err)
		plain := strings.TrimPrefix(strings.TrimSuffix(text, thinkClose), thinkOpen)
		return Response{Message: strings.TrimSpace(plain)}
	}

	return Response{Message: answer.Message, Action: toAction(answer.Action)}
}

func toAction(raw *modelAction) *Action {
	if raw == nil || raw.Type == "" {
		return nil
	}
	return &Action{
		Type:        raw.Type,
		Title:       raw.Title,
		Description: raw.Description,
		Start:       parseTimestamp(raw.Start),
		End:         parseTimestamp(raw.End),
		EventID:     raw.EventID,
	}
}

func parseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		log.Debugf("ignoring unparsable action timestamp %q", value)
		return nil
	}
	t = t.UTC()
	return &t
}
