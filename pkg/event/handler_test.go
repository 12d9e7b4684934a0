package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/gorilla/mux"
	"github.com/klokku/kalendar/internal/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*Handler, *RepositoryStub) {
	service, repo, _ := setupService()
	return NewHandler(service), repo
}

func createViaHandler(t *testing.T, handler *Handler, body string) EventDTO {
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateEvent(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var created EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	return created
}

func TestHandler_CreateEvent(t *testing.T) {
	t.Run("created event is returned with id", func(t *testing.T) {
		handler, _ := setupHandlerTest(t)

		created := createViaHandler(t, handler, `{"title":"Lunch","start":"2025-01-21T12:30:00Z","end":"2025-01-21T14:00:00Z"}`)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Lunch", created.Title)
		assert.Equal(t, DefaultColor, created.Color)
		require.NotNil(t, created.CreatedAt)
	})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title":`},
		{"bad timestamp", `{"title":"x","start":"tomorrow","end":"2025-01-21T14:00:00Z"}`},
		{"empty title", `{"title":"","start":"2025-01-21T12:00:00Z","end":"2025-01-21T14:00:00Z"}`},
		{"end before start", `{"title":"x","start":"2025-01-21T15:00:00Z","end":"2025-01-21T14:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := setupHandlerTest(t)
			req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.CreateEvent(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var errorResponse rest.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&errorResponse))
			assert.NotEmpty(t, errorResponse.Error)
		})
	}
}

func TestHandler_ListEvents(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	createViaHandler(t, handler, `{"title":"Later","start":"2025-01-22T12:00:00Z","end":"2025-01-22T13:00:00Z"}`)
	createViaHandler(t, handler, `{"title":"Sooner","start":"2025-01-21T12:00:00Z","end":"2025-01-21T13:00:00Z"}`)

	w := httptest.NewRecorder()
	handler.ListEvents(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var events []EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
	require.Len(t, events, 2)
	assert.Equal(t, "Sooner", events[0].Title)
	assert.Equal(t, "Later", events[1].Title)
}

func TestHandler_ListEvents_Empty(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	w := httptest.NewRecorder()
	handler.ListEvents(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandler_UpdateEvent(t *testing.T) {
	t.Run("updates an existing event", func(t *testing.T) {
		handler, _ := setupHandlerTest(t)
		created := createViaHandler(t, handler, `{"title":"Lunch","start":"2025-01-21T12:30:00Z","end":"2025-01-21T14:00:00Z"}`)

		created.Title = "Long lunch"
		created.End = created.End.Add(time.Hour)
		body, _ := json.Marshal(created)
		req := httptest.NewRequest(http.MethodPut, "/api/events/"+created.ID, bytes.NewReader(body))
		req = mux.SetURLVars(req, map[string]string{"id": created.ID})
		w := httptest.NewRecorder()

		handler.UpdateEvent(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var updated EventDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, "Long lunch", updated.Title)
		assert.Equal(t, created.ID, updated.ID)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		handler, _ := setupHandlerTest(t)
		body := `{"title":"x","start":"2025-01-21T12:00:00Z","end":"2025-01-21T13:00:00Z"}`
		req := httptest.NewRequest(http.MethodPut, "/api/events/nope", strings.NewReader(body))
		req = mux.SetURLVars(req, map[string]string{"id": "nope"})
		w := httptest.NewRecorder()

		handler.UpdateEvent(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_DeleteEvent(t *testing.T) {
	handler, repo := setupHandlerTest(t)
	created := createViaHandler(t, handler, `{"title":"Lunch","start":"2025-01-21T12:30:00Z","end":"2025-01-21T14:00:00Z"}`)

	deleteRequest := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/events/"+id, nil)
		req = mux.SetURLVars(req, map[string]string{"id": id})
		w := httptest.NewRecorder()
		handler.DeleteEvent(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, deleteRequest(created.ID).Code)
	assert.Equal(t, http.StatusNotFound, deleteRequest(created.ID).Code)

	repo.FailWith(errors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, deleteRequest("any").Code)
}

func TestHandler_ExportCalendar(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	created := createViaHandler(t, handler, `{"title":"Lunch","description":"with Sal","start":"2025-01-21T12:30:00Z","end":"2025-01-21T14:00:00Z"}`)

	w := httptest.NewRecorder()
	handler.ExportCalendar(w, httptest.NewRequest(http.MethodGet, "/api/events.ics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")

	cal, err := ical.NewDecoder(w.Body).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	uid, _ := events[0].Props.Text(ical.PropUID)
	summary, _ := events[0].Props.Text(ical.PropSummary)
	description, _ := events[0].Props.Text(ical.PropDescription)
	assert.Equal(t, created.ID, uid)
	assert.Equal(t, "Lunch", summary)
	assert.Equal(t, "with Sal", description)
	dtStart, err := events[0].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 21, 12, 30, 0, 0, time.UTC), dtStart)
}

func TestHandler_ExportCalendar_NoEvents(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	w := httptest.NewRecorder()
	handler.ExportCalendar(w, httptest.NewRequest(http.MethodGet, "/api/events.ics", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
