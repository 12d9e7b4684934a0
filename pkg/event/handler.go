package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/kalendar/internal/rest"
	log "github.com/sirupsen/logrus"
)

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

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListEvents godoc
// @Summary List all events
// @Tags Events
// @Produce json
// @Success 200 {array} EventDTO
// @Failure 500 {string} string "Internal server error"
// @Router /api/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	log.Trace("Listing events")

	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// CreateEvent godoc
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Param event body EventDTO true "Event without id"
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 500 {string} string "Internal server error"
// @Router /api/events [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "start and end must be RFC3339 timestamps")
		return
	}
	log.Debugf("New event request: %s", dto.Title)

	created, err := h.service.CreateEvent(r.Context(), Draft{
		Title:       dto.Title,
		Description: dto.Description,
		Start:       dto.Start,
		End:         dto.End,
		Color:       dto.Color,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventToDTO(created))
}

// UpdateEvent godoc
// @Summary Replace an event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param event body EventDTO true "Full event"
// @Success 200 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{id} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "start and end must be RFC3339 timestamps")
		return
	}
	dto.ID = id

	updated, err := h.service.UpdateEvent(r.Context(), dtoToEvent(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(updated))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags Events
// @Param id path string true "Event id"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{id} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Tracef("Deleting event %s", id)

	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", "")
	case errors.Is(err, ErrEmptyTitle), errors.Is(err, ErrInvalidRange):
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func eventToDTO(e Event) EventDTO {
	dto := EventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.Start,
		End:         e.End,
		Color:       e.Color,
	}
	if !e.CreatedAt.IsZero() {
		createdAt := e.CreatedAt
		dto.CreatedAt = &createdAt
	}
	if !e.UpdatedAt.IsZero() {
		updatedAt := e.UpdatedAt
		dto.UpdatedAt = &updatedAt
	}
	return dto
}

func dtoToEvent(dto EventDTO) Event {
	return Event{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Start:       dto.Start,
		End:         dto.End,
		Color:       dto.Color,
	}
}
