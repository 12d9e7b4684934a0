package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/klokku/kalendar/internal/rest"
	log "github.com/sirupsen/logrus"
)

type ChatRequest struct {
	Message  string `json:"message"`
	Timezone string `json:"timezone"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// Chat godoc
// @Summary Ask the calendar assistant
// @Description Returns the assistant's reply and, optionally, a calendar action for the client to apply
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Message and the user's IANA timezone"
// @Success 200 {object} Response
// @Failure 400 {object} rest.ErrorResponse
// @Failure 500 {object} rest.ErrorResponse
// @Router /api/chat [post]
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	log.Debugf("Chat request (timezone %q)", req.Timezone)

	response, err := h.service.Query(r.Context(), req.Message, req.Timezone)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	rest.WriteJSON(w, http.StatusOK, response)
}
