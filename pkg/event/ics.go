package event

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	log "github.com/sirupsen/logrus"
)

const icsProductID = "-//kalendar//EN"

// EncodeCalendar writes events as an iCalendar document.
func EncodeCalendar(w io.Writer, events []Event, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, e := range events {
		ve := ical.NewComponent(ical.CompEvent)
		ve.Props.SetText(ical.PropUID, e.ID)
		ve.Props.SetText(ical.PropSummary, e.Title)
		ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
		if e.Description != "" {
			ve.Props.SetText(ical.PropDescription, e.Description)
		}
		cal.Children = append(cal.Children, ve)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("could not encode calendar: %w", err)
	}
	return nil
}

// ExportCalendar godoc
// @Summary Export all events as iCalendar
// @Tags Events
// @Produce text/calendar
// @Success 200 {string} string "iCalendar document"
// @Router /api/events.ics [get]
func (h *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// an iCalendar document needs at least one component
	if len(events) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := EncodeCalendar(&buf, events, time.Now()); err != nil {
		log.Error(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kalendar.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Errorf("could not write calendar export: %v", err)
	}
}
