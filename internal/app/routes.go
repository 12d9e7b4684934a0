package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Events
	r.HandleFunc("/api/events", deps.EventHandler.ListEvents).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/events", deps.EventHandler.CreateEvent).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/events.ics", deps.EventHandler.ExportCalendar).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/events/{id}", deps.EventHandler.UpdateEvent).Methods("PUT", "OPTIONS")
	r.HandleFunc("/api/events/{id}", deps.EventHandler.DeleteEvent).Methods("DELETE", "OPTIONS")

	// Assistant
	r.HandleFunc("/api/chat", deps.ChatHandler.Chat).Methods("POST", "OPTIONS")

	r.HandleFunc("/", health).Methods("GET")
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Calendar API is running"))
}
