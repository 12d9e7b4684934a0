package app

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/kalendar/internal/config"
	"github.com/klokku/kalendar/pkg/chat"
	"github.com/klokku/kalendar/pkg/event"
	"github.com/klokku/kalendar/pkg/llm"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventRepository event.Repository
	EventService    event.Service
	EventHandler    *event.Handler

	Provider    llm.Provider
	ChatService chat.Service
	ChatHandler *chat.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	return WireDependencies(event.NewRepository(db), llm.NewProvider(cfg.AI, &http.Client{}))
}

// WireDependencies builds services and handlers on top of the given repository and provider.
func WireDependencies(repo event.Repository, provider llm.Provider) *Dependencies {
	deps := &Dependencies{}

	deps.EventRepository = repo
	deps.EventService = event.NewService(deps.EventRepository)
	deps.EventHandler = event.NewHandler(deps.EventService)

	deps.Provider = provider
	deps.ChatService = chat.NewService(deps.EventService, deps.Provider)
	deps.ChatHandler = chat.NewHandler(deps.ChatService)

	return deps
}
