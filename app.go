// Package mole stores database connection credentials and introspects the
// schemas of MySQL, PostgreSQL and SQLite databases through a single JSON
// action endpoint.
package mole

import (
	"net/http"

	"github.com/dracory/mole/api/api_connection_create"
	"github.com/dracory/mole/api/api_connection_delete"
	"github.com/dracory/mole/api/api_connection_get"
	"github.com/dracory/mole/api/api_connection_schema"
	"github.com/dracory/mole/api/api_connection_update"
	"github.com/dracory/mole/api/api_connection_verify"
	"github.com/dracory/mole/api/api_connections_list"
	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/shared/constants"
)

// App represents the main application instance
type App struct {
	config  Config
	service ports.ConnectionService
}

// New creates a new App serving service with the given configuration.
// The configuration should be loaded using LoadConfig() from config.go
func New(cfg Config, service ports.ConnectionService, options ...func(*Config)) *App {
	for _, option := range options {
		option(&cfg)
	}

	return &App{
		config:  cfg.withDefaults(),
		service: service,
	}
}

// Handler returns an http.Handler serving the action endpoint
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(a.config.BasePath, a.handleRequest)
	return a.middleware(mux)
}

// handleRequest routes requests to the appropriate handler
func (a *App) handleRequest(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get(a.config.ActionParam)
	web := a.config.toWebConfig()

	switch action {
	case constants.ActionHealthz:
		writeHealthz(w, r)

	case constants.ActionConnectionsList:
		api_connections_list.New(web, a.service).ServeHTTP(w, r)

	case constants.ActionConnectionGet:
		api_connection_get.New(web, a.service).ServeHTTP(w, r)

	case constants.ActionConnectionCreate:
		api_connection_create.New(web, a.service).ServeHTTP(w, r)

	case constants.ActionConnectionUpdate:
		api_connection_update.New(web, a.service).ServeHTTP(w, r)

	case constants.ActionConnectionDelete:
		api_connection_delete.New(web, a.service).ServeHTTP(w, r)

	case constants.ActionConnectionSchema:
		api_connection_schema.New(web, a.service).ServeHTTP(w, r)

	case constants.ActionConnectionTest:
		api_connection_verify.New(web, a.service).ServeHTTP(w, r)

	default:
		writeUnknownAction(w, r, action)
	}
}

// middleware applies common middleware to all handlers
func (a *App) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}
