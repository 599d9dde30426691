package api_connection_get

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/shared"
	"github.com/dracory/mole/shared/types"
)

// Handler returns one connection without its secrets
type Handler struct {
	config  types.Config
	service ports.ConnectionService
}

// New creates a new connection get handler
func New(config types.Config, service ports.ConnectionService) *Handler {
	return &Handler{config: config, service: service}
}

// ServeHTTP handles the HTTP request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	userID := shared.RequestUserID(h.config, r)
	if userID == "" {
		api.Respond(w, r, api.Error("user is required"))
		return
	}

	id := shared.ConnectionID(r)
	if id == "" {
		api.Respond(w, r, api.Error("id is required"))
		return
	}

	connection, err := h.service.GetConnection(r.Context(), id, userID)
	if err != nil {
		api.Respond(w, r, api.Error(ports.ErrorMessage(err)))
		return
	}

	api.Respond(w, r, api.SuccessWithData("", map[string]any{
		"connection": connection,
	}))
}
