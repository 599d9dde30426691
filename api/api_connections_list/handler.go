package api_connections_list

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/shared"
	"github.com/dracory/mole/shared/types"
)

// Handler lists the connections of the requesting user
type Handler struct {
	config  types.Config
	service ports.ConnectionService
}

// New creates a new connections list handler
func New(config types.Config, service ports.ConnectionService) *Handler {
	return &Handler{
		config:  config,
		service: service,
	}
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

	connections, err := h.service.ListConnections(r.Context(), userID)
	if err != nil {
		api.Respond(w, r, api.Error("failed to list connections: "+err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("", map[string]any{
		"connections": connections,
	}))
}
