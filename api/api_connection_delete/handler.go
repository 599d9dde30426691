package api_connection_delete

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/shared"
	"github.com/dracory/mole/shared/types"
)

// Handler deletes one connection
type Handler struct {
	config  types.Config
	service ports.ConnectionService
}

// New creates a new connection delete handler
func New(config types.Config, service ports.ConnectionService) *Handler {
	return &Handler{config: config, service: service}
}

// ServeHTTP handles the HTTP request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		api.Respond(w, r, api.Error("connection_delete must be POST or DELETE"))
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

	if err := h.service.DeleteConnection(r.Context(), id, userID); err != nil {
		api.Respond(w, r, api.Error(ports.ErrorMessage(err)))
		return
	}

	api.Respond(w, r, api.Success("connection deleted"))
}
