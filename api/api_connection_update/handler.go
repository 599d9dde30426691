package api_connection_update

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/shared"
	"github.com/dracory/mole/shared/types"
)

// Handler applies a partial update. Fields missing from the JSON body keep
// their stored values.
type Handler struct {
	config  types.Config
	service ports.ConnectionService
}

// New creates a new connection update handler
func New(config types.Config, service ports.ConnectionService) *Handler {
	return &Handler{config: config, service: service}
}

// ServeHTTP handles the HTTP request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPatch {
		api.Respond(w, r, api.Error("connection_update must be POST or PATCH"))
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

	var patch types.ConnectionPatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	if patch.Engine != nil {
		if err := shared.CheckEngine(h.config, *patch.Engine); err != nil {
			api.Respond(w, r, api.Error(err.Error()))
			return
		}
	}

	connection, err := h.service.UpdateConnection(r.Context(), id, patch, userID)
	if err != nil {
		api.Respond(w, r, api.Error(ports.ErrorMessage(err)))
		return
	}

	api.Respond(w, r, api.SuccessWithData("connection updated", map[string]any{
		"connection": connection,
	}))
}
