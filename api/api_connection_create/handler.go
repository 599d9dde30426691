package api_connection_create

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/shared"
	"github.com/dracory/mole/shared/types"
)

// Handler creates a connection from a JSON body
type Handler struct {
	config  types.Config
	service ports.ConnectionService
}

// New creates a new connection create handler
func New(config types.Config, service ports.ConnectionService) *Handler {
	return &Handler{config: config, service: service}
}

// ServeHTTP handles the HTTP request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("connection_create must be POST"))
		return
	}

	userID := shared.RequestUserID(h.config, r)
	if userID == "" {
		api.Respond(w, r, api.Error("user is required"))
		return
	}

	var in types.ConnectionInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	if err := shared.CheckEngine(h.config, in.Engine); err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	connection, err := h.service.CreateConnection(r.Context(), in, userID)
	if err != nil {
		api.Respond(w, r, api.Error(ports.ErrorMessage(err)))
		return
	}

	api.Respond(w, r, api.SuccessWithData("connection created", map[string]any{
		"connection": connection,
	}))
}
