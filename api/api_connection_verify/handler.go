package api_connection_verify

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/shared"
	"github.com/dracory/mole/shared/types"
)

// Handler tries unsaved credentials against the target database
type Handler struct {
	config  types.Config
	service ports.ConnectionService
}

// New creates a new connection test handler
func New(config types.Config, service ports.ConnectionService) *Handler {
	return &Handler{config: config, service: service}
}

// ServeHTTP handles the HTTP request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("connection_test must be POST"))
		return
	}

	if shared.RequestUserID(h.config, r) == "" {
		api.Respond(w, r, api.Error("user is required"))
		return
	}

	var in types.ConnectionInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	result := h.service.TestConnection(r.Context(), in)
	if !result.Success {
		api.Respond(w, r, api.Error(result.Message))
		return
	}

	api.Respond(w, r, api.Success(result.Message))
}
