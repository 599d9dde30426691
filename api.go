package mole

import (
	"net/http"

	api "github.com/dracory/api"
)

func writeHealthz(w http.ResponseWriter, r *http.Request) {
	api.Respond(w, r, api.Success("ok"))
}

// writeUnknownAction answers actions the router does not serve.
func writeUnknownAction(w http.ResponseWriter, r *http.Request, action string) {
	if action == "" {
		api.RespondWithStatusCode(w, r, api.Error("action is required"), http.StatusBadRequest)
		return
	}
	api.RespondWithStatusCode(w, r, api.Error("unknown action: "+action), http.StatusNotFound)
}
