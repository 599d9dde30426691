package types

import "net/http"

// Config contains the configuration for web handlers
type Config struct {
	// BasePath is the base URL path for the application
	BasePath string
	// ActionParam is the query parameter used for actions
	ActionParam string
	// EnabledEngines is the list of enabled database engines
	EnabledEngines []string
	// UserID resolves the authenticated user of a request. Authentication
	// itself happens upstream.
	UserID func(r *http.Request) string
}

// HeaderUserID returns a resolver reading the user id from the named
// request header, as set by an upstream auth proxy.
func HeaderUserID(header string) func(r *http.Request) string {
	return func(r *http.Request) string {
		return r.Header.Get(header)
	}
}
