package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dracory/mole/shared/constants"
	"github.com/dracory/mole/shared/engine"
	"github.com/dracory/mole/shared/types"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// RequestUserID resolves the authenticated user of r, trimmed. Empty means
// the request is anonymous.
func RequestUserID(cfg types.Config, r *http.Request) string {
	resolve := cfg.UserID
	if resolve == nil {
		resolve = types.HeaderUserID(constants.DefaultUserIDHeader)
	}
	return strings.TrimSpace(resolve(r))
}

// ConnectionID reads the id query parameter.
func ConnectionID(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("id"))
}

// DecodeJSON reads a JSON request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

// CheckEngine rejects a named engine that cfg does not enable. An empty
// name passes so the store can report the missing field.
func CheckEngine(cfg types.Config, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if _, err := engine.NewRegistry(cfg.EnabledEngines).Validate(name); err != nil {
		return fmt.Errorf("invalid connection: %w", err)
	}
	return nil
}
