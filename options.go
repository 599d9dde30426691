package mole

import (
	"strings"

	"github.com/dracory/mole/shared/constants"
)

// WithBasePath sets the mount path of the action endpoint.
func WithBasePath(path string) func(*Config) {
	return func(c *Config) { c.BasePath = path }
}

// WithActionParam sets the query parameter that selects the action.
func WithActionParam(param string) func(*Config) {
	return func(c *Config) { c.ActionParam = param }
}

// WithEnabledEngines restricts the engines accepted on create and update.
func WithEnabledEngines(engines ...string) func(*Config) {
	return func(c *Config) { c.EnabledEngines = engines }
}

// WithUserIDHeader sets the header the authenticated user id is read from.
func WithUserIDHeader(header string) func(*Config) {
	return func(c *Config) { c.UserIDHeader = header }
}

// withDefaults applies default values to Config.
func (c Config) withDefaults() Config {
	if c.ActionParam == "" {
		c.ActionParam = "action"
	}
	if c.BasePath == "" {
		c.BasePath = "/"
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		c.BasePath = "/" + c.BasePath
	}
	if c.UserIDHeader == "" {
		c.UserIDHeader = constants.DefaultUserIDHeader
	}
	return c
}
