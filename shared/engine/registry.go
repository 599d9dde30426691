package engine

import (
	"errors"
	"fmt"
	"sort"
)

// Registry tracks enabled engines.
type Registry struct {
	enabled map[Engine]struct{}
}

// NewRegistry constructs a registry from the provided names. Unknown and
// empty names are ignored. An empty list enables every engine.
func NewRegistry(names []string) *Registry {
	m := make(map[Engine]struct{}, len(names))
	for _, n := range names {
		e, err := Parse(n)
		if err != nil {
			continue
		}
		m[e] = struct{}{}
	}
	if len(m) == 0 {
		for _, e := range All {
			m[e] = struct{}{}
		}
	}
	return &Registry{enabled: m}
}

// IsEnabled returns true if the engine is enabled.
func (r *Registry) IsEnabled(e Engine) bool {
	_, ok := r.enabled[e]
	return ok
}

// List returns a sorted list of enabled engine names.
func (r *Registry) List() []string {
	out := make([]string, 0, len(r.enabled))
	for e := range r.enabled {
		out = append(out, string(e))
	}
	sort.Strings(out)
	return out
}

// Validate parses name and checks that the engine is enabled.
func (r *Registry) Validate(name string) (Engine, error) {
	if name == "" {
		return "", errors.New("engine is required")
	}
	e, err := Parse(name)
	if err != nil {
		return "", err
	}
	if !r.IsEnabled(e) {
		return "", fmt.Errorf("engine not enabled: %s", e)
	}
	return e, nil
}
