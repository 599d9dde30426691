package adapters

import (
	"context"

	"github.com/dracory/mole/shared/constants"
	"github.com/dracory/mole/shared/engine"
)

// Dispatcher routes an introspection to the adapter for an engine name.
type Dispatcher struct {
	mysql    Adapter
	postgres Adapter
	sqlite   Adapter
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAdapter replaces the adapter used for e.
func WithAdapter(e engine.Engine, a Adapter) DispatcherOption {
	return func(d *Dispatcher) {
		switch e {
		case engine.MySQL:
			d.mysql = a
		case engine.PostgreSQL:
			d.postgres = a
		case engine.SQLite:
			d.sqlite = a
		}
	}
}

// NewDispatcher builds a dispatcher with the default adapter for every
// engine unless overridden.
func NewDispatcher(options ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		mysql:    NewMySQLAdapter(nil),
		postgres: NewPostgresAdapter(nil),
		sqlite:   NewSQLiteAdapter(nil),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// For returns the adapter for e, or nil for an unknown engine.
func (d *Dispatcher) For(e engine.Engine) Adapter {
	switch e {
	case engine.MySQL:
		return d.mysql
	case engine.PostgreSQL:
		return d.postgres
	case engine.SQLite:
		return d.sqlite
	}
	return nil
}

// Introspect parses engineName case-insensitively and runs the matching
// adapter. Unknown names produce an unsuccessful result, not an error.
func (d *Dispatcher) Introspect(ctx context.Context, engineName string, cfg Config) Result {
	e, err := engine.Parse(engineName)
	if err != nil {
		return Failed(constants.MessageUnsupportedEngine + engineName)
	}

	adapter := d.For(e)
	if adapter == nil {
		return Failed(constants.MessageUnsupportedEngine + engineName)
	}
	return adapter.Introspect(ctx, cfg)
}
