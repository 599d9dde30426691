// Package engine names the database engines a connection can target.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned for engine names outside the known set.
var ErrUnsupported = errors.New("unsupported engine")

// Engine is a validated, canonical engine name.
type Engine string

// Supported engines
const (
	MySQL      Engine = "mysql"
	PostgreSQL Engine = "postgresql"
	SQLite     Engine = "sqlite"
)

// All lists every supported engine.
var All = []Engine{MySQL, PostgreSQL, SQLite}

// Parse normalizes name case-insensitively. The aliases "postgres" and
// "sqlite3" name the same engines.
func Parse(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return MySQL, nil
	case "postgresql", "postgres":
		return PostgreSQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
}

// String implements fmt.Stringer.
func (e Engine) String() string {
	return string(e)
}

// DefaultPort returns the conventional port, 0 for file based engines.
func (e Engine) DefaultPort() int {
	switch e {
	case MySQL:
		return 3306
	case PostgreSQL:
		return 5432
	default:
		return 0
	}
}

// IsFileBased reports whether the database parameter is a filesystem path.
func (e Engine) IsFileBased() bool {
	return e == SQLite
}
