package adapters

import (
	"context"

	"github.com/dracory/mole/shared/types"
	"github.com/spf13/afero"
)

// SQLiteAdapter only verifies that the database file exists. It never
// opens the file.
type SQLiteAdapter struct {
	fs afero.Fs
}

// NewSQLiteAdapter returns an adapter checking paths on fs, or on the OS
// filesystem when fs is nil.
func NewSQLiteAdapter(fs afero.Fs) *SQLiteAdapter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &SQLiteAdapter{fs: fs}
}

func (a *SQLiteAdapter) Introspect(_ context.Context, cfg Config) Result {
	path := cfg.Database
	if path == "" {
		return Failed("SQLite database path is required")
	}

	info, err := a.fs.Stat(path)
	if err != nil || info.IsDir() {
		return Failed("SQLite database file not found: " + path)
	}

	return Result{
		Success:      true,
		Message:      "SQLite database file found. Detailed schema retrieval is not implemented for SQLite.",
		Tables:       []types.TableInfo{},
		TableColumns: map[string][]types.ColumnInfo{},
	}
}
