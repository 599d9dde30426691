// Package adapters runs engine specific catalog queries against a target
// database and normalizes the results.
package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/dracory/mole/shared/engine"
	"github.com/dracory/mole/shared/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectTimeout bounds connection establishment. Query execution is not
// bounded.
const ConnectTimeout = 10 * time.Second

// Config holds the parameters of one target database. Password is the
// decrypted plaintext.
type Config struct {
	Host       string
	Port       int
	Database   string
	Username   string
	Password   string
	SSLEnabled bool
}

// Result is the raw outcome of one introspection.
type Result struct {
	Success      bool
	Message      string
	Tables       []types.TableInfo
	TableColumns map[string][]types.ColumnInfo
}

// Adapter introspects one engine. Implementations never panic on database
// errors and always release their connection before returning.
type Adapter interface {
	Introspect(ctx context.Context, cfg Config) Result
}

// Opener opens a short-lived connection for cfg.
type Opener func(cfg Config) (*gorm.DB, error)

// ConnectError reports a failure to establish the connection. It is
// terminal for the call.
type ConnectError struct {
	Engine engine.Engine
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Engine, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// QueryError reports a failed catalog query on an open connection.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query failed: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Failed builds an unsuccessful result with empty collections.
func Failed(message string) Result {
	return Result{
		Success:      false,
		Message:      message,
		Tables:       []types.TableInfo{},
		TableColumns: map[string][]types.ColumnInfo{},
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
}

// singleConnection caps the pool at one connection; nothing is reused
// across calls.
func singleConnection(db *gorm.DB) (*gorm.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return db, nil
}

// closeDB releases the connection. Close errors are ignored.
func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
