package ports

import (
	"context"

	"github.com/dracory/mole/shared/types"
)

// ConnectionService defines the operations the api packages call without
// depending on the mole root package.
type ConnectionService interface {
	ListConnections(ctx context.Context, userID string) ([]types.ConnectionRecord, error)
	GetConnection(ctx context.Context, id, userID string) (types.ConnectionRecord, error)
	CreateConnection(ctx context.Context, in types.ConnectionInput, userID string) (types.ConnectionRecord, error)
	UpdateConnection(ctx context.Context, id string, patch types.ConnectionPatch, userID string) (types.ConnectionRecord, error)
	DeleteConnection(ctx context.Context, id, userID string) error
	// Schema
	FetchSchema(ctx context.Context, id, userID string) (types.SchemaSnapshot, error)
	TestConnection(ctx context.Context, in types.ConnectionInput) types.TestResult
}
