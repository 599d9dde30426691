package mole

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/dracory/mole/internal/adapters"
	"github.com/dracory/mole/internal/introspect"
	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/internal/store"
	"github.com/dracory/mole/shared/constants"
	"github.com/dracory/mole/shared/engine"
	"github.com/dracory/mole/shared/types"
	"golang.org/x/sync/errgroup"
)

var _ ports.ConnectionService = (*Service)(nil)

// DefaultFetchLimit bounds FetchSchemas when the caller passes no limit.
const DefaultFetchLimit = 4

// Service is the connection façade used by the HTTP layer: owner scoped
// record management plus schema introspection.
type Service struct {
	store        *store.Store
	introspector *introspect.Introspector
	dispatcher   introspect.Dispatcher
	logger       *slog.Logger
}

// NewService wires the store, the secret decrypter and the adapter
// dispatcher. A nil logger falls back to slog.Default.
func NewService(st *store.Store, decrypter introspect.Decrypter, dispatcher introspect.Dispatcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:        st,
		introspector: introspect.New(st, decrypter, dispatcher, logger),
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

func (s *Service) ListConnections(ctx context.Context, userID string) ([]types.ConnectionRecord, error) {
	return s.store.List(ctx, userID)
}

func (s *Service) GetConnection(ctx context.Context, id, userID string) (types.ConnectionRecord, error) {
	return s.store.Get(ctx, id, userID)
}

func (s *Service) CreateConnection(ctx context.Context, in types.ConnectionInput, userID string) (types.ConnectionRecord, error) {
	return s.store.Create(ctx, in, userID)
}

func (s *Service) UpdateConnection(ctx context.Context, id string, patch types.ConnectionPatch, userID string) (types.ConnectionRecord, error) {
	return s.store.Update(ctx, id, patch, userID)
}

func (s *Service) DeleteConnection(ctx context.Context, id, userID string) error {
	return s.store.Delete(ctx, id, userID)
}

// TouchConnection marks the connection as used now.
func (s *Service) TouchConnection(ctx context.Context, id, userID string) (types.ConnectionRecord, error) {
	return s.store.TouchLastUsed(ctx, id, userID)
}

// FetchSchema introspects one of the user's connections. Results are not
// cached. A successful introspection also updates the last used time.
func (s *Service) FetchSchema(ctx context.Context, id, userID string) (types.SchemaSnapshot, error) {
	if _, err := s.store.Get(ctx, id, userID); err != nil {
		return types.SchemaSnapshot{}, err
	}

	snapshot := s.introspector.FetchSchemaForConnection(ctx, id)
	if snapshot.Success {
		if _, err := s.store.TouchLastUsed(ctx, id, userID); err != nil {
			s.logger.Warn("touch last used failed",
				slog.String("connection_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
	return snapshot, nil
}

// FetchSchemas introspects several connections with at most limit calls
// in flight. Connections the user cannot see get a failure snapshot.
func (s *Service) FetchSchemas(ctx context.Context, ids []string, userID string, limit int) map[string]types.SchemaSnapshot {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	var mu sync.Mutex
	out := make(map[string]types.SchemaSnapshot, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range ids {
		g.Go(func() error {
			snapshot, err := s.FetchSchema(gctx, id, userID)
			if err != nil {
				snapshot = introspect.Snapshot(adapters.Failed(errorMessage(err)))
			}
			mu.Lock()
			out[id] = snapshot
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// TestConnection tries the given credentials without persisting them.
func (s *Service) TestConnection(ctx context.Context, in types.ConnectionInput) types.TestResult {
	cfg := adapters.Config{
		Host:       strings.TrimSpace(in.Host),
		Port:       in.Port,
		Database:   strings.TrimSpace(in.Database),
		Username:   strings.TrimSpace(in.Username),
		Password:   in.Password,
		SSLEnabled: in.SSLEnabled,
	}
	if e, err := engine.Parse(in.Engine); err == nil && cfg.Port <= 0 {
		cfg.Port = e.DefaultPort()
	}

	result := s.dispatcher.Introspect(ctx, in.Engine, cfg)
	if !result.Success {
		return types.TestResult{Success: false, Message: result.Message}
	}

	message := result.Message
	if message == "" {
		message = "Connection successful"
	}
	return types.TestResult{Success: true, Message: message}
}

func errorMessage(err error) string {
	if errors.Is(err, store.ErrNotFound) {
		return constants.MessageConnectionNotFound
	}
	return err.Error()
}
