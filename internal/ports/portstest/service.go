// Package portstest provides an in-memory ports.ConnectionService for
// handler tests.
package portstest

import (
	"context"
	"strconv"
	"sync"

	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/internal/store"
	"github.com/dracory/mole/shared/types"
)

var _ ports.ConnectionService = (*Service)(nil)

// Service keeps records per owner in memory. Schema and TestResult are
// returned verbatim; Err, when set, fails every record operation.
type Service struct {
	mu      sync.Mutex
	records map[string]types.ConnectionRecord
	nextID  int

	Schema     types.SchemaSnapshot
	TestResult types.TestResult
	Err        error

	LastInput types.ConnectionInput
	LastPatch types.ConnectionPatch
}

// New returns an empty fake.
func New() *Service {
	return &Service{records: map[string]types.ConnectionRecord{}}
}

// Seed stores rec as is.
func (s *Service) Seed(rec types.ConnectionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
}

func (s *Service) ListConnections(_ context.Context, userID string) ([]types.ConnectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []types.ConnectionRecord{}
	for _, rec := range s.records {
		if owned(rec, userID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Service) GetConnection(_ context.Context, id, userID string) (types.ConnectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id, userID)
}

func (s *Service) CreateConnection(_ context.Context, in types.ConnectionInput, userID string) (types.ConnectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastInput = in
	if s.Err != nil {
		return types.ConnectionRecord{}, s.Err
	}
	s.nextID++
	owner := userID
	rec := types.ConnectionRecord{
		ID:          "conn-" + strconv.Itoa(s.nextID),
		OwnerUserID: &owner,
		Name:        in.Name,
		Engine:      in.Engine,
		Host:        in.Host,
		Port:        in.Port,
		Database:    in.Database,
		Username:    in.Username,
	}
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *Service) UpdateConnection(_ context.Context, id string, patch types.ConnectionPatch, userID string) (types.ConnectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastPatch = patch
	rec, err := s.find(id, userID)
	if err != nil {
		return rec, err
	}
	if patch.Name != nil && *patch.Name != "" {
		rec.Name = *patch.Name
	}
	s.records[id] = rec
	return rec, nil
}

func (s *Service) DeleteConnection(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.find(id, userID); err != nil {
		return err
	}
	delete(s.records, id)
	return nil
}

func (s *Service) FetchSchema(_ context.Context, id, userID string) (types.SchemaSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.find(id, userID); err != nil {
		return types.SchemaSnapshot{}, err
	}
	return s.Schema, nil
}

func (s *Service) TestConnection(_ context.Context, in types.ConnectionInput) types.TestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastInput = in
	return s.TestResult
}

func (s *Service) find(id, userID string) (types.ConnectionRecord, error) {
	if s.Err != nil {
		return types.ConnectionRecord{}, s.Err
	}
	rec, ok := s.records[id]
	if !ok || !owned(rec, userID) {
		return types.ConnectionRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func owned(rec types.ConnectionRecord, userID string) bool {
	return rec.OwnerUserID != nil && *rec.OwnerUserID == userID
}
