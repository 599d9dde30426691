// Package store persists database connection records with their secrets
// encrypted at rest.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dracory/mole/shared/constants"
	"github.com/dracory/mole/shared/engine"
	"github.com/dracory/mole/shared/types"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record matches the id and owner.
	ErrNotFound = errors.New("connection not found")
	// ErrValidation wraps input problems on create and update.
	ErrValidation = errors.New("invalid connection")
	// ErrSampleReadOnly is returned when mutating the built-in sample.
	ErrSampleReadOnly = errors.New("sample connection is read-only")
)

// Encrypter seals plaintext secrets.
type Encrypter interface {
	Encrypt(plaintext string) (string, error)
}

// Store is the gorm backed connection record store.
type Store struct {
	db      *gorm.DB
	cipher  Encrypter
	engines *engine.Registry
	auditor Auditor
	logger  *slog.Logger
	now     func() time.Time

	sampleEnabled bool
	sample        types.ConnectionRecord
}

// Option configures a Store.
type Option func(*Store)

// WithAuditor replaces the default gorm audit sink.
func WithAuditor(a Auditor) Option {
	return func(s *Store) { s.auditor = a }
}

// WithLogger sets the logger used for audit failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithEngines restricts the engines accepted on create and update.
func WithEngines(r *engine.Registry) Option {
	return func(s *Store) { s.engines = r }
}

// WithSample toggles the synthesized demo connection.
func WithSample(enabled bool) Option {
	return func(s *Store) { s.sampleEnabled = enabled }
}

// New creates a store on db. Call AutoMigrate before first use.
func New(db *gorm.DB, c Encrypter, options ...Option) *Store {
	s := &Store{
		db:            db,
		cipher:        c,
		engines:       engine.NewRegistry(nil),
		logger:        slog.Default(),
		now:           time.Now,
		sampleEnabled: true,
	}
	for _, option := range options {
		option(s)
	}
	if s.auditor == nil {
		s.auditor = NewGormAuditor(db)
	}
	s.sample = sampleRecord(s.now())
	return s
}

// AutoMigrate creates or updates the store tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&types.ConnectionRecord{}, &AuditEvent{})
}

// List returns the owner's connections ordered by name, secrets stripped.
func (s *Store) List(ctx context.Context, ownerUserID string) ([]types.ConnectionRecord, error) {
	var records []types.ConnectionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerUserID).
		Order("name ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	if s.sampleEnabled {
		records = append(records, s.sample)
		slices.SortStableFunc(records, func(a, b types.ConnectionRecord) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	return lo.Map(records, func(r types.ConnectionRecord, _ int) types.ConnectionRecord {
		return r.Stripped()
	}), nil
}

// Get returns one of the owner's connections, secrets stripped.
func (s *Store) Get(ctx context.Context, id, ownerUserID string) (types.ConnectionRecord, error) {
	if s.isSample(id) {
		return s.sample.Stripped(), nil
	}
	rec, err := s.find(ctx, id, ownerUserID)
	if err != nil {
		return types.ConnectionRecord{}, err
	}
	return rec.Stripped(), nil
}

// GetFull returns the record including its secret fields. It is not scoped
// to an owner and must not be exposed past the introspector.
func (s *Store) GetFull(ctx context.Context, id string) (types.ConnectionRecord, error) {
	if s.isSample(id) {
		return s.sample, nil
	}

	var rec types.ConnectionRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ConnectionRecord{}, ErrNotFound
	}
	if err != nil {
		return types.ConnectionRecord{}, fmt.Errorf("get connection: %w", err)
	}
	return rec, nil
}

// Create validates and persists a new connection.
func (s *Store) Create(ctx context.Context, in types.ConnectionInput, ownerUserID string) (types.ConnectionRecord, error) {
	if ownerUserID == "" {
		return types.ConnectionRecord{}, fmt.Errorf("%w: owner is required", ErrValidation)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return types.ConnectionRecord{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	e, err := s.engines.Validate(strings.TrimSpace(in.Engine))
	if err != nil {
		return types.ConnectionRecord{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if e.IsFileBased() && strings.TrimSpace(in.Database) == "" {
		return types.ConnectionRecord{}, fmt.Errorf("%w: database path is required", ErrValidation)
	}
	if !e.IsFileBased() && strings.TrimSpace(in.Host) == "" {
		return types.ConnectionRecord{}, fmt.Errorf("%w: host is required", ErrValidation)
	}

	port := in.Port
	if port <= 0 {
		port = e.DefaultPort()
	}

	encrypted, err := s.cipher.Encrypt(in.Password)
	if err != nil {
		return types.ConnectionRecord{}, fmt.Errorf("encrypt password: %w", err)
	}

	now := s.now()
	owner := ownerUserID
	rec := types.ConnectionRecord{
		ID:                uuid.NewString(),
		OwnerUserID:       &owner,
		Name:              name,
		Engine:            e.String(),
		Host:              strings.TrimSpace(in.Host),
		Port:              port,
		Database:          strings.TrimSpace(in.Database),
		Username:          strings.TrimSpace(in.Username),
		EncryptedPassword: encrypted,
		SSLEnabled:        in.SSLEnabled,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return types.ConnectionRecord{}, fmt.Errorf("create connection: %w", err)
	}

	s.audit(ctx, constants.EventConnectionCreated, fmt.Sprintf("Database connection %q created", rec.Name), rec.ID, ownerUserID)
	return rec.Stripped(), nil
}

// Update merges the supplied patch fields over the stored record.
func (s *Store) Update(ctx context.Context, id string, patch types.ConnectionPatch, ownerUserID string) (types.ConnectionRecord, error) {
	if s.isSample(id) {
		return types.ConnectionRecord{}, ErrSampleReadOnly
	}

	rec, err := s.find(ctx, id, ownerUserID)
	if err != nil {
		return types.ConnectionRecord{}, err
	}

	if err := s.applyPatch(&rec, patch); err != nil {
		return types.ConnectionRecord{}, err
	}
	rec.UpdatedAt = s.now()

	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return types.ConnectionRecord{}, fmt.Errorf("update connection: %w", err)
	}

	s.audit(ctx, constants.EventConnectionUpdated, fmt.Sprintf("Database connection %q updated", rec.Name), rec.ID, ownerUserID)
	return rec.Stripped(), nil
}

// Delete removes one of the owner's connections.
func (s *Store) Delete(ctx context.Context, id, ownerUserID string) error {
	if s.isSample(id) {
		return ErrSampleReadOnly
	}

	rec, err := s.find(ctx, id, ownerUserID)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerUserID).
		Delete(&types.ConnectionRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete connection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.audit(ctx, constants.EventConnectionDeleted, fmt.Sprintf("Database connection %q deleted", rec.Name), id, ownerUserID)
	return nil
}

// TouchLastUsed records that the connection was actively used.
func (s *Store) TouchLastUsed(ctx context.Context, id, ownerUserID string) (types.ConnectionRecord, error) {
	if s.isSample(id) {
		return s.sample.Stripped(), nil
	}

	rec, err := s.find(ctx, id, ownerUserID)
	if err != nil {
		return types.ConnectionRecord{}, err
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&rec).Update("last_used", now).Error; err != nil {
		return types.ConnectionRecord{}, fmt.Errorf("touch connection: %w", err)
	}
	rec.LastUsed = &now
	return rec.Stripped(), nil
}

func (s *Store) find(ctx context.Context, id, ownerUserID string) (types.ConnectionRecord, error) {
	var rec types.ConnectionRecord
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerUserID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ConnectionRecord{}, ErrNotFound
	}
	if err != nil {
		return types.ConnectionRecord{}, fmt.Errorf("find connection: %w", err)
	}
	return rec, nil
}

// applyPatch copies non-empty patch fields onto rec.
func (s *Store) applyPatch(rec *types.ConnectionRecord, p types.ConnectionPatch) error {
	if v := trimmed(p.Name); v != "" {
		rec.Name = v
	}
	if v := trimmed(p.Engine); v != "" {
		e, err := s.engines.Validate(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		rec.Engine = e.String()
	}
	if v := trimmed(p.Host); v != "" {
		rec.Host = v
	}
	if p.Port != nil && *p.Port > 0 {
		rec.Port = *p.Port
	}
	if v := trimmed(p.Database); v != "" {
		rec.Database = v
	}
	if v := trimmed(p.Username); v != "" {
		rec.Username = v
	}
	if p.SSLEnabled != nil {
		rec.SSLEnabled = *p.SSLEnabled
	}
	if p.Notes != nil && *p.Notes != "" {
		rec.Notes = *p.Notes
	}
	if p.Password != nil && *p.Password != "" {
		encrypted, err := s.cipher.Encrypt(*p.Password)
		if err != nil {
			return fmt.Errorf("encrypt password: %w", err)
		}
		rec.EncryptedPassword = encrypted
		rec.Password = ""
	}
	return nil
}

func (s *Store) isSample(id string) bool {
	return s.sampleEnabled && id == constants.SampleConnectionID
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
