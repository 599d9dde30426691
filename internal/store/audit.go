package store

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// AuditEvent records one connection mutation.
type AuditEvent struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Kind         string    `json:"kind" gorm:"size:64;not null"`
	Message      string    `json:"message"`
	ConnectionID string    `json:"connectionId" gorm:"size:36;index"`
	UserID       string    `json:"userId" gorm:"size:64"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName implements gorm's tabler interface.
func (AuditEvent) TableName() string {
	return "audit_events"
}

// Auditor receives audit events.
type Auditor interface {
	Record(ctx context.Context, event AuditEvent) error
}

// GormAuditor writes audit events to the audit_events table.
type GormAuditor struct {
	db *gorm.DB
}

// NewGormAuditor creates an auditor on db.
func NewGormAuditor(db *gorm.DB) *GormAuditor {
	return &GormAuditor{db: db}
}

// Record implements Auditor.
func (a *GormAuditor) Record(ctx context.Context, event AuditEvent) error {
	return a.db.WithContext(ctx).Create(&event).Error
}

// audit emits one event. Failures are logged and never undo the mutation.
func (s *Store) audit(ctx context.Context, kind, message, connectionID, userID string) {
	err := s.auditor.Record(ctx, AuditEvent{
		Kind:         kind,
		Message:      message,
		ConnectionID: connectionID,
		UserID:       userID,
		CreatedAt:    s.now(),
	})
	if err != nil {
		s.logger.Error("audit event failed",
			slog.String("kind", kind),
			slog.String("connection_id", connectionID),
			slog.String("error", err.Error()),
		)
	}
}
