package persistence

import (
	"context"
	"fmt"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"gorm.io/gorm"
)

// AuditRecorder is notified after an audit entry is written
type AuditRecorder interface {
	RecordAuditEntry(ctx context.Context, action audit.Action, entityType string)
}

// AuditTrail turns repository mutations into audit entries. Repositories
// call it with their transaction handle so the entry commits or rolls back
// together with the change.
type AuditTrail struct {
	mirror   *audit.Mirror
	recorder AuditRecorder
}

// AuditTrailOption configures an AuditTrail
type AuditTrailOption func(*AuditTrail)

// WithAuditRecorder sets a recorder for written entries
func WithAuditRecorder(r AuditRecorder) AuditTrailOption {
	return func(a *AuditTrail) { a.recorder = r }
}

// NewAuditTrail creates an audit trail over mirror
func NewAuditTrail(mirror *audit.Mirror, opts ...AuditTrailOption) *AuditTrail {
	a := &AuditTrail{mirror: mirror}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Created writes the entry for a newly inserted subject
func (a *AuditTrail) Created(ctx context.Context, tx *gorm.DB, subject audit.Subject, meta audit.Meta) error {
	return a.write(ctx, tx, a.mirror.Created(subject, meta))
}

// Updated writes the entry for a changed subject. Nothing is written when
// only excluded attributes changed.
func (a *AuditTrail) Updated(ctx context.Context, tx *gorm.DB, before, after audit.Subject, meta audit.Meta) error {
	return a.write(ctx, tx, a.mirror.Updated(before, after, meta))
}

// Deleted writes the entry for a subject about to be deleted
func (a *AuditTrail) Deleted(ctx context.Context, tx *gorm.DB, subject audit.Subject, meta audit.Meta) error {
	return a.write(ctx, tx, a.mirror.Deleted(subject, meta))
}

func (a *AuditTrail) write(ctx context.Context, tx *gorm.DB, entry *audit.Entry) error {
	if entry == nil {
		return nil
	}
	if err := NewGormAuditLogRepository(tx).Create(ctx, entry); err != nil {
		return fmt.Errorf("write audit entry for %s %s: %w", entry.EntityType, entry.EntityID, err)
	}
	if a.recorder != nil {
		a.recorder.RecordAuditEntry(ctx, entry.Action, entry.EntityType)
	}
	return nil
}
