package models

import (
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantAggregateModel provides the common columns of tenant-scoped aggregate roots.
// Version backs optimistic locking; DeletedAt backs soft deletes.
type TenantAggregateModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid;index"`
	Version   int            `gorm:"not null;default:1"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// FromDomainTenantAggregateRoot populates the columns from a domain root
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.ID = t.ID
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
	m.Version = t.Version
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
}

// PopulateTenantAggregateRoot copies the columns into a domain root
func (m *TenantAggregateModel) PopulateTenantAggregateRoot(t *shared.TenantAggregateRoot) {
	t.ID = m.ID
	t.TenantID = m.TenantID
	t.CreatedBy = m.CreatedBy
	t.Version = m.Version
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.UpdatedAt
	t.MarkPersisted()
}

// AuditEntityID implements audit.Subject
func (m *TenantAggregateModel) AuditEntityID() uuid.UUID {
	return m.ID
}

// auditColumns returns the base columns as audit attributes
func (m *TenantAggregateModel) auditColumns() map[string]any {
	return map[string]any{
		"id":         m.ID.String(),
		"tenant_id":  m.TenantID.String(),
		"created_by": uuidString(m.CreatedBy),
		"version":    m.Version,
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
	}
}

func uuidString(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
