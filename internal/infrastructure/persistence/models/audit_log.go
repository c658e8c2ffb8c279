package models

import (
	"encoding/json"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditLogModel is the persistence model for audit entries.
// Old and new values are JSON documents; NULL when absent.
type AuditLogModel struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	Action     audit.Action `gorm:"type:varchar(20);not null"`
	ActorID    *uuid.UUID   `gorm:"type:uuid;index"`
	EntityType string       `gorm:"type:varchar(50);not null"`
	EntityID   uuid.UUID    `gorm:"type:uuid;not null"`
	OldValues  *string      `gorm:"type:jsonb"`
	NewValues  *string      `gorm:"type:jsonb"`
	Reason     string       `gorm:"type:varchar(500)"`
	Reference  string       `gorm:"type:varchar(200)"`
	IPAddress  string       `gorm:"type:varchar(64)"`
	UserAgent  string       `gorm:"type:varchar(500)"`
	CreatedAt  time.Time    `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain Entry.
func (m *AuditLogModel) ToDomain() (*audit.Entry, error) {
	e := &audit.Entry{
		ID:         m.ID,
		TenantID:   m.TenantID,
		Action:     m.Action,
		ActorID:    m.ActorID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Reason:     m.Reason,
		Reference:  m.Reference,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
		CreatedAt:  m.CreatedAt,
	}
	var err error
	if e.OldValues, err = decodeValues(m.OldValues); err != nil {
		return nil, err
	}
	if e.NewValues, err = decodeValues(m.NewValues); err != nil {
		return nil, err
	}
	return e, nil
}

// AuditLogModelFromDomain creates a persistence model from a domain Entry.
func AuditLogModelFromDomain(e *audit.Entry) (*AuditLogModel, error) {
	m := &AuditLogModel{
		ID:         e.ID,
		TenantID:   e.TenantID,
		Action:     e.Action,
		ActorID:    e.ActorID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Reason:     e.Reason,
		Reference:  e.Reference,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		CreatedAt:  e.CreatedAt,
	}
	var err error
	if m.OldValues, err = encodeValues(e.OldValues); err != nil {
		return nil, err
	}
	if m.NewValues, err = encodeValues(e.NewValues); err != nil {
		return nil, err
	}
	return m, nil
}

func encodeValues(values map[string]any) (*string, error) {
	if values == nil {
		return nil, nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func decodeValues(raw *string) (map[string]any, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(*raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}
