package models

import (
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/approval"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalRequestModel is the persistence model for approval requests
type ApprovalRequestModel struct {
	TenantAggregateModel
	DocumentKind policy.DocumentKind `gorm:"type:varchar(50);not null"`
	ReferenceID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Reason       string              `gorm:"type:varchar(500)"`
	Status       approval.Status     `gorm:"type:varchar(20);not null;default:'pending'"`
	DecidedBy    *uuid.UUID          `gorm:"type:uuid"`
	DecidedAt    *time.Time
	DecisionNote string     `gorm:"type:varchar(500)"`
	AppliedBy    *uuid.UUID `gorm:"type:uuid"`
	AppliedAt    *time.Time
}

// TableName returns the table name for GORM
func (ApprovalRequestModel) TableName() string {
	return "approval_requests"
}

// ToDomain converts the persistence model to a domain Request.
func (m *ApprovalRequestModel) ToDomain() *approval.Request {
	r := &approval.Request{
		DocumentKind: m.DocumentKind,
		ReferenceID:  m.ReferenceID,
		Amount:       m.Amount,
		Reason:       m.Reason,
		Status:       m.Status,
		DecidedBy:    m.DecidedBy,
		DecidedAt:    m.DecidedAt,
		DecisionNote: m.DecisionNote,
		AppliedBy:    m.AppliedBy,
		AppliedAt:    m.AppliedAt,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// ApprovalRequestModelFromDomain creates a persistence model from a domain Request.
func ApprovalRequestModelFromDomain(r *approval.Request) *ApprovalRequestModel {
	m := &ApprovalRequestModel{
		DocumentKind: r.DocumentKind,
		ReferenceID:  r.ReferenceID,
		Amount:       r.Amount,
		Reason:       r.Reason,
		Status:       r.Status,
		DecidedBy:    r.DecidedBy,
		DecidedAt:    r.DecidedAt,
		DecisionNote: r.DecisionNote,
		AppliedBy:    r.AppliedBy,
		AppliedAt:    r.AppliedAt,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// AuditEntityType implements audit.Subject
func (m *ApprovalRequestModel) AuditEntityType() string { return "approval_request" }

// AuditAttributes implements audit.Subject
func (m *ApprovalRequestModel) AuditAttributes() map[string]any {
	attrs := m.auditColumns()
	attrs["document_kind"] = string(m.DocumentKind)
	attrs["reference_id"] = m.ReferenceID.String()
	attrs["amount"] = m.Amount
	attrs["reason"] = m.Reason
	attrs["status"] = string(m.Status)
	attrs["decided_by"] = uuidString(m.DecidedBy)
	attrs["decided_at"] = timeValue(m.DecidedAt)
	attrs["decision_note"] = m.DecisionNote
	attrs["applied_by"] = uuidString(m.AppliedBy)
	attrs["applied_at"] = timeValue(m.AppliedAt)
	return attrs
}
