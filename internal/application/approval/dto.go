package approval

import (
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/approval"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateApprovalRequest opens an approval request for a document
type CreateApprovalRequest struct {
	DocumentKind string          `json:"document_kind" binding:"required,oneof=sales_order purchase_order expense inventory_adjustment credit_limit_change"`
	ReferenceID  uuid.UUID       `json:"reference_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required,positive_amount"`
	Reason       string          `json:"reason" binding:"max=500"`
}

// DecisionRequest carries the approver's note. Rejections need one.
type DecisionRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// CheckRequest asks whether a document may be finalized
type CheckRequest struct {
	DocumentKind string          `json:"document_kind" binding:"required,oneof=sales_order purchase_order expense inventory_adjustment credit_limit_change"`
	Amount       decimal.Decimal `json:"amount" binding:"required,nonnegative_amount"`
	ReferenceID  *uuid.UUID      `json:"reference_id"`
}

// CheckResponse reports a passed threshold check
type CheckResponse struct {
	DocumentKind     string           `json:"document_kind"`
	RequiresApproval bool             `json:"requires_approval"`
	Approved         bool             `json:"approved"`
	Threshold        *decimal.Decimal `json:"threshold,omitempty"`
}

// ApprovalResponse represents an approval request in API responses
type ApprovalResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	DocumentKind string          `json:"document_kind"`
	ReferenceID  uuid.UUID       `json:"reference_id"`
	Amount       decimal.Decimal `json:"amount"`
	Reason       string          `json:"reason"`
	Status       string          `json:"status"`
	RequestedBy  *uuid.UUID      `json:"requested_by,omitempty"`
	DecidedBy    *uuid.UUID      `json:"decided_by,omitempty"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
	DecisionNote string          `json:"decision_note,omitempty"`
	AppliedBy    *uuid.UUID      `json:"applied_by,omitempty"`
	AppliedAt    *time.Time      `json:"applied_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	Version      int             `json:"version"`
}

// ToApprovalResponse converts a domain Request to ApprovalResponse
func ToApprovalResponse(r *approval.Request) *ApprovalResponse {
	return &ApprovalResponse{
		ID:           r.ID,
		TenantID:     r.TenantID,
		DocumentKind: string(r.DocumentKind),
		ReferenceID:  r.ReferenceID,
		Amount:       r.Amount,
		Reason:       r.Reason,
		Status:       string(r.Status),
		RequestedBy:  r.RequestedBy(),
		DecidedBy:    r.DecidedBy,
		DecidedAt:    r.DecidedAt,
		DecisionNote: r.DecisionNote,
		AppliedBy:    r.AppliedBy,
		AppliedAt:    r.AppliedAt,
		CreatedAt:    r.CreatedAt,
		Version:      r.Version,
	}
}
