package approval

import (
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeApprovalRequested = "ApprovalRequested"
	EventTypeApprovalDecided   = "ApprovalDecided"

	AggregateTypeApprovalRequest = "ApprovalRequest"
)

// RequestedEvent is raised when a request is opened
type RequestedEvent struct {
	shared.BaseDomainEvent
	DocumentKind string          `json:"document_kind"`
	ReferenceID  uuid.UUID       `json:"reference_id"`
	Amount       decimal.Decimal `json:"amount"`
	RequestedBy  *uuid.UUID      `json:"requested_by,omitempty"`
}

// NewRequestedEvent creates a RequestedEvent
func NewRequestedEvent(r *Request) *RequestedEvent {
	return &RequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApprovalRequested, AggregateTypeApprovalRequest, r.ID, r.TenantID),
		DocumentKind:    string(r.DocumentKind),
		ReferenceID:     r.ReferenceID,
		Amount:          r.Amount,
		RequestedBy:     r.CreatedBy,
	}
}

// DecidedEvent is raised when a request is approved or rejected
type DecidedEvent struct {
	shared.BaseDomainEvent
	DocumentKind string     `json:"document_kind"`
	ReferenceID  uuid.UUID  `json:"reference_id"`
	Status       string     `json:"status"`
	DecidedBy    *uuid.UUID `json:"decided_by,omitempty"`
}

// NewDecidedEvent creates a DecidedEvent
func NewDecidedEvent(r *Request) *DecidedEvent {
	return &DecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApprovalDecided, AggregateTypeApprovalRequest, r.ID, r.TenantID),
		DocumentKind:    string(r.DocumentKind),
		ReferenceID:     r.ReferenceID,
		Status:          string(r.Status),
		DecidedBy:       r.DecidedBy,
	}
}
