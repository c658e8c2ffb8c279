// Package approval tracks approval requests for documents that cross their
// tenant's approval threshold but carry no approval columns of their own.
package approval

import (
	"strings"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the decision state of a request
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	// StatusApplied marks an approval whose change has been carried out.
	// It cannot back a second change.
	StatusApplied Status = "applied"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusApplied:
		return true
	}
	return false
}

// IsFinal reports whether a decision has been taken
func (s Status) IsFinal() bool {
	return s != StatusPending
}

// Request asks an approver to sign off on a document.
// CreatedBy on the embedded root is the requester.
type Request struct {
	shared.TenantAggregateRoot
	DocumentKind policy.DocumentKind
	ReferenceID  uuid.UUID
	Amount       decimal.Decimal
	Reason       string
	Status       Status
	DecidedBy    *uuid.UUID
	DecidedAt    *time.Time
	DecisionNote string
	AppliedBy    *uuid.UUID
	AppliedAt    *time.Time
}

// NewRequest opens a pending request on behalf of actor
func NewRequest(actor shared.Actor, kind policy.DocumentKind, referenceID uuid.UUID, amount decimal.Decimal, reason string) (*Request, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_KIND", "Unknown document kind: "+string(kind))
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if len(reason) > 500 {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	req := &Request{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		DocumentKind:        kind,
		ReferenceID:         referenceID,
		Amount:              amount,
		Reason:              strings.TrimSpace(reason),
		Status:              StatusPending,
	}
	req.AddDomainEvent(NewRequestedEvent(req))
	return req, nil
}

// RequestedBy returns the requester
func (r *Request) RequestedBy() *uuid.UUID {
	return r.CreatedBy
}

// IsApproved reports whether the request was approved
func (r *Request) IsApproved() bool {
	return r.Status == StatusApproved
}

// Covers reports whether this request approves the given document
func (r *Request) Covers(kind policy.DocumentKind, referenceID uuid.UUID) bool {
	return r.DocumentKind == kind && r.ReferenceID == referenceID
}

// Approve records the approver's sign-off. Role separation is checked by the caller.
func (r *Request) Approve(approver uuid.UUID, note string) error {
	return r.decide(StatusApproved, approver, note)
}

// Reject records the approver's refusal
func (r *Request) Reject(approver uuid.UUID, note string) error {
	if strings.TrimSpace(note) == "" {
		return shared.NewDomainError("INVALID_NOTE", "A rejection needs a note")
	}
	return r.decide(StatusRejected, approver, note)
}

// MarkApplied consumes an approved request once the change it approved has
// been made. The approver may not apply their own approval.
func (r *Request) MarkApplied(applier uuid.UUID) error {
	if r.Status != StatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved requests can be applied, request is "+string(r.Status))
	}
	if applier == uuid.Nil {
		return shared.NewDomainError("INVALID_APPLIER", "Applier cannot be empty")
	}
	if r.DecidedBy != nil && *r.DecidedBy == applier {
		return policy.ApproverCannotApply()
	}

	now := time.Now()
	r.Status = StatusApplied
	r.AppliedBy = &applier
	r.AppliedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

func (r *Request) decide(status Status, approver uuid.UUID, note string) error {
	if r.Status.IsFinal() {
		return shared.NewDomainError("INVALID_STATE", "Request has already been "+string(r.Status))
	}
	if approver == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver cannot be empty")
	}

	now := time.Now()
	r.Status = status
	r.DecidedBy = &approver
	r.DecidedAt = &now
	r.DecisionNote = strings.TrimSpace(note)
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewDecidedEvent(r))
	return nil
}
