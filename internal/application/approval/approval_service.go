// Package approval holds the approval request use cases and the threshold
// predicate for documents that carry no approval columns of their own.
package approval

import (
	"context"
	"errors"

	apppolicy "github.com/agbona24/firstgiwa-erp-sub006/internal/application/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/approval"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApprovalService manages approval requests
type ApprovalService struct {
	requestRepo    approval.RequestRepository
	documents      DocumentCreators
	policies       apppolicy.GuardProvider
	rules          apppolicy.RuleRecorder
	eventPublisher shared.EventPublisher
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(requestRepo approval.RequestRepository, documents DocumentCreators, policies apppolicy.GuardProvider) *ApprovalService {
	return &ApprovalService{
		requestRepo: requestRepo,
		documents:   documents,
		policies:    policies,
		rules:       apppolicy.NopRuleRecorder(),
	}
}

// SetEventPublisher sets the event publisher
func (s *ApprovalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRuleRecorder sets where rule rejections are counted
func (s *ApprovalService) SetRuleRecorder(recorder apppolicy.RuleRecorder) {
	s.rules = recorder
}

// Create opens a pending request
func (s *ApprovalService) Create(ctx context.Context, actor shared.Actor, req CreateApprovalRequest) (*ApprovalResponse, error) {
	request, err := approval.NewRequest(actor, policy.DocumentKind(req.DocumentKind), req.ReferenceID, req.Amount, req.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Create(ctx, request, audit.NewMeta(actor)); err != nil {
		return nil, err
	}
	s.publish(ctx, request)
	return ToApprovalResponse(request), nil
}

// GetByID retrieves a request
func (s *ApprovalService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ApprovalResponse, error) {
	request, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToApprovalResponse(request), nil
}

// Approve signs off a request. Only approvers may decide, and never on a
// request they raised or on a document they booked.
func (s *ApprovalService) Approve(ctx context.Context, actor shared.Actor, id uuid.UUID, req DecisionRequest) (*ApprovalResponse, error) {
	return s.decide(ctx, actor, id, "approval.approve", func(r *approval.Request) error {
		return r.Approve(actor.UserID, req.Note)
	})
}

// Reject refuses a request with a note
func (s *ApprovalService) Reject(ctx context.Context, actor shared.Actor, id uuid.UUID, req DecisionRequest) (*ApprovalResponse, error) {
	return s.decide(ctx, actor, id, "approval.reject", func(r *approval.Request) error {
		return r.Reject(actor.UserID, req.Note)
	})
}

func (s *ApprovalService) decide(ctx context.Context, actor shared.Actor, id uuid.UUID, operation string, decision func(*approval.Request) error) (resp *ApprovalResponse, err error) {
	defer func() { apppolicy.ObserveRejection(ctx, s.rules, actor.TenantID, operation, err) }()

	if !actor.HasRole(identity.RoleCodeApprover) {
		return nil, shared.NewDomainError("FORBIDDEN", "Only approvers can decide approval requests")
	}
	request, err := s.requestRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	roles := s.policies.Guards(ctx, actor.TenantID).Roles
	if err := roles.CheckApproval(actor, request.RequestedBy()); err != nil {
		return nil, err
	}
	creator, err := s.documents.CreatorOf(ctx, actor.TenantID, request.DocumentKind, request.ReferenceID)
	if err != nil {
		return nil, err
	}
	if err := roles.CheckApproval(actor, creator); err != nil {
		return nil, err
	}
	if err := decision(request); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request, audit.NewMeta(actor).WithReason(request.DecisionNote)); err != nil {
		return nil, err
	}
	s.publish(ctx, request)
	return ToApprovalResponse(request), nil
}

// Check runs the threshold predicate for finalizing a document. It fails
// with ApprovalRequired when the amount is over the threshold and the latest
// request for the reference is not an approval covering the amount.
func (s *ApprovalService) Check(ctx context.Context, actor shared.Actor, req CheckRequest) (resp *CheckResponse, err error) {
	defer func() { apppolicy.ObserveRejection(ctx, s.rules, actor.TenantID, "approval.check", err) }()

	kind := policy.DocumentKind(req.DocumentKind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_KIND", "Unknown document kind: "+req.DocumentKind)
	}
	checker := s.policies.Guards(ctx, actor.TenantID).Approvals

	resp = &CheckResponse{DocumentKind: req.DocumentKind, RequiresApproval: checker.Requires(kind, req.Amount)}
	if threshold, ok := checker.Threshold(kind); ok {
		resp.Threshold = &threshold
	}
	if resp.RequiresApproval && req.ReferenceID != nil {
		latest, err := s.requestRepo.FindLatestForDocument(ctx, actor.TenantID, kind, *req.ReferenceID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			resp.Approved = latest.IsApproved() && latest.Amount.GreaterThanOrEqual(req.Amount)
		}
	}
	if err := checker.Check(kind, req.Amount, resp.Approved); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ApprovalService) publish(ctx context.Context, request *approval.Request) {
	events := request.GetDomainEvents()
	request.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Error("Failed to publish approval events", zap.Error(err))
	}
}
