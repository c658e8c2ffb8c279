// Package partner holds the customer use cases: creation, credit limit changes
// under approval thresholds, and status changes.
package partner

import (
	"context"
	"errors"

	apppolicy "github.com/agbona24/firstgiwa-erp-sub006/internal/application/policy"
	apptrade "github.com/agbona24/firstgiwa-erp-sub006/internal/application/trade"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/approval"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/logger"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	scope          apptrade.TransactionScope
	policies       apppolicy.GuardProvider
	rules          apppolicy.RuleRecorder
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, scope apptrade.TransactionScope, policies apppolicy.GuardProvider) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		scope:        scope,
		policies:     policies,
		rules:        apppolicy.NopRuleRecorder(),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRuleRecorder sets where rule rejections are counted
func (s *CustomerService) SetRuleRecorder(recorder apppolicy.RuleRecorder) {
	s.rules = recorder
}

// Create creates a new customer. An initial credit limit counts as an increase
// from zero, so one above the credit_limit_change threshold is refused; such
// limits are raised afterwards through an approved request.
func (s *CustomerService) Create(ctx context.Context, actor shared.Actor, req CreateCustomerRequest) (resp *CustomerResponse, err error) {
	defer func() { s.observe(ctx, actor, "customer.create", err) }()

	exists, err := s.customerRepo.ExistsByCode(ctx, actor.TenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}

	customer, err := partner.NewCustomer(actor, req.Code, req.Name, partner.CustomerType(req.Type))
	if err != nil {
		return nil, err
	}
	customer.SetContact(req.Phone, req.Email, req.Address)
	customer.Notes = req.Notes
	if req.PaymentTermsDays != nil {
		if err := customer.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}
	if req.CreditLimit != nil && !req.CreditLimit.IsZero() {
		if customer.IsCashOnly() {
			return nil, shared.NewDomainError("CREDIT_NOT_ALLOWED", "Cash customers cannot have a credit limit")
		}
		guards := s.policies.Guards(ctx, actor.TenantID)
		if err := guards.Approvals.Check(policy.DocumentCreditLimitChange, *req.CreditLimit, false); err != nil {
			return nil, err
		}
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Create(ctx, customer, audit.NewMeta(actor)); err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) (shared.Paginated[CustomerResponse], error) {
	domainFilter := filter.toDomainFilter()
	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	return shared.NewPaginated(ToCustomerResponses(customers), total, domainFilter.Page, domainFilter.PageSize), nil
}

// UpdateCreditLimit sets a new credit limit. Decreases always pass. An
// increase above the tenant's credit_limit_change threshold needs the latest
// approval request for the customer to be approved for at least the increase.
// That request is marked applied in the same transaction, so it backs one
// increase only, and its approver cannot be the one applying it.
func (s *CustomerService) UpdateCreditLimit(ctx context.Context, actor shared.Actor, customerID uuid.UUID, req UpdateCreditLimitRequest) (resp *CustomerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "update_credit_limit",
		telemetry.SpanAttrTenantID, actor.TenantID,
		telemetry.SpanAttrCustomerID, customerID,
		telemetry.SpanAttrAmount, req.CreditLimit.String(),
	)
	defer span.End()
	defer func() { s.observe(ctx, actor, "customer.update_credit_limit", err); telemetry.RecordError(span, err) }()

	guards := s.policies.Guards(ctx, actor.TenantID)
	if err := guards.Roles.CheckModification(actor); err != nil {
		return nil, err
	}

	var customer *partner.Customer
	err = s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		customer, err = repos.Customers().FindByIDForUpdate(ctx, actor.TenantID, customerID)
		if err != nil {
			return err
		}
		if req.CreditLimit.IsPositive() && customer.IsCashOnly() {
			return shared.NewDomainError("CREDIT_NOT_ALLOWED", "Cash customers cannot have a credit limit")
		}

		increase := req.CreditLimit.Sub(customer.CreditLimit)
		if increase.IsPositive() && guards.Approvals.Requires(policy.DocumentCreditLimitChange, increase) {
			approved, err := approvedIncrease(ctx, repos.Approvals(), actor.TenantID, customer.ID, increase)
			if err != nil {
				return err
			}
			if err := guards.Approvals.Check(policy.DocumentCreditLimitChange, increase, approved != nil); err != nil {
				return err
			}
			if err := approved.MarkApplied(actor.UserID); err != nil {
				return err
			}
			if err := repos.Approvals().SaveWithLock(ctx, approved, audit.NewMeta(actor).WithReason(req.Reason)); err != nil {
				return err
			}
		}

		if err := customer.SetCreditLimit(req.CreditLimit); err != nil {
			return err
		}
		if customer.CreditUsed.GreaterThan(customer.CreditLimit) {
			logger.L(ctx).Warn("Credit limit lowered below outstanding usage",
				zap.String("customer_id", customer.ID.String()),
				zap.String("credit_limit", customer.CreditLimit.String()),
				zap.String("credit_used", customer.CreditUsed.String()),
			)
		}
		return repos.Customers().SaveWithLock(ctx, customer, audit.NewMeta(actor).WithReason(req.Reason))
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// approvedIncrease returns the latest credit_limit_change request for the
// customer when it is approved for at least increase and not yet applied
func approvedIncrease(ctx context.Context, approvals approval.RequestRepository, tenantID, customerID uuid.UUID, increase decimal.Decimal) (*approval.Request, error) {
	req, err := approvals.FindLatestForDocument(ctx, tenantID, policy.DocumentCreditLimitChange, customerID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !req.IsApproved() || req.Amount.LessThan(increase) {
		return nil, nil
	}
	return req, nil
}

// Block stops a customer from taking new credit
func (s *CustomerService) Block(ctx context.Context, actor shared.Actor, customerID uuid.UUID, req BlockCustomerRequest) (*CustomerResponse, error) {
	return s.changeStatus(ctx, actor, customerID, req.Reason, func(c *partner.Customer) error {
		return c.Block(req.Reason)
	})
}

// Activate clears a block or reactivates an inactive customer
func (s *CustomerService) Activate(ctx context.Context, actor shared.Actor, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, actor, customerID, "", (*partner.Customer).Activate)
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, actor shared.Actor, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, actor, customerID, "", (*partner.Customer).Deactivate)
}

func (s *CustomerService) changeStatus(ctx context.Context, actor shared.Actor, customerID uuid.UUID, reason string, change func(*partner.Customer) error) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := change(customer); err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithLock(ctx, customer, audit.NewMeta(actor).WithReason(reason)); err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete soft-deletes a customer with no outstanding credit
func (s *CustomerService) Delete(ctx context.Context, actor shared.Actor, customerID uuid.UUID) (err error) {
	defer func() { s.observe(ctx, actor, "customer.delete", err) }()

	return s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		customer, err := repos.Customers().FindByIDForUpdate(ctx, actor.TenantID, customerID)
		if err != nil {
			return err
		}
		if customer.CreditUsed.IsPositive() {
			return shared.NewBusinessRuleViolation("customer_has_outstanding_credit",
				"Customer with outstanding credit cannot be deleted",
				map[string]any{
					"customer_id": customer.ID.String(),
					"credit_used": customer.CreditUsed,
				})
		}
		return repos.Customers().DeleteForTenant(ctx, actor.TenantID, customerID, audit.NewMeta(actor))
	})
}

func (s *CustomerService) observe(ctx context.Context, actor shared.Actor, operation string, err error) {
	apppolicy.ObserveRejection(ctx, s.rules, actor.TenantID, operation, err)
}

func (s *CustomerService) publish(ctx context.Context, customer *partner.Customer) {
	events := customer.GetDomainEvents()
	customer.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Error("Failed to publish customer events", zap.Error(err), zap.Int("count", len(events)))
	}
}
