package trade

import (
	"context"
	"errors"
	"time"

	apppolicy "github.com/agbona24/firstgiwa-erp-sub006/internal/application/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/approval"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/logger"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesOrderService books sales orders and moves them through approval,
// fulfilment and payment. Every transition that touches customer credit runs
// in one transaction with the customer row locked.
type SalesOrderService struct {
	orderRepo      trade.SalesOrderRepository
	scope          TransactionScope
	policies       apppolicy.GuardProvider
	rules          apppolicy.RuleRecorder
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(orderRepo trade.SalesOrderRepository, scope TransactionScope, policies apppolicy.GuardProvider) *SalesOrderService {
	return &SalesOrderService{
		orderRepo: orderRepo,
		scope:     scope,
		policies:  policies,
		rules:     apppolicy.NopRuleRecorder(),
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRuleRecorder sets where rule rejections are counted
func (s *SalesOrderService) SetRuleRecorder(recorder apppolicy.RuleRecorder) {
	s.rules = recorder
}

// Create books a sales order. Credit orders pass the credit limit guard and
// add the order total to the customer's credit usage.
func (s *SalesOrderService) Create(ctx context.Context, actor shared.Actor, req CreateSalesOrderRequest) (resp *SalesOrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_order", "create",
		telemetry.SpanAttrTenantID, actor.TenantID,
		telemetry.SpanAttrCustomerID, req.CustomerID,
		telemetry.SpanAttrAmount, req.TotalAmount.String(),
	)
	defer span.End()
	defer func() { s.observe(ctx, actor, "sales_order.create", err); telemetry.RecordError(span, err) }()

	paymentType := trade.PaymentType(req.PaymentType)
	guards := s.policies.Guards(ctx, actor.TenantID)

	var (
		order    *trade.SalesOrder
		customer *partner.Customer
		check    policy.CreditCheckResult
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		customer, err = repos.Customers().FindByIDForUpdate(ctx, actor.TenantID, req.CustomerID)
		if err != nil {
			return err
		}
		if customer.Status == partner.CustomerStatusInactive {
			return shared.NewDomainError("INVALID_STATE", "Customer is inactive")
		}

		oldest, err := repos.SalesOrders().OldestOpenCreditBookedAt(ctx, actor.TenantID, customer.ID)
		if err != nil {
			return err
		}
		check, err = guards.Credit.CheckOrder(policy.OrderCreditRequest{
			Customer:                 customer,
			Amount:                   req.TotalAmount,
			PaymentType:              paymentType,
			OldestOpenCreditBookedAt: oldest,
			Now:                      s.now(),
		})
		if err != nil {
			return err
		}

		number, err := repos.SalesOrders().GenerateOrderNumber(ctx, actor.TenantID)
		if err != nil {
			return err
		}
		order, err = trade.NewSalesOrder(actor, number, customer.ID, customer.Name, req.TotalAmount, paymentType)
		if err != nil {
			return err
		}
		order.Remark = req.Remark

		meta := audit.NewMeta(actor)
		if err := repos.SalesOrders().Create(ctx, order, meta); err != nil {
			return err
		}
		if !order.RequiresCredit() {
			return nil
		}
		if err := customer.RecordCreditSale(order.TotalAmount, order.ID); err != nil {
			return err
		}
		return repos.Customers().SaveWithLock(ctx, customer,
			meta.WithReason("credit sale booked").WithReference(order.OrderNumber))
	})
	if err != nil {
		return nil, err
	}

	if check.Warning {
		logger.L(ctx).Warn("Credit order booked near or over limit",
			zap.String("order_number", order.OrderNumber),
			zap.String("customer_id", customer.ID.String()),
			zap.String("utilization_after", check.UtilizationAfter.StringFixed(2)),
			zap.Bool("over_limit", check.OverLimit),
		)
	}
	s.publish(ctx, &order.BaseAggregateRoot, &customer.BaseAggregateRoot)

	response := ToSalesOrderResponse(order)
	if !check.Bypassed {
		response.Credit = &CreditCheckResponse{
			AvailableCredit:  check.AvailableCredit,
			UtilizationAfter: check.UtilizationAfter,
			Warning:          check.Warning,
			OverLimit:        check.OverLimit,
		}
	}
	return &response, nil
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// List retrieves sales orders with filtering and pagination
func (s *SalesOrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) (shared.Paginated[SalesOrderResponse], error) {
	domainFilter := filter.toDomainFilter("customer_id")
	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[SalesOrderResponse]{}, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[SalesOrderResponse]{}, err
	}
	return shared.NewPaginated(ToSalesOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update changes the total and remark of a booked order. Cashiers may not
// modify orders. A credit order's usage follows the new total; an increase
// passes the credit limit guard first.
func (s *SalesOrderService) Update(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req UpdateSalesOrderRequest) (resp *SalesOrderResponse, err error) {
	defer func() { s.observe(ctx, actor, "sales_order.update", err) }()

	guards := s.policies.Guards(ctx, actor.TenantID)
	if err := guards.Roles.CheckModification(actor); err != nil {
		return nil, err
	}

	var order *trade.SalesOrder
	var customer *partner.Customer
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrders().FindByIDForUpdate(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		delta, err := order.UpdateDetails(req.TotalAmount, req.Remark)
		if err != nil {
			return err
		}

		meta := audit.NewMeta(actor)
		if order.RequiresCredit() && !delta.IsZero() {
			customer, err = repos.Customers().FindByIDForUpdate(ctx, actor.TenantID, order.CustomerID)
			if err != nil {
				return err
			}
			if err := adjustCredit(guards.Credit, customer, delta, order.ID); err != nil {
				return err
			}
			if err := repos.Customers().SaveWithLock(ctx, customer,
				meta.WithReason("credit order amended").WithReference(order.OrderNumber)); err != nil {
				return err
			}
		}
		return repos.SalesOrders().SaveWithLock(ctx, order, meta)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &order.BaseAggregateRoot, customerRoot(customer))
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// adjustCredit moves the customer's usage by delta. Increases are checked
// against available credit.
func adjustCredit(guard *policy.CreditLimitGuard, customer *partner.Customer, delta decimal.Decimal, orderID uuid.UUID) error {
	if delta.IsNegative() {
		return customer.ReleaseCredit(delta.Neg(), orderID)
	}
	if _, err := guard.Check(customer, delta); err != nil {
		return err
	}
	return customer.RecordCreditSale(delta, orderID)
}

// Approve records approval of a booked order. The booking user cannot approve it.
func (s *SalesOrderService) Approve(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (resp *SalesOrderResponse, err error) {
	defer func() { s.observe(ctx, actor, "sales_order.approve", err) }()

	guards := s.policies.Guards(ctx, actor.TenantID)
	var order *trade.SalesOrder
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrders().FindByIDForUpdate(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		if err := guards.Roles.CheckApproval(actor, order.CreatedBy); err != nil {
			return err
		}
		if err := order.Approve(actor.UserID); err != nil {
			return err
		}
		return repos.SalesOrders().SaveWithLock(ctx, order, audit.NewMeta(actor))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &order.BaseAggregateRoot)
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// Fulfill marks the goods delivered. Orders over the approval threshold
// need approval metadata or an approved approval request first.
func (s *SalesOrderService) Fulfill(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (resp *SalesOrderResponse, err error) {
	defer func() { s.observe(ctx, actor, "sales_order.fulfill", err) }()

	guards := s.policies.Guards(ctx, actor.TenantID)
	var order *trade.SalesOrder
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrders().FindByIDForUpdate(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		approved, err := documentApproved(ctx, repos.Approvals(), actor.TenantID, policy.DocumentSalesOrder, order.ID, order.TotalAmount, order.IsApproved())
		if err != nil {
			return err
		}
		if err := guards.Approvals.Check(policy.DocumentSalesOrder, order.TotalAmount, approved); err != nil {
			return err
		}
		if err := order.Fulfill(); err != nil {
			return err
		}
		return repos.SalesOrders().SaveWithLock(ctx, order, audit.NewMeta(actor))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &order.BaseAggregateRoot)
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// documentApproved reports whether the order carries approval metadata or
// its latest approval request was approved for at least amount
func documentApproved(ctx context.Context, approvals approval.RequestRepository, tenantID uuid.UUID, kind policy.DocumentKind, orderID uuid.UUID, amount decimal.Decimal, hasMetadata bool) (bool, error) {
	if hasMetadata {
		return true, nil
	}
	req, err := approvals.FindLatestForDocument(ctx, tenantID, kind, orderID)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return req.IsApproved() && req.Amount.GreaterThanOrEqual(amount), nil
}

// Pay records payment collection on a fulfilled order. The booking user
// cannot collect payment. A credit order's total is released from usage.
func (s *SalesOrderService) Pay(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (resp *SalesOrderResponse, err error) {
	defer func() { s.observe(ctx, actor, "sales_order.pay", err) }()

	guards := s.policies.Guards(ctx, actor.TenantID)
	var order *trade.SalesOrder
	var customer *partner.Customer
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrders().FindByIDForUpdate(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		if err := guards.Roles.CheckPaymentCollection(actor, order.CreatedBy, order.ApprovedBy); err != nil {
			return err
		}
		heldCredit := order.HoldsCredit()
		if err := order.MarkPaid(actor.UserID); err != nil {
			return err
		}

		meta := audit.NewMeta(actor)
		if heldCredit {
			customer, err = repos.Customers().FindByIDForUpdate(ctx, actor.TenantID, order.CustomerID)
			if err != nil {
				return err
			}
			if err := customer.ApplyPayment(order.TotalAmount, order.ID); err != nil {
				return err
			}
			if err := repos.Customers().SaveWithLock(ctx, customer,
				meta.WithReason("payment collected").WithReference(order.OrderNumber)); err != nil {
				return err
			}
		}
		return repos.SalesOrders().SaveWithLock(ctx, order, meta)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &order.BaseAggregateRoot, customerRoot(customer))
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// Cancel cancels a booked or approved order and releases the credit it held
func (s *SalesOrderService) Cancel(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req CancelOrderRequest) (resp *SalesOrderResponse, err error) {
	defer func() { s.observe(ctx, actor, "sales_order.cancel", err) }()

	guards := s.policies.Guards(ctx, actor.TenantID)
	if err := guards.Roles.CheckModification(actor); err != nil {
		return nil, err
	}

	var order *trade.SalesOrder
	var customer *partner.Customer
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrders().FindByIDForUpdate(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		heldCredit := order.HoldsCredit()
		if err := order.Cancel(req.Reason); err != nil {
			return err
		}

		meta := audit.NewMeta(actor).WithReason(req.Reason)
		if heldCredit {
			customer, err = repos.Customers().FindByIDForUpdate(ctx, actor.TenantID, order.CustomerID)
			if err != nil {
				return err
			}
			if err := customer.ReleaseCredit(order.TotalAmount, order.ID); err != nil {
				return err
			}
			if err := repos.Customers().SaveWithLock(ctx, customer, meta.WithReference(order.OrderNumber)); err != nil {
				return err
			}
		}
		return repos.SalesOrders().SaveWithLock(ctx, order, meta)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &order.BaseAggregateRoot, customerRoot(customer))
	response := ToSalesOrderResponse(order)
	return &response, nil
}

func (s *SalesOrderService) observe(ctx context.Context, actor shared.Actor, operation string, err error) {
	if err != nil {
		apppolicy.ObserveRejection(ctx, s.rules, actor.TenantID, operation, err)
	}
}

func (s *SalesOrderService) publish(ctx context.Context, roots ...*shared.BaseAggregateRoot) {
	publishEvents(ctx, s.eventPublisher, roots...)
}

func customerRoot(c *partner.Customer) *shared.BaseAggregateRoot {
	if c == nil {
		return nil
	}
	return &c.BaseAggregateRoot
}

// publishEvents publishes and clears the pending events of each aggregate.
// The writes are already committed, so failures are logged, not returned.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, roots ...*shared.BaseAggregateRoot) {
	for _, root := range roots {
		if root == nil {
			continue
		}
		events := root.GetDomainEvents()
		root.ClearDomainEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil {
			logger.L(ctx).Error("Failed to publish domain events", zap.Error(err), zap.Int("count", len(events)))
		}
	}
}
