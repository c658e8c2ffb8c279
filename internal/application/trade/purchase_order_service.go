package trade

import (
	"context"

	apppolicy "github.com/agbona24/firstgiwa-erp-sub006/internal/application/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"github.com/google/uuid"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      trade.PurchaseOrderRepository
	scope          TransactionScope
	policies       apppolicy.GuardProvider
	rules          apppolicy.RuleRecorder
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo trade.PurchaseOrderRepository, scope TransactionScope, policies apppolicy.GuardProvider) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo: orderRepo,
		scope:     scope,
		policies:  policies,
		rules:     apppolicy.NopRuleRecorder(),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRuleRecorder sets where rule rejections are counted
func (s *PurchaseOrderService) SetRuleRecorder(recorder apppolicy.RuleRecorder) {
	s.rules = recorder
}

// Create books a purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, actor shared.Actor, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.PurchaseOrders().GenerateOrderNumber(ctx, actor.TenantID)
		if err != nil {
			return err
		}
		order, err = trade.NewPurchaseOrder(actor, number, req.SupplierID, req.SupplierName, req.TotalAmount, trade.PaymentType(req.PaymentType))
		if err != nil {
			return err
		}
		order.Remark = req.Remark
		return repos.PurchaseOrders().Create(ctx, order, audit.NewMeta(actor))
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, &order.BaseAggregateRoot)
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) (shared.Paginated[PurchaseOrderResponse], error) {
	domainFilter := filter.toDomainFilter("supplier_id")
	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[PurchaseOrderResponse]{}, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[PurchaseOrderResponse]{}, err
	}
	return shared.NewPaginated(ToPurchaseOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize), nil
}

// Approve records approval of a booked purchase order. The booking user cannot approve it.
func (s *PurchaseOrderService) Approve(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, actor, orderID, "purchase_order.approve", func(guards policy.Guards, _ TransactionalRepositories, order *trade.PurchaseOrder) error {
		if err := guards.Roles.CheckApproval(actor, order.CreatedBy); err != nil {
			return err
		}
		return order.Approve(actor.UserID)
	})
}

// Receive records receipt of the goods. Orders over the approval threshold
// need approval first.
func (s *PurchaseOrderService) Receive(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, actor, orderID, "purchase_order.receive", func(guards policy.Guards, repos TransactionalRepositories, order *trade.PurchaseOrder) error {
		approved, err := documentApproved(ctx, repos.Approvals(), actor.TenantID, policy.DocumentPurchaseOrder, order.ID, order.TotalAmount, order.IsApproved())
		if err != nil {
			return err
		}
		if err := guards.Approvals.Check(policy.DocumentPurchaseOrder, order.TotalAmount, approved); err != nil {
			return err
		}
		return order.Receive()
	})
}

// Pay records payment released to the supplier. The booking user cannot release it.
func (s *PurchaseOrderService) Pay(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, actor, orderID, "purchase_order.pay", func(guards policy.Guards, _ TransactionalRepositories, order *trade.PurchaseOrder) error {
		if err := guards.Roles.CheckPaymentCollection(actor, order.CreatedBy, order.ApprovedBy); err != nil {
			return err
		}
		return order.MarkPaid(actor.UserID)
	})
}

// Cancel cancels a booked or approved purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req CancelOrderRequest) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, actor, orderID, "purchase_order.cancel", func(guards policy.Guards, _ TransactionalRepositories, order *trade.PurchaseOrder) error {
		if err := guards.Roles.CheckModification(actor); err != nil {
			return err
		}
		return order.Cancel(req.Reason)
	}, req.Reason)
}

type purchaseOrderStep func(guards policy.Guards, repos TransactionalRepositories, order *trade.PurchaseOrder) error

// transition loads the order under lock, applies step and saves it
func (s *PurchaseOrderService) transition(ctx context.Context, actor shared.Actor, orderID uuid.UUID, operation string, step purchaseOrderStep, reason ...string) (*PurchaseOrderResponse, error) {
	guards := s.policies.Guards(ctx, actor.TenantID)
	meta := audit.NewMeta(actor)
	if len(reason) > 0 {
		meta = meta.WithReason(reason[0])
	}

	var order *trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrders().FindByIDForUpdate(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		if err := step(guards, repos, order); err != nil {
			return err
		}
		return repos.PurchaseOrders().SaveWithLock(ctx, order, meta)
	})
	if err != nil {
		apppolicy.ObserveRejection(ctx, s.rules, actor.TenantID, operation, err)
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, &order.BaseAggregateRoot)
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}
