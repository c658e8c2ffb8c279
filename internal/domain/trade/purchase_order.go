package trade

import (
	"strings"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is the aggregate root for a purchase from a supplier
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	Lifecycle
	OrderNumber  string
	SupplierID   uuid.UUID
	SupplierName string
	TotalAmount  decimal.Decimal
	PaymentType  PaymentType
	Remark       string
}

// NewPurchaseOrder books a purchase order on behalf of actor
func NewPurchaseOrder(actor shared.Actor, orderNumber string, supplierID uuid.UUID, supplierName string, total decimal.Decimal, paymentType PaymentType) (*PurchaseOrder, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Payment type must be cash or credit")
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		Lifecycle:           Lifecycle{Status: OrderStatusBooked},
		OrderNumber:         orderNumber,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		TotalAmount:         total,
		PaymentType:         paymentType,
	}

	order.AddDomainEvent(NewPurchaseOrderBookedEvent(order))
	return order, nil
}

// Approve records approval by approver
func (o *PurchaseOrder) Approve(approver uuid.UUID) error {
	now := time.Now()
	if err := o.approve(approver, now); err != nil {
		return err
	}
	o.touch(now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(AggregateTypePurchaseOrder, o.ID, o.TenantID, o.OrderNumber, OrderStatusBooked, o.Status))
	return nil
}

// Receive marks the goods as received into stock
func (o *PurchaseOrder) Receive() error {
	old := o.Status
	now := time.Now()
	if err := o.fulfill(now); err != nil {
		return err
	}
	o.touch(now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(AggregateTypePurchaseOrder, o.ID, o.TenantID, o.OrderNumber, old, o.Status))
	return nil
}

// MarkPaid records payment released to the supplier by payer
func (o *PurchaseOrder) MarkPaid(payer uuid.UUID) error {
	now := time.Now()
	if err := o.markPaid(payer, now); err != nil {
		return err
	}
	o.touch(now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(AggregateTypePurchaseOrder, o.ID, o.TenantID, o.OrderNumber, OrderStatusFulfilled, o.Status))
	return nil
}

// Cancel cancels a booked or approved order
func (o *PurchaseOrder) Cancel(reason string) error {
	old := o.Status
	now := time.Now()
	if err := o.cancel(reason, now); err != nil {
		return err
	}
	o.touch(now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(AggregateTypePurchaseOrder, o.ID, o.TenantID, o.OrderNumber, old, o.Status))
	return nil
}

func (o *PurchaseOrder) touch(at time.Time) {
	o.UpdatedAt = at
	o.IncrementVersion()
}
