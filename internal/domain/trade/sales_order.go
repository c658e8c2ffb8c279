package trade

import (
	"strings"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrder is the aggregate root for a sale to a customer.
// CreatedBy on the embedded root is the booking officer.
type SalesOrder struct {
	shared.TenantAggregateRoot
	Lifecycle
	OrderNumber  string
	CustomerID   uuid.UUID
	CustomerName string
	TotalAmount  decimal.Decimal
	PaymentType  PaymentType
	Remark       string
}

// NewSalesOrder books a sales order on behalf of actor
func NewSalesOrder(actor shared.Actor, orderNumber string, customerID uuid.UUID, customerName string, total decimal.Decimal, paymentType PaymentType) (*SalesOrder, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Payment type must be cash or credit")
	}

	order := &SalesOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		Lifecycle:           Lifecycle{Status: OrderStatusBooked},
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		TotalAmount:         total,
		PaymentType:         paymentType,
	}

	order.AddDomainEvent(NewSalesOrderBookedEvent(order))
	return order, nil
}

// RequiresCredit reports whether the order draws on customer credit
func (o *SalesOrder) RequiresCredit() bool {
	return o.PaymentType == PaymentTypeCredit
}

// HoldsCredit reports whether the order currently counts toward credit usage
func (o *SalesOrder) HoldsCredit() bool {
	return o.RequiresCredit() && o.Status.IsOpen()
}

// UpdateDetails changes total and remark while the order is still booked.
// It returns the total delta so callers can adjust credit usage.
func (o *SalesOrder) UpdateDetails(total decimal.Decimal, remark string) (decimal.Decimal, error) {
	if o.Status != OrderStatusBooked {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE", "Only booked orders can be modified")
	}
	if !total.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}

	delta := total.Sub(o.TotalAmount)
	o.TotalAmount = total
	o.Remark = remark
	o.touch(time.Now())
	return delta, nil
}

// Approve records approval by approver
func (o *SalesOrder) Approve(approver uuid.UUID) error {
	now := time.Now()
	if err := o.approve(approver, now); err != nil {
		return err
	}
	o.touch(now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(AggregateTypeSalesOrder, o.ID, o.TenantID, o.OrderNumber, OrderStatusBooked, o.Status))
	return nil
}

// Fulfill marks the goods as delivered
func (o *SalesOrder) Fulfill() error {
	old := o.Status
	now := time.Now()
	if err := o.fulfill(now); err != nil {
		return err
	}
	o.touch(now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(AggregateTypeSalesOrder, o.ID, o.TenantID, o.OrderNumber, old, o.Status))
	return nil
}

// MarkPaid records payment collected by collector
func (o *SalesOrder) MarkPaid(collector uuid.UUID) error {
	now := time.Now()
	if err := o.markPaid(collector, now); err != nil {
		return err
	}
	o.touch(now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(AggregateTypeSalesOrder, o.ID, o.TenantID, o.OrderNumber, OrderStatusFulfilled, o.Status))
	return nil
}

// Cancel cancels a booked or approved order
func (o *SalesOrder) Cancel(reason string) error {
	old := o.Status
	now := time.Now()
	if err := o.cancel(reason, now); err != nil {
		return err
	}
	o.touch(now)
	o.AddDomainEvent(NewOrderStatusChangedEvent(AggregateTypeSalesOrder, o.ID, o.TenantID, o.OrderNumber, old, o.Status))
	return nil
}

func (o *SalesOrder) touch(at time.Time) {
	o.UpdatedAt = at
	o.IncrementVersion()
}
