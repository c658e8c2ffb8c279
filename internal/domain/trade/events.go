package trade

import (
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSalesOrder    = "SalesOrder"
	AggregateTypePurchaseOrder = "PurchaseOrder"
)

// Event type constants
const (
	EventTypeSalesOrderBooked    = "SalesOrderBooked"
	EventTypePurchaseOrderBooked = "PurchaseOrderBooked"
	EventTypeOrderStatusChanged  = "OrderStatusChanged"
)

// SalesOrderBookedEvent is published when a sales order is booked
type SalesOrderBookedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaymentType PaymentType     `json:"payment_type"`
}

// NewSalesOrderBookedEvent creates a new SalesOrderBookedEvent
func NewSalesOrderBookedEvent(order *SalesOrder) *SalesOrderBookedEvent {
	return &SalesOrderBookedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderBooked, AggregateTypeSalesOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		TotalAmount:     order.TotalAmount,
		PaymentType:     order.PaymentType,
	}
}

// PurchaseOrderBookedEvent is published when a purchase order is booked
type PurchaseOrderBookedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderBookedEvent creates a new PurchaseOrderBookedEvent
func NewPurchaseOrderBookedEvent(order *PurchaseOrder) *PurchaseOrderBookedEvent {
	return &PurchaseOrderBookedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderBooked, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		TotalAmount:     order.TotalAmount,
	}
}

// OrderStatusChangedEvent is published on every lifecycle transition of either order kind
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(aggType string, orderID, tenantID uuid.UUID, orderNumber string, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, aggType, orderID, tenantID),
		OrderID:         orderID,
		OrderNumber:     orderNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
