package partner

import (
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerCreated            = "CustomerCreated"
	EventTypeCustomerStatusChanged      = "CustomerStatusChanged"
	EventTypeCustomerCreditLimitChanged = "CustomerCreditLimitChanged"
	EventTypeCustomerCreditUsageChanged = "CustomerCreditUsageChanged"
)

// CreditMovement names why credit usage changed
type CreditMovement string

const (
	CreditMovementSale    CreditMovement = "sale"
	CreditMovementPayment CreditMovement = "payment"
	CreditMovementRelease CreditMovement = "release"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID    `json:"customer_id"`
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Type       CustomerType `json:"type"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID, customer.TenantID),
		CustomerID:      customer.ID,
		Code:            customer.Code,
		Name:            customer.Name,
		Type:            customer.Type,
	}
}

// CustomerStatusChangedEvent is published when a customer is blocked, activated or deactivated
type CustomerStatusChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID      `json:"customer_id"`
	OldStatus  CustomerStatus `json:"old_status"`
	NewStatus  CustomerStatus `json:"new_status"`
	Reason     string         `json:"reason,omitempty"`
}

// NewCustomerStatusChangedEvent creates a new CustomerStatusChangedEvent
func NewCustomerStatusChangedEvent(customer *Customer, oldStatus CustomerStatus) *CustomerStatusChangedEvent {
	return &CustomerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerStatusChanged, AggregateTypeCustomer, customer.ID, customer.TenantID),
		CustomerID:      customer.ID,
		OldStatus:       oldStatus,
		NewStatus:       customer.Status,
		Reason:          customer.BlockReason,
	}
}

// CustomerCreditLimitChangedEvent is published when a credit limit is set
type CustomerCreditLimitChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	OldLimit   decimal.Decimal `json:"old_limit"`
	NewLimit   decimal.Decimal `json:"new_limit"`
}

// NewCustomerCreditLimitChangedEvent creates a new CustomerCreditLimitChangedEvent
func NewCustomerCreditLimitChangedEvent(customer *Customer, oldLimit decimal.Decimal) *CustomerCreditLimitChangedEvent {
	return &CustomerCreditLimitChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreditLimitChanged, AggregateTypeCustomer, customer.ID, customer.TenantID),
		CustomerID:      customer.ID,
		OldLimit:        oldLimit,
		NewLimit:        customer.CreditLimit,
	}
}

// CustomerCreditUsageChangedEvent is published whenever outstanding credit moves.
// Delta is positive for sales and negative for payments and releases.
type CustomerCreditUsageChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID       `json:"customer_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	Movement    CreditMovement  `json:"movement"`
	Delta       decimal.Decimal `json:"delta"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	CreditUsed  decimal.Decimal `json:"credit_used"`
}

// NewCustomerCreditUsageChangedEvent creates a new CustomerCreditUsageChangedEvent
func NewCustomerCreditUsageChangedEvent(customer *Customer, delta decimal.Decimal, orderID uuid.UUID, movement CreditMovement) *CustomerCreditUsageChangedEvent {
	return &CustomerCreditUsageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreditUsageChanged, AggregateTypeCustomer, customer.ID, customer.TenantID),
		CustomerID:      customer.ID,
		OrderID:         orderID,
		Movement:        movement,
		Delta:           delta,
		CreditLimit:     customer.CreditLimit,
		CreditUsed:      customer.CreditUsed,
	}
}
