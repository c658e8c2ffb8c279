package trade

import (
	"fmt"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderStatus represents where an order is in its lifecycle:
// booked -> approved -> fulfilled -> paid, with cancellation before fulfilment.
type OrderStatus string

const (
	OrderStatusBooked    OrderStatus = "booked"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusBooked, OrderStatusApproved, OrderStatusFulfilled, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// booked -> fulfilled skips approval; callers decide whether approval was needed.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusBooked:
		return target == OrderStatusApproved || target == OrderStatusFulfilled || target == OrderStatusCancelled
	case OrderStatusApproved:
		return target == OrderStatusFulfilled || target == OrderStatusCancelled
	case OrderStatusFulfilled:
		return target == OrderStatusPaid
	case OrderStatusPaid, OrderStatusCancelled:
		return false
	}
	return false
}

// IsOpen reports whether the order still holds customer credit
func (s OrderStatus) IsOpen() bool {
	return s == OrderStatusBooked || s == OrderStatusApproved || s == OrderStatusFulfilled
}

// PaymentType is how an order is settled
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCredit PaymentType = "credit"
)

// IsValid checks if the payment type is known
func (p PaymentType) IsValid() bool {
	return p == PaymentTypeCash || p == PaymentTypeCredit
}

// Lifecycle holds the approval and settlement metadata shared by sales and purchase orders
type Lifecycle struct {
	Status             OrderStatus
	ApprovedBy         *uuid.UUID
	ApprovedAt         *time.Time
	FulfilledAt        *time.Time
	PaidAt             *time.Time
	PaymentCollectedBy *uuid.UUID
	CancelledAt        *time.Time
	CancelReason       string
}

// IsApproved reports whether approval metadata is present
func (l *Lifecycle) IsApproved() bool {
	return l.ApprovedBy != nil && l.ApprovedAt != nil
}

func (l *Lifecycle) transition(target OrderStatus, verb string) error {
	if !l.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s order in %s status", verb, l.Status))
	}
	l.Status = target
	return nil
}

func (l *Lifecycle) approve(approver uuid.UUID, at time.Time) error {
	if approver == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}
	if err := l.transition(OrderStatusApproved, "approve"); err != nil {
		return err
	}
	l.ApprovedBy = &approver
	l.ApprovedAt = &at
	return nil
}

func (l *Lifecycle) fulfill(at time.Time) error {
	if err := l.transition(OrderStatusFulfilled, "fulfill"); err != nil {
		return err
	}
	l.FulfilledAt = &at
	return nil
}

func (l *Lifecycle) markPaid(collector uuid.UUID, at time.Time) error {
	if err := l.transition(OrderStatusPaid, "mark paid"); err != nil {
		return err
	}
	l.PaidAt = &at
	if collector != uuid.Nil {
		l.PaymentCollectedBy = &collector
	}
	return nil
}

func (l *Lifecycle) cancel(reason string, at time.Time) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if err := l.transition(OrderStatusCancelled, "cancel"); err != nil {
		return err
	}
	l.CancelledAt = &at
	l.CancelReason = reason
	return nil
}
