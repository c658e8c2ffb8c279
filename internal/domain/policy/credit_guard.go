package policy

import (
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CreditCheckResult describes a passed credit check
type CreditCheckResult struct {
	// Bypassed is true when no credit was evaluated (cash customer or cash order)
	Bypassed         bool
	CreditLimit      decimal.Decimal
	CurrentUsage     decimal.Decimal
	AvailableCredit  decimal.Decimal
	UtilizationAfter decimal.Decimal
	// Warning is true when utilisation after the order reaches the warning
	// threshold, or when an over-limit order passed because enforcement is off
	Warning   bool
	OverLimit bool
}

// CreditLimitGuard checks order amounts against customer credit
type CreditLimitGuard struct {
	policy CreditPolicy
}

// NewCreditLimitGuard creates a guard for the tenant's credit policy
func NewCreditLimitGuard(p CreditPolicy) *CreditLimitGuard {
	return &CreditLimitGuard{policy: p}
}

// Check fails with *shared.CreditLimitExceeded when amount exceeds
// credit_limit - usage. Cash customers bypass the check.
func (g *CreditLimitGuard) Check(customer *partner.Customer, amount decimal.Decimal) (CreditCheckResult, error) {
	if amount.IsNegative() {
		return CreditCheckResult{}, shared.NewBusinessRuleViolation("invalid_order_amount",
			"Order amount cannot be negative", map[string]any{"order_amount": amount})
	}
	if customer.IsCashOnly() {
		return CreditCheckResult{Bypassed: true}, nil
	}
	if customer.CreditUsed.IsNegative() {
		return CreditCheckResult{}, shared.NewBusinessRuleViolation("credit_usage_negative",
			"Customer credit usage is negative; the credit account needs correcting",
			map[string]any{
				"customer_id":   customer.ID.String(),
				"current_usage": customer.CreditUsed,
			})
	}

	available := customer.AvailableCredit()
	result := CreditCheckResult{
		CreditLimit:      customer.CreditLimit,
		CurrentUsage:     customer.CreditUsed,
		AvailableCredit:  available,
		UtilizationAfter: partner.Utilization(customer.CreditLimit, customer.CreditUsed.Add(amount)),
	}

	if amount.GreaterThan(available) {
		if g.policy.EnforceCreditLimit {
			return CreditCheckResult{}, shared.NewCreditLimitExceeded(
				customer.ID, customer.Name, customer.CreditLimit, customer.CreditUsed, amount)
		}
		result.OverLimit = true
		result.Warning = true
		return result, nil
	}

	threshold := g.policy.WarningThresholdPercent
	if threshold.IsPositive() && result.UtilizationAfter.GreaterThanOrEqual(threshold) {
		result.Warning = true
	}
	return result, nil
}

// OrderCreditRequest is the input to CheckOrder
type OrderCreditRequest struct {
	Customer    *partner.Customer
	Amount      decimal.Decimal
	PaymentType trade.PaymentType
	// OldestOpenCreditBookedAt is when the customer's oldest unpaid credit order was booked
	OldestOpenCreditBookedAt *time.Time
	Now                      time.Time
}

// CheckOrder applies the blocked-customer rules and then the credit check for credit orders
func (g *CreditLimitGuard) CheckOrder(req OrderCreditRequest) (CreditCheckResult, error) {
	customer := req.Customer

	if g.IsBlocked(customer, req.OldestOpenCreditBookedAt, req.Now) {
		if req.PaymentType == trade.PaymentTypeCash && g.policy.AllowCashWhenBlocked {
			return CreditCheckResult{Bypassed: true}, nil
		}
		return CreditCheckResult{}, shared.NewBusinessRuleViolation("customer_blocked",
			"Customer is blocked from placing this order",
			map[string]any{
				"customer_id":  customer.ID.String(),
				"payment_type": string(req.PaymentType),
			})
	}

	if req.PaymentType != trade.PaymentTypeCredit {
		return CreditCheckResult{Bypassed: true}, nil
	}
	if customer.IsCashOnly() {
		return CreditCheckResult{}, shared.NewBusinessRuleViolation("credit_not_allowed",
			"Cash customers cannot place credit orders",
			map[string]any{"customer_id": customer.ID.String()})
	}
	return g.Check(customer, req.Amount)
}

// IsBlocked reports whether the customer is blocked outright or, when the
// policy says so, has a credit sale unpaid past due date plus grace period
func (g *CreditLimitGuard) IsBlocked(customer *partner.Customer, oldestOpenCreditBookedAt *time.Time, now time.Time) bool {
	if customer.IsBlocked() {
		return true
	}
	if !g.policy.BlockWhenOverdue || oldestOpenCreditBookedAt == nil {
		return false
	}
	deadline := customer.PaymentDueDate(*oldestOpenCreditBookedAt).AddDate(0, 0, g.policy.GracePeriodDays)
	return now.After(deadline)
}
