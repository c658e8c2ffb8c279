// Package policy holds the business-rule guards that gate order creation,
// approval and payment: credit limits, role separation and approval thresholds.
// Guards are pure; they read a TenantPolicy and never write.
package policy

import (
	"maps"
	"slices"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// DocumentKind identifies a document type with its own approval threshold
type DocumentKind string

const (
	DocumentSalesOrder          DocumentKind = "sales_order"
	DocumentPurchaseOrder       DocumentKind = "purchase_order"
	DocumentExpense             DocumentKind = "expense"
	DocumentInventoryAdjustment DocumentKind = "inventory_adjustment"
	DocumentCreditLimitChange   DocumentKind = "credit_limit_change"
)

// AllDocumentKinds returns every document kind with a threshold
func AllDocumentKinds() []DocumentKind {
	return []DocumentKind{
		DocumentSalesOrder,
		DocumentPurchaseOrder,
		DocumentExpense,
		DocumentInventoryAdjustment,
		DocumentCreditLimitChange,
	}
}

// IsValid checks if the kind is known
func (k DocumentKind) IsValid() bool {
	return slices.Contains(AllDocumentKinds(), k)
}

// FinalizeAction names the transition blocked when approval is missing
func (k DocumentKind) FinalizeAction() string {
	if k == DocumentCreditLimitChange {
		return "change_credit_limit"
	}
	return "finalize_" + string(k)
}

// CreditPolicy controls the credit limit guard for a tenant
type CreditPolicy struct {
	// GracePeriodDays is how long past its due date a credit sale may stay unpaid
	// before the customer is treated as blocked
	GracePeriodDays int
	// WarningThresholdPercent flags orders that push utilisation to or past it
	WarningThresholdPercent decimal.Decimal
	// EnforceCreditLimit turns an over-limit order into an error rather than a warning
	EnforceCreditLimit bool
	// AllowCashWhenBlocked lets blocked customers keep buying for cash
	AllowCashWhenBlocked bool
	// BlockWhenOverdue treats customers with overdue credit sales as blocked
	BlockWhenOverdue bool
}

// TenantPolicy is the read-only business-rule configuration of one tenant
type TenantPolicy struct {
	Credit             CreditPolicy
	ApprovalThresholds map[DocumentKind]decimal.Decimal
	// RoleExclusions maps a role code to role codes it may not be combined with
	RoleExclusions map[string][]string
}

// DefaultTenantPolicy returns the policy used when a tenant has no overrides
func DefaultTenantPolicy() TenantPolicy {
	return TenantPolicy{
		Credit: CreditPolicy{
			GracePeriodDays:         30,
			WarningThresholdPercent: decimal.NewFromInt(80),
			EnforceCreditLimit:      true,
			AllowCashWhenBlocked:    true,
			BlockWhenOverdue:        false,
		},
		ApprovalThresholds: map[DocumentKind]decimal.Decimal{
			DocumentSalesOrder:          decimal.NewFromInt(1_000_000),
			DocumentPurchaseOrder:       decimal.NewFromInt(1_000_000),
			DocumentExpense:             decimal.NewFromInt(100_000),
			DocumentInventoryAdjustment: decimal.NewFromInt(100),
			DocumentCreditLimitChange:   decimal.NewFromInt(500_000),
		},
		RoleExclusions: map[string][]string{
			identity.RoleCodeBookingOfficer: {identity.RoleCodeCashier},
		},
	}
}

// Clone returns a deep copy so callers can hold a policy without sharing maps
func (p TenantPolicy) Clone() TenantPolicy {
	out := TenantPolicy{
		Credit:             p.Credit,
		ApprovalThresholds: maps.Clone(p.ApprovalThresholds),
		RoleExclusions:     make(map[string][]string, len(p.RoleExclusions)),
	}
	for role, excluded := range p.RoleExclusions {
		out.RoleExclusions[role] = slices.Clone(excluded)
	}
	return out
}

// Guards bundles the three rule guards built from one tenant policy
type Guards struct {
	Credit    *CreditLimitGuard
	Roles     *RoleSeparationGuard
	Approvals *ApprovalThresholdCheck
}

// NewGuards builds the guards for a tenant policy
func NewGuards(p TenantPolicy) Guards {
	return Guards{
		Credit:    NewCreditLimitGuard(p.Credit),
		Roles:     NewRoleSeparationGuard(p.RoleExclusions),
		Approvals: NewApprovalThresholdCheck(p.ApprovalThresholds),
	}
}
