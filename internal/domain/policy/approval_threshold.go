package policy

import (
	"fmt"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ApprovalThresholdCheck decides whether a document needs approval before it is finalized
type ApprovalThresholdCheck struct {
	thresholds map[DocumentKind]decimal.Decimal
}

// NewApprovalThresholdCheck creates a check over per-kind thresholds
func NewApprovalThresholdCheck(thresholds map[DocumentKind]decimal.Decimal) *ApprovalThresholdCheck {
	return &ApprovalThresholdCheck{thresholds: thresholds}
}

// Threshold returns the configured threshold for kind. A missing or
// non-positive threshold means the kind never needs approval.
func (c *ApprovalThresholdCheck) Threshold(kind DocumentKind) (decimal.Decimal, bool) {
	t, ok := c.thresholds[kind]
	if !ok || !t.IsPositive() {
		return decimal.Zero, false
	}
	return t, true
}

// Requires reports whether amount exceeds the threshold for kind
func (c *ApprovalThresholdCheck) Requires(kind DocumentKind, amount decimal.Decimal) bool {
	t, ok := c.Threshold(kind)
	return ok && amount.GreaterThan(t)
}

// Check fails with *shared.ApprovalRequired when approval is needed and absent
func (c *ApprovalThresholdCheck) Check(kind DocumentKind, amount decimal.Decimal, approved bool) error {
	if approved || !c.Requires(kind, amount) {
		return nil
	}
	t, _ := c.Threshold(kind)
	return shared.NewApprovalRequired(
		kind.FinalizeAction(),
		fmt.Sprintf("%s amount %s exceeds the approval threshold of %s", kind, amount.StringFixed(2), t.StringFixed(2)),
		amount,
		t,
	)
}
