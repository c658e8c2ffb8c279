package partner

import (
	"context"

	apppolicy "github.com/agbona24/firstgiwa-erp-sub006/internal/application/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CreditWarningHandler watches credit usage and flags customers whose
// utilisation reaches the tenant's warning threshold after a sale.
type CreditWarningHandler struct {
	policies apppolicy.GuardProvider
	rules    apppolicy.RuleRecorder
}

// NewCreditWarningHandler creates a new CreditWarningHandler
func NewCreditWarningHandler(policies apppolicy.GuardProvider, rules apppolicy.RuleRecorder) *CreditWarningHandler {
	if rules == nil {
		rules = apppolicy.NopRuleRecorder()
	}
	return &CreditWarningHandler{policies: policies, rules: rules}
}

// EventTypes returns the event types this handler is interested in
func (h *CreditWarningHandler) EventTypes() []string {
	return []string{partner.EventTypeCustomerCreditUsageChanged}
}

// Handle processes a CustomerCreditUsageChanged event. Payments and releases
// only lower utilisation and are ignored.
func (h *CreditWarningHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*partner.CustomerCreditUsageChangedEvent)
	if !ok || e.Movement != partner.CreditMovementSale {
		return nil
	}

	threshold := h.policies.ForTenant(ctx, e.TenantID()).Credit.WarningThresholdPercent
	utilization := partner.Utilization(e.CreditLimit, e.CreditUsed)
	if !threshold.IsPositive() || utilization.LessThan(threshold) {
		return nil
	}

	h.rules.RecordCreditWarning(ctx, e.TenantID().String())
	logger.L(ctx).Warn("Customer credit utilisation reached warning threshold",
		zap.String("customer_id", e.CustomerID.String()),
		zap.String("order_id", e.OrderID.String()),
		zap.String("utilization", utilization.StringFixed(2)),
		zap.String("threshold", threshold.String()),
		zap.String("credit_used", e.CreditUsed.String()),
		zap.String("credit_limit", e.CreditLimit.String()),
	)
	return nil
}

var _ shared.EventHandler = (*CreditWarningHandler)(nil)
