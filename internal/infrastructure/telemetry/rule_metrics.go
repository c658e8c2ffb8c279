package telemetry

import (
	"context"
	"errors"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a nil meter is passed to a metrics constructor.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// RuleMetrics counts business-rule outcomes and audit writes.
type RuleMetrics struct {
	creditRejections  *Counter
	creditWarnings    *Counter
	approvalsRequired *Counter
	roleViolations    *Counter
	ruleViolations    *Counter
	auditEntries      *Counter
}

// NewRuleMetrics creates the rule counters on meter.
func NewRuleMetrics(meter metric.Meter) (*RuleMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &RuleMetrics{}
	counters := []struct {
		target      **Counter
		name        string
		description string
		unit        string
	}{
		{&m.creditRejections, "erp_credit_limit_rejections_total", "Orders rejected by the credit limit guard", "{orders}"},
		{&m.creditWarnings, "erp_credit_warnings_total", "Orders that crossed the credit warning threshold", "{orders}"},
		{&m.approvalsRequired, "erp_approvals_required_total", "Transitions blocked until an approval exists", "{transitions}"},
		{&m.roleViolations, "erp_role_separation_violations_total", "Actions refused by role separation", "{actions}"},
		{&m.ruleViolations, "erp_business_rule_violations_total", "Other business rule violations", "{violations}"},
		{&m.auditEntries, "erp_audit_entries_total", "Audit entries written", "{entries}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.description, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}
	return m, nil
}

// RecordRuleError counts err when it is a rule error. Other errors are ignored.
func (m *RuleMetrics) RecordRuleError(ctx context.Context, tenantID string, err error) {
	var (
		credit   *shared.CreditLimitExceeded
		approval *shared.ApprovalRequired
		role     *shared.RoleSeparationViolation
		rule     *shared.BusinessRuleViolation
	)
	tenant := AttrTenantID.String(tenantID)
	switch {
	case errors.As(err, &credit):
		m.creditRejections.Inc(ctx, tenant)
	case errors.As(err, &approval):
		m.approvalsRequired.Inc(ctx, tenant, AttrAction.String(approval.Action))
	case errors.As(err, &role):
		m.roleViolations.Inc(ctx, tenant, AttrRule.String(role.Rule))
	case errors.As(err, &rule):
		m.ruleViolations.Inc(ctx, tenant, AttrRule.String(rule.Rule))
	}
}

// RecordCreditWarning counts an order that crossed the warning threshold
func (m *RuleMetrics) RecordCreditWarning(ctx context.Context, tenantID string) {
	m.creditWarnings.Inc(ctx, AttrTenantID.String(tenantID))
}

// RecordAuditEntry counts a written audit entry
func (m *RuleMetrics) RecordAuditEntry(ctx context.Context, action audit.Action, entityType string) {
	m.auditEntries.Inc(ctx, AttrAction.String(string(action)), AttrEntityType.String(entityType))
}
