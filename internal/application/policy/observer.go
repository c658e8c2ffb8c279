package policy

import (
	"context"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RuleRecorder counts rule outcomes. telemetry.RuleMetrics implements it.
type RuleRecorder interface {
	RecordRuleError(ctx context.Context, tenantID string, err error)
	RecordCreditWarning(ctx context.Context, tenantID string)
}

type nopRuleRecorder struct{}

func (nopRuleRecorder) RecordRuleError(context.Context, string, error) {}
func (nopRuleRecorder) RecordCreditWarning(context.Context, string)    {}

// NopRuleRecorder returns a recorder that drops everything
func NopRuleRecorder() RuleRecorder {
	return nopRuleRecorder{}
}

// ObserveRejection logs a rule error at info level and counts it.
// Errors that are not rule errors are left to the caller.
func ObserveRejection(ctx context.Context, recorder RuleRecorder, tenantID uuid.UUID, operation string, err error) {
	re, ok := shared.AsRuleError(err)
	if !ok {
		return
	}
	if recorder != nil {
		recorder.RecordRuleError(ctx, tenantID.String(), err)
	}
	logger.L(ctx).Info("Business rule rejected operation",
		zap.String("operation", operation),
		zap.String("error_type", re.ErrorType()),
		zap.String("reason", err.Error()),
	)
}
