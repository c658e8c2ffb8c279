package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func newManualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

// collectSum returns the int64 sum points of the named metric keyed by the
// value of attribute key (or "" when key is empty).
func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string, key attribute.Key) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	points := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				label := ""
				if key != "" {
					v, _ := dp.Attributes.Value(key)
					label = v.AsString()
				}
				points[label] += dp.Value
			}
		}
	}
	return points
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.Config{ServiceName: "test-service"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestCounter_Inc(t *testing.T) {
	reader, provider := newManualMeter(t)
	counter, err := telemetry.NewCounter(provider.Meter("test"), "orders_total", "Orders", "{orders}")
	require.NoError(t, err)

	ctx := context.Background()
	counter.Inc(ctx, telemetry.AttrDocumentKind.String("sales_order"))
	counter.Inc(ctx, telemetry.AttrDocumentKind.String("sales_order"))
	counter.Inc(ctx, telemetry.AttrDocumentKind.String("purchase_order"))

	points := collectSum(t, reader, "orders_total", telemetry.AttrDocumentKind)
	assert.Equal(t, int64(2), points["sales_order"])
	assert.Equal(t, int64(1), points["purchase_order"])
}

func TestNewRuleMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewRuleMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestRuleMetrics_RecordRuleError(t *testing.T) {
	reader, provider := newManualMeter(t)
	m, err := telemetry.NewRuleMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenant := uuid.New().String()
	credit := shared.NewCreditLimitExceeded(uuid.New(), "Acme", decimal.NewFromInt(1000), decimal.NewFromInt(900), decimal.NewFromInt(200))

	m.RecordRuleError(ctx, tenant, credit)
	m.RecordRuleError(ctx, tenant, errors.Join(errors.New("wrapped"), credit))
	m.RecordRuleError(ctx, tenant, shared.NewApprovalRequired("fulfill_sales_order", "over threshold", decimal.NewFromInt(600000), decimal.NewFromInt(500000)))
	m.RecordRuleError(ctx, tenant, shared.NewRoleSeparationViolation("booking_cannot_collect", "no"))
	m.RecordRuleError(ctx, tenant, shared.NewBusinessRuleViolation("credit_blocked", "blocked", nil))
	m.RecordRuleError(ctx, tenant, errors.New("database down"))

	assert.Equal(t, map[string]int64{tenant: 2}, collectSum(t, reader, "erp_credit_limit_rejections_total", telemetry.AttrTenantID))
	assert.Equal(t, map[string]int64{"fulfill_sales_order": 1}, collectSum(t, reader, "erp_approvals_required_total", telemetry.AttrAction))
	assert.Equal(t, map[string]int64{"booking_cannot_collect": 1}, collectSum(t, reader, "erp_role_separation_violations_total", telemetry.AttrRule))
	assert.Equal(t, map[string]int64{"credit_blocked": 1}, collectSum(t, reader, "erp_business_rule_violations_total", telemetry.AttrRule))
}

func TestRuleMetrics_CreditWarningsAndAuditEntries(t *testing.T) {
	reader, provider := newManualMeter(t)
	m, err := telemetry.NewRuleMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordCreditWarning(ctx, "tenant-a")
	m.RecordAuditEntry(ctx, audit.ActionCreated, "customer")
	m.RecordAuditEntry(ctx, audit.ActionUpdated, "customer")
	m.RecordAuditEntry(ctx, audit.ActionUpdated, "sales_order")

	assert.Equal(t, map[string]int64{"tenant-a": 1}, collectSum(t, reader, "erp_credit_warnings_total", telemetry.AttrTenantID))
	byEntity := collectSum(t, reader, "erp_audit_entries_total", telemetry.AttrEntityType)
	assert.Equal(t, int64(2), byEntity["customer"])
	assert.Equal(t, int64(1), byEntity["sales_order"])
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	reader, provider := newManualMeter(t)
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, telemetry.RegisterDBPoolMetrics(provider.Meter("test"), db))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	assert.True(t, names["erp_db_pool_connections"])
	assert.True(t, names["erp_db_pool_wait_total"])
}
