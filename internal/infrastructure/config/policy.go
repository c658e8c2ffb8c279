package config

import (
	"fmt"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// PolicyConfig holds the business-rule policy of every tenant.
// Tenants without an entry use Default.
type PolicyConfig struct {
	Default  policy.TenantPolicy
	Tenants  map[uuid.UUID]policy.TenantPolicy
	CacheTTL time.Duration
}

// ForTenant returns a copy of the tenant's policy
func (p PolicyConfig) ForTenant(tenantID uuid.UUID) policy.TenantPolicy {
	if tp, ok := p.Tenants[tenantID]; ok {
		return tp.Clone()
	}
	return p.Default.Clone()
}

// loadPolicy reads policy.default over the built-in defaults, then each
// policy.tenants.<uuid> over policy.default
func loadPolicy(v *viper.Viper) (PolicyConfig, error) {
	def, err := readTenantPolicy(v, "policy.default", policy.DefaultTenantPolicy())
	if err != nil {
		return PolicyConfig{}, err
	}

	cfg := PolicyConfig{
		Default:  def,
		Tenants:  make(map[uuid.UUID]policy.TenantPolicy),
		CacheTTL: v.GetDuration("policy.cache_ttl"),
	}

	for key := range v.GetStringMap("policy.tenants") {
		tenantID, err := uuid.Parse(key)
		if err != nil {
			return PolicyConfig{}, fmt.Errorf("policy.tenants: invalid tenant id %q: %w", key, err)
		}
		tp, err := readTenantPolicy(v, "policy.tenants."+key, def.Clone())
		if err != nil {
			return PolicyConfig{}, err
		}
		cfg.Tenants[tenantID] = tp
	}
	return cfg, nil
}

func readTenantPolicy(v *viper.Viper, prefix string, base policy.TenantPolicy) (policy.TenantPolicy, error) {
	out := base
	credit := prefix + ".credit."

	if key := credit + "grace_period_days"; v.IsSet(key) {
		out.Credit.GracePeriodDays = v.GetInt(key)
	}
	if key := credit + "warning_threshold_percent"; v.IsSet(key) {
		d, err := decimal.NewFromString(v.GetString(key))
		if err != nil {
			return out, fmt.Errorf("%s: %w", key, err)
		}
		out.Credit.WarningThresholdPercent = d
	}
	if key := credit + "enforce_credit_limit"; v.IsSet(key) {
		out.Credit.EnforceCreditLimit = v.GetBool(key)
	}
	if key := credit + "allow_cash_when_blocked"; v.IsSet(key) {
		out.Credit.AllowCashWhenBlocked = v.GetBool(key)
	}
	if key := credit + "block_when_overdue"; v.IsSet(key) {
		out.Credit.BlockWhenOverdue = v.GetBool(key)
	}

	for _, kind := range policy.AllDocumentKinds() {
		key := prefix + ".approval_thresholds." + string(kind)
		if !v.IsSet(key) {
			continue
		}
		d, err := decimal.NewFromString(v.GetString(key))
		if err != nil {
			return out, fmt.Errorf("%s: %w", key, err)
		}
		out.ApprovalThresholds[kind] = d
	}

	if key := prefix + ".role_exclusions"; v.IsSet(key) {
		out.RoleExclusions = v.GetStringMapStringSlice(key)
	}
	return out, nil
}

func (p PolicyConfig) validate() error {
	if err := validateTenantPolicy("policy.default", p.Default); err != nil {
		return err
	}
	for id, tp := range p.Tenants {
		if err := validateTenantPolicy("policy.tenants."+id.String(), tp); err != nil {
			return err
		}
	}
	return nil
}

func validateTenantPolicy(prefix string, tp policy.TenantPolicy) error {
	if tp.Credit.GracePeriodDays < 0 {
		return fmt.Errorf("%s.credit.grace_period_days cannot be negative", prefix)
	}
	pct := tp.Credit.WarningThresholdPercent
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%s.credit.warning_threshold_percent must be between 0 and 100", prefix)
	}
	for kind, threshold := range tp.ApprovalThresholds {
		if threshold.IsNegative() {
			return fmt.Errorf("%s.approval_thresholds.%s cannot be negative", prefix, kind)
		}
	}
	for role, excluded := range tp.RoleExclusions {
		if role == "" || len(excluded) == 0 {
			return fmt.Errorf("%s.role_exclusions entries need a role and at least one excluded role", prefix)
		}
	}
	return nil
}
