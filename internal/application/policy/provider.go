// Package policy serves per-tenant business-rule policies to the application
// services and reports rule outcomes.
package policy

import (
	"context"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source returns the configured policy of a tenant
type Source interface {
	ForTenant(tenantID uuid.UUID) policy.TenantPolicy
}

// Cache stores resolved tenant policies
type Cache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (policy.TenantPolicy, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, p policy.TenantPolicy, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// GuardProvider builds the rule guards of a tenant
type GuardProvider interface {
	ForTenant(ctx context.Context, tenantID uuid.UUID) policy.TenantPolicy
	Guards(ctx context.Context, tenantID uuid.UUID) policy.Guards
}

// Provider resolves tenant policies from the source through an optional cache.
// Cache failures are logged and fall back to the source.
type Provider struct {
	source Source
	cache  Cache
	ttl    time.Duration
}

// ProviderOption configures a Provider
type ProviderOption func(*Provider)

// WithCache puts cache in front of the source
func WithCache(cache Cache, ttl time.Duration) ProviderOption {
	return func(p *Provider) {
		p.cache = cache
		p.ttl = ttl
	}
}

// NewProvider creates a provider over source
func NewProvider(source Source, opts ...ProviderOption) *Provider {
	p := &Provider{source: source, ttl: 5 * time.Minute}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ForTenant returns the tenant's policy. The returned value is not shared
// with the cache or the source.
func (p *Provider) ForTenant(ctx context.Context, tenantID uuid.UUID) policy.TenantPolicy {
	if p.cache != nil {
		cached, ok, err := p.cache.Get(ctx, tenantID)
		if err != nil {
			logger.L(ctx).Warn("Policy cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		} else if ok {
			return cached
		}
	}

	resolved := p.source.ForTenant(tenantID)

	if p.cache != nil {
		if err := p.cache.Set(ctx, tenantID, resolved.Clone(), p.ttl); err != nil {
			logger.L(ctx).Warn("Policy cache write failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}
	return resolved
}

// Guards builds the rule guards for the tenant
func (p *Provider) Guards(ctx context.Context, tenantID uuid.UUID) policy.Guards {
	return policy.NewGuards(p.ForTenant(ctx, tenantID))
}

// Invalidate drops the cached policy of a tenant
func (p *Provider) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Invalidate(ctx, tenantID)
}

var _ GuardProvider = (*Provider)(nil)
