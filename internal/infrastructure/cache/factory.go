package cache

import (
	"fmt"

	apppolicy "github.com/agbona24/firstgiwa-erp-sub006/internal/application/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/config"
	"go.uber.org/zap"
)

// PolicyCacheFactory creates the tenant policy cache based on configuration
type PolicyCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// PolicyCacheFactoryOption is a functional option for configuring the factory
type PolicyCacheFactoryOption func(*PolicyCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) PolicyCacheFactoryOption {
	return func(f *PolicyCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) PolicyCacheFactoryOption {
	return func(f *PolicyCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPolicyCacheFactory creates a new factory
func NewPolicyCacheFactory(cfg config.RedisConfig, opts ...PolicyCacheFactoryOption) *PolicyCacheFactory {
	f := &PolicyCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis cache, or an in-memory cache when Redis is not
// configured or unreachable and fallback is allowed
func (f *PolicyCacheFactory) Create() (apppolicy.Cache, error) {
	if f.redisConfig.Host == "" {
		f.logger.Info("Redis not configured, using in-memory policy cache")
		return NewInMemoryPolicyCache(), nil
	}

	redisCache, err := NewRedisPolicyCache(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis policy cache", zap.String("addr", f.redisConfig.Addr()))
		return redisCache, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for policy cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory policy cache. "+
		"Policy invalidations will not reach other instances.",
		zap.Error(err),
	)
	return NewInMemoryPolicyCache(), nil
}

var (
	_ apppolicy.Cache = (*RedisPolicyCache)(nil)
	_ apppolicy.Cache = (*InMemoryPolicyCache)(nil)
)
