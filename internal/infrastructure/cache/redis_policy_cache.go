// Package cache holds the tenant policy caches served to the rule guards.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "erp:policy:"

// RedisPolicyCache stores tenant policies as JSON so every instance serves
// the same policy after an invalidation
type RedisPolicyCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPolicyCache connects to redis and verifies the connection
func NewRedisPolicyCache(cfg config.RedisConfig) (*RedisPolicyCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisPolicyCacheWithClient(client, ""), nil
}

// NewRedisPolicyCacheWithClient creates a cache over an existing client
func NewRedisPolicyCacheWithClient(client *redis.Client, keyPrefix string) *RedisPolicyCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisPolicyCache{client: client, keyPrefix: keyPrefix}
}

func (c *RedisPolicyCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + tenantID.String()
}

// Get returns the cached policy. A missing key is a miss, not an error.
func (c *RedisPolicyCache) Get(ctx context.Context, tenantID uuid.UUID) (policy.TenantPolicy, bool, error) {
	raw, err := c.client.Get(ctx, c.key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return policy.TenantPolicy{}, false, nil
	}
	if err != nil {
		return policy.TenantPolicy{}, false, fmt.Errorf("failed to read policy: %w", err)
	}

	var p policy.TenantPolicy
	if err := json.Unmarshal(raw, &p); err != nil {
		return policy.TenantPolicy{}, false, fmt.Errorf("failed to decode policy: %w", err)
	}
	return p, true, nil
}

// Set stores the policy with a TTL
func (c *RedisPolicyCache) Set(ctx context.Context, tenantID uuid.UUID, p policy.TenantPolicy, ttl time.Duration) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode policy: %w", err)
	}
	if err := c.client.Set(ctx, c.key(tenantID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write policy: %w", err)
	}
	return nil
}

// Invalidate drops the cached policy of a tenant
func (c *RedisPolicyCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate policy: %w", err)
	}
	return nil
}

// Ping checks the redis connection
func (c *RedisPolicyCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *RedisPolicyCache) Close() error {
	return c.client.Close()
}
