package identifiers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gene-validity-server/internal/domain"
)

// LookupCache wraps a Redis client with caching for identifier lookups. HGNC
// records change rarely, so a long TTL is safe.
type LookupCache struct {
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewLookupCache creates a new lookup cache from configuration.
func NewLookupCache(config domain.CacheConfig) (*LookupCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.PoolSize
	opts.PoolTimeout = config.PoolTimeout
	opts.MaxRetries = config.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := config.DefaultTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &LookupCache{
		redis:      client,
		defaultTTL: ttl,
	}, nil
}

// cachedValidation wraps a validation result with cache metadata.
type cachedValidation struct {
	Result    *GeneValidationResult `json:"result"`
	CachedAt  time.Time             `json:"cached_at"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// GetGeneValidation retrieves a cached gene validation result.
func (c *LookupCache) GetGeneValidation(ctx context.Context, symbol string) (*GeneValidationResult, bool, error) {
	key := geneValidationKey(symbol)

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil // Cache miss
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get gene validation cache: %w", err)
	}

	var cached cachedValidation
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		// Remove corrupted cache entry
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	return cached.Result, true, nil
}

// SetGeneValidation caches a gene validation result.
func (c *LookupCache) SetGeneValidation(ctx context.Context, symbol string, result *GeneValidationResult, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	cached := cachedValidation{
		Result:    result,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	jsonData, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal gene validation cache data: %w", err)
	}

	return c.redis.Set(ctx, geneValidationKey(symbol), jsonData, ttl).Err()
}

// InvalidateGene removes the cached validation for a symbol.
func (c *LookupCache) InvalidateGene(ctx context.Context, symbol string) error {
	return c.redis.Del(ctx, geneValidationKey(symbol)).Err()
}

// Ping checks if the Redis connection is alive.
func (c *LookupCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *LookupCache) Close() error {
	return c.redis.Close()
}

func geneValidationKey(symbol string) string {
	return "hgnc:gene:" + strings.ToUpper(strings.TrimSpace(symbol))
}
