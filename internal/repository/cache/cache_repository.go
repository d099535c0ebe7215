package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/location-gateway/internal/config"
	"github.com/location-gateway/internal/domain"
	"github.com/location-gateway/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// IndexKey - sorted set с ключами кэша, score = время последнего обращения (unix micro)
const IndexKey = "autocomplete:index"

// redisCache keeps autocomplete results in Redis. Every hit refreshes the
// key's expiry (GETEX) and its position in the access index; once the index
// grows past maxEntries the least recently used keys are deleted.
type redisCache struct {
	client     *redis.Client
	ttl        time.Duration
	maxEntries int64
	now        func() time.Time
	logger     *zap.Logger
}

func NewRedisCache(r *Redis, cfg *config.CacheConfig) repository.AutocompleteCache {
	return &redisCache{
		client:     r.Client(),
		ttl:        cfg.AutocompleteTTL,
		maxEntries: int64(cfg.MaxEntries),
		now:        time.Now,
		logger:     r.logger,
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]domain.AutocompleteResult, bool, error) {
	val, err := c.client.GetEx(ctx, key, c.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired keys linger in the index until touched
		if err := c.client.ZRem(ctx, IndexKey, key).Err(); err != nil {
			c.logger.Warn("Failed to drop stale index entry", zap.String("key", key), zap.Error(err))
		}
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	if err := c.client.ZAdd(ctx, IndexKey, redis.Z{Score: c.score(), Member: key}).Err(); err != nil {
		c.logger.Warn("Failed to touch index entry", zap.String("key", key), zap.Error(err))
	}

	var results []domain.AutocompleteResult
	if err := json.Unmarshal(val, &results); err != nil {
		return nil, false, fmt.Errorf("cache decode error: %w", err)
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return results, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, results []domain.AutocompleteResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("cache encode error: %w", err)
	}

	now := c.now()
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.ZAdd(ctx, IndexKey, redis.Z{Score: float64(now.UnixMicro()), Member: key})
	pipe.ZRemRangeByScore(ctx, IndexKey, "-inf", "("+strconv.FormatInt(now.Add(-c.ttl).UnixMicro(), 10))
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	c.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return c.evict(ctx)
}

// evict trims the index to maxEntries, deleting the least recently used keys.
func (c *redisCache) evict(ctx context.Context) error {
	size, err := c.client.ZCard(ctx, IndexKey).Result()
	if err != nil {
		return fmt.Errorf("cache evict error: %w", err)
	}
	if size <= c.maxEntries {
		return nil
	}

	victims, err := c.client.ZRange(ctx, IndexKey, 0, size-c.maxEntries-1).Result()
	if err != nil {
		return fmt.Errorf("cache evict error: %w", err)
	}
	if len(victims) == 0 {
		return nil
	}

	members := make([]interface{}, len(victims))
	for i, v := range victims {
		members[i] = v
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, victims...)
	pipe.ZRem(ctx, IndexKey, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache evict error: %w", err)
	}

	c.logger.Debug("Autocomplete cache entries evicted", zap.Strings("keys", victims))
	return nil
}

func (c *redisCache) score() float64 {
	return float64(c.now().UnixMicro())
}
