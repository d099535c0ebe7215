package cache

import (
	"context"

	"github.com/jellydator/ttlcache/v3"
	"github.com/location-gateway/internal/config"
	"github.com/location-gateway/internal/domain"
	"github.com/location-gateway/internal/domain/repository"
	"go.uber.org/zap"
)

// MemoryCache - in-process кэш подсказок: скользящий TTL и LRU-вытеснение по числу записей
type MemoryCache struct {
	items  *ttlcache.Cache[string, []domain.AutocompleteResult]
	logger *zap.Logger
}

var _ repository.AutocompleteCache = (*MemoryCache)(nil)

// NewMemoryCache creates the in-process cache. Expired entries are never
// returned; they are dropped when the capacity bound pushes them out.
func NewMemoryCache(cfg *config.CacheConfig, logger *zap.Logger) *MemoryCache {
	items := ttlcache.New[string, []domain.AutocompleteResult](
		ttlcache.WithTTL[string, []domain.AutocompleteResult](cfg.AutocompleteTTL),
		ttlcache.WithCapacity[string, []domain.AutocompleteResult](uint64(cfg.MaxEntries)),
	)

	items.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, []domain.AutocompleteResult]) {
		if reason == ttlcache.EvictionReasonCapacityReached {
			logger.Debug("Autocomplete cache entry evicted", zap.String("key", item.Key()))
		}
	})

	logger.Info("In-memory autocomplete cache initialized",
		zap.Duration("ttl", cfg.AutocompleteTTL),
		zap.Int("max_entries", cfg.MaxEntries),
	)

	return &MemoryCache{items: items, logger: logger}
}

// Get returns the cached results and extends the entry's lifetime.
func (c *MemoryCache) Get(_ context.Context, key string) ([]domain.AutocompleteResult, bool, error) {
	item := c.items.Get(key)
	if item == nil {
		return nil, false, nil
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return item.Value(), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, results []domain.AutocompleteResult) error {
	c.items.Set(key, results, ttlcache.DefaultTTL)
	return nil
}

// Len counts unexpired entries.
func (c *MemoryCache) Len() int {
	return c.items.Len()
}
