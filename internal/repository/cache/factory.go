package cache

import (
	"fmt"

	"github.com/location-gateway/internal/config"
	"github.com/location-gateway/internal/domain/repository"
	"go.uber.org/zap"
)

// NewAutocompleteCache builds the cache for cfg.Cache.Driver. The returned
// close function releases the driver's connections.
func NewAutocompleteCache(cfg *config.Config, logger *zap.Logger) (repository.AutocompleteCache, func() error, error) {
	switch cfg.Cache.Driver {
	case config.CacheDriverMemory, "":
		return NewMemoryCache(&cfg.Cache, logger), func() error { return nil }, nil
	case config.CacheDriverRedis:
		r, err := NewRedis(&cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisCache(r, &cfg.Cache), r.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache driver: %s", cfg.Cache.Driver)
	}
}
