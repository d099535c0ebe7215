package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/location-gateway/internal/domain"
	"github.com/location-gateway/internal/domain/repository"
	"github.com/location-gateway/internal/metrics"
)

const (
	autocompleteKeyPrefix = "autocomplete:"

	// cacheTimeout bounds each cache call; a slow cache counts as a miss.
	cacheTimeout = time.Second
)

// LocationUseCase - use case для подсказок, геокодирования и поиска мест через Google Maps
type LocationUseCase struct {
	mapsRepo            repository.MapsRepository
	cache               repository.AutocompleteCache
	metrics             *metrics.Metrics
	logger              *zap.Logger
	defaultNearbyRadius int
}

// NewLocationUseCase - создание нового LocationUseCase
func NewLocationUseCase(
	mapsRepo repository.MapsRepository,
	cache repository.AutocompleteCache,
	m *metrics.Metrics,
	logger *zap.Logger,
	defaultNearbyRadius int,
) *LocationUseCase {
	return &LocationUseCase{
		mapsRepo:            mapsRepo,
		cache:               cache,
		metrics:             m,
		logger:              logger,
		defaultNearbyRadius: defaultNearbyRadius,
	}
}

// AutocompleteKey is the cache key for input. Coordinates are not part of it.
func AutocompleteKey(input string) string {
	return autocompleteKeyPrefix + strings.ToLower(input)
}

// GetAutocomplete - подсказки по тексту; непустые ответы кэшируются по тексту запроса
func (uc *LocationUseCase) GetAutocomplete(ctx context.Context, input string, lat, lng *float64) ([]domain.AutocompleteResult, error) {
	if strings.TrimSpace(input) == "" {
		return []domain.AutocompleteResult{}, nil
	}

	key := AutocompleteKey(input)

	// Проверка кэша; ошибка кэша не должна ломать запрос
	cached, ok, err := uc.cacheGet(ctx, key)
	if err != nil {
		uc.logger.Warn("Autocomplete cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		uc.metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		return cached, nil
	}
	uc.metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()

	results, err := uc.mapsRepo.Autocomplete(ctx, input, lat, lng)
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		if err := uc.cacheSet(ctx, key, results); err != nil {
			uc.logger.Warn("Autocomplete cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return results, nil
}

func (uc *LocationUseCase) cacheGet(ctx context.Context, key string) ([]domain.AutocompleteResult, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()
	return uc.cache.Get(ctx, key)
}

func (uc *LocationUseCase) cacheSet(ctx context.Context, key string, results []domain.AutocompleteResult) error {
	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()
	return uc.cache.Set(ctx, key, results)
}

// Geocode - прямое геокодирование; nil если адрес пуст или ничего не найдено
func (uc *LocationUseCase) Geocode(ctx context.Context, address string) (*domain.GeoResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, nil
	}
	return uc.mapsRepo.Geocode(ctx, address)
}

// ReverseGeocode - обратное геокодирование; координаты проверяет вызывающий
func (uc *LocationUseCase) ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.GeoResult, error) {
	return uc.mapsRepo.ReverseGeocode(ctx, lat, lng)
}

// GetNearbyPlaces - поиск мест в радиусе. Неизвестные типы отбрасываются,
// при отсутствии радиуса используется значение из конфигурации.
func (uc *LocationUseCase) GetNearbyPlaces(
	ctx context.Context,
	lat, lng float64,
	radius *int,
	types []string,
) ([]domain.NearbyPlace, error) {
	radiusMeters := uc.defaultNearbyRadius
	if radius != nil {
		radiusMeters = *radius
	}

	allowed := domain.FilterPlaceTypes(types)
	if len(allowed) < len(types) {
		uc.logger.Debug("Dropped unsupported place types",
			zap.Strings("requested", types),
			zap.Strings("forwarded", allowed))
	}

	return uc.mapsRepo.NearbyPlaces(ctx, lat, lng, radiusMeters, allowed)
}

// GetPlaceDetails - сведения о месте; nil если placeID пуст или место недоступно
func (uc *LocationUseCase) GetPlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, nil
	}
	return uc.mapsRepo.PlaceDetails(ctx, placeID)
}
