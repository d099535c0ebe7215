package repository

import (
	"context"

	"github.com/location-gateway/internal/domain"
)

// MapsRepository определяет методы для работы с Google Maps Platform
type MapsRepository interface {
	// Autocomplete возвращает подсказки по тексту; lat/lng задают смещение
	// поиска только если указаны обе координаты
	Autocomplete(ctx context.Context, input string, lat, lng *float64) ([]domain.AutocompleteResult, error)

	// Geocode возвращает первый результат геокодирования адреса или nil
	Geocode(ctx context.Context, address string) (*domain.GeoResult, error)

	// ReverseGeocode возвращает первый адрес для координат или nil
	ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.GeoResult, error)

	// NearbyPlaces ищет места в радиусе (в метрах) с опциональным фильтром по типам
	NearbyPlaces(ctx context.Context, lat, lng float64, radiusMeters int, types []string) ([]domain.NearbyPlace, error)

	// PlaceDetails возвращает сведения о месте или nil, если статус ответа не OK
	PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetail, error)
}
