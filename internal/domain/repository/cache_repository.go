package repository

import (
	"context"

	"github.com/location-gateway/internal/domain"
)

// AutocompleteCache определяет методы для кеширования подсказок.
// Every hit extends the entry lifetime (sliding expiration).
type AutocompleteCache interface {
	// Get возвращает закешированные подсказки; ok=false при промахе
	Get(ctx context.Context, key string) (results []domain.AutocompleteResult, ok bool, err error)

	// Set сохраняет подсказки, вытесняя самые старые записи при переполнении
	Set(ctx context.Context, key string, results []domain.AutocompleteResult) error
}
