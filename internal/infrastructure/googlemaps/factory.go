package googlemaps

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/location-gateway/internal/config"
	"github.com/location-gateway/internal/domain/repository"
	"github.com/location-gateway/internal/metrics"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// NewClient creates the upstream client for the configured backend.
//
// Supported backends:
//   - "rest": hand-built requests against the web service endpoints
//   - "sdk": googlemaps.github.io/maps
func NewClient(cfg *config.GoogleMapsConfig, logger *zap.Logger, m *metrics.Metrics) (repository.MapsRepository, error) {
	switch cfg.Backend {
	case config.BackendREST, "":
		return NewRESTClient(cfg, logger, m), nil
	case config.BackendSDK:
		return newSDKBackend(cfg, logger, m)
	default:
		return nil, fmt.Errorf("unsupported Google Maps backend: %s", cfg.Backend)
	}
}

func newSDKBackend(cfg *config.GoogleMapsConfig, logger *zap.Logger, m *metrics.Metrics) (repository.MapsRepository, error) {
	httpClient := &http.Client{
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
		Transport: &statusTransport{base: http.DefaultTransport},
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(httpClient),
		maps.WithRateLimit(cfg.RateLimit),
		maps.WithMetricReporter(metricReporter{metrics: m}),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}

	api, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	logger.Info("Using Google Maps SDK backend")
	return NewSDKClient(api, cfg, logger), nil
}
