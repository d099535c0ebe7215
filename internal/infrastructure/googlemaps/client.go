package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/location-gateway/internal/config"
	"github.com/location-gateway/internal/domain"
	"github.com/location-gateway/internal/domain/repository"
	"github.com/location-gateway/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	autocompletePath = "/maps/api/place/autocomplete/json"
	geocodePath      = "/maps/api/geocode/json"
	nearbySearchPath = "/maps/api/place/nearbysearch/json"
	placeDetailsPath = "/maps/api/place/details/json"

	placeDetailsFields = "place_id,name,geometry,formatted_address,types"

	maxErrorBodyBytes = 1024
)

// Operation labels used in logs and metrics
const (
	opAutocomplete   = "autocomplete"
	opGeocode        = "geocode"
	opReverseGeocode = "reverse_geocode"
	opNearbySearch   = "nearby_search"
	opPlaceDetails   = "place_details"
)

type client struct {
	httpClient         *http.Client
	baseURL            string
	apiKey             string
	autocompleteRadius int
	limiter            *rate.Limiter
	metrics            *metrics.Metrics
	logger             *zap.Logger
}

// NewRESTClient создает клиент для веб-сервисов Google Maps Platform
func NewRESTClient(cfg *config.GoogleMapsConfig, logger *zap.Logger, m *metrics.Metrics) repository.MapsRepository {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:            strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:             cfg.APIKey,
		autocompleteRadius: cfg.AutocompleteRadiusMeters,
		limiter:            limiter,
		metrics:            m,
		logger:             logger,
	}
}

// Autocomplete возвращает подсказки Places Autocomplete
func (c *client) Autocomplete(ctx context.Context, input string, lat, lng *float64) ([]domain.AutocompleteResult, error) {
	params := url.Values{}
	params.Set("input", input)
	if lat != nil && lng != nil {
		params.Set("location", formatLatLng(*lat, *lng))
		params.Set("radius", strconv.Itoa(c.autocompleteRadius))
	}

	var resp autocompleteResponse
	if err := c.getJSON(ctx, opAutocomplete, autocompletePath, params, &resp); err != nil {
		return nil, err
	}
	c.checkStatus(opAutocomplete, resp.apiStatus)

	results := make([]domain.AutocompleteResult, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		results = append(results, p.toDomain())
	}

	return results, nil
}

// Geocode возвращает первый результат для адреса
func (c *client) Geocode(ctx context.Context, address string) (*domain.GeoResult, error) {
	params := url.Values{}
	params.Set("address", address)
	return c.geocode(ctx, opGeocode, params)
}

// ReverseGeocode возвращает первый адрес для координат
func (c *client) ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.GeoResult, error) {
	params := url.Values{}
	params.Set("latlng", formatLatLng(lat, lng))
	return c.geocode(ctx, opReverseGeocode, params)
}

func (c *client) geocode(ctx context.Context, op string, params url.Values) (*domain.GeoResult, error) {
	var resp geocodeResponse
	if err := c.getJSON(ctx, op, geocodePath, params, &resp); err != nil {
		return nil, err
	}
	c.checkStatus(op, resp.apiStatus)

	if len(resp.Results) == 0 {
		return nil, nil
	}

	result, err := resp.Results[0].toDomain()
	if err != nil {
		c.fail(op, err)
		return nil, err
	}

	return result, nil
}

// NearbyPlaces ищет места в радиусе; каждый тип передается отдельным параметром type
func (c *client) NearbyPlaces(
	ctx context.Context,
	lat, lng float64,
	radiusMeters int,
	types []string,
) ([]domain.NearbyPlace, error) {
	params := url.Values{}
	params.Set("location", formatLatLng(lat, lng))
	params.Set("radius", strconv.Itoa(radiusMeters))
	for _, t := range types {
		params.Add("type", t)
	}

	var resp nearbyResponse
	if err := c.getJSON(ctx, opNearbySearch, nearbySearchPath, params, &resp); err != nil {
		return nil, err
	}
	c.checkStatus(opNearbySearch, resp.apiStatus)

	places := make([]domain.NearbyPlace, 0, len(resp.Results))
	for _, r := range resp.Results {
		place, err := r.toDomain()
		if err != nil {
			c.fail(opNearbySearch, err)
			return nil, err
		}
		places = append(places, place)
	}

	return places, nil
}

// PlaceDetails запрашивает фиксированный набор полей; nil если статус не OK
func (c *client) PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", placeDetailsFields)

	var resp detailsResponse
	if err := c.getJSON(ctx, opPlaceDetails, placeDetailsPath, params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != StatusOK {
		c.logger.Debug("Place details not available",
			zap.String("place_id", placeID),
			zap.String("status", resp.Status))
		return nil, nil
	}

	detail, err := resp.Result.toDomain()
	if err != nil {
		c.fail(opPlaceDetails, err)
		return nil, err
	}

	return detail, nil
}

// getJSON performs a single GET and decodes the body into out. Non-2xx
// statuses, transport failures and undecodable bodies are all errors wrapping
// domain.ErrUpstream; nothing is retried.
func (c *client) getJSON(ctx context.Context, op, path string, params url.Values, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.UpstreamSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil {
			c.fail(op, err)
		}
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %w", domain.ErrUpstream, err)
		}
	}

	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	c.logger.Debug("Calling Google Maps API",
		zap.String("operation", op),
		zap.String("path", path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstream, redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrUpstreamStatus, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	return nil
}

func (c *client) checkStatus(op string, status apiStatus) {
	if status.Status == StatusOK || status.Status == StatusZeroResults {
		return
	}
	c.logger.Warn("Google Maps API returned non-OK status",
		zap.String("operation", op),
		zap.String("status", status.Status),
		zap.String("error_message", status.ErrorMessage))
}

func (c *client) fail(op string, err error) {
	c.metrics.UpstreamErrors.WithLabelValues(op).Inc()
	c.logger.Error("Google Maps request failed",
		zap.String("operation", op),
		zap.Error(err))
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// redactKey strips the API key from transport errors, which embed the request URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
