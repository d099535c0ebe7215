package googlemaps

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/location-gateway/internal/config"
	"github.com/location-gateway/internal/domain"
	"github.com/location-gateway/internal/domain/repository"
	"github.com/location-gateway/internal/metrics"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
	mapsmetrics "googlemaps.github.io/maps/metrics"
)

// GoogleAPIClient is the subset of *maps.Client used by the SDK backend.
type GoogleAPIClient interface {
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
}

var placeDetailsFieldMasks = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskPlaceID,
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskGeometry,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskTypes,
}

// The SDK reports API statuses as "maps: <STATUS> - <message>".
var sdkStatusError = regexp.MustCompile(`^maps: ([A-Z_]+) - `)

type sdkClient struct {
	api                GoogleAPIClient
	apiKey             string
	autocompleteRadius uint
	logger             *zap.Logger
}

// NewSDKClient адаптирует googlemaps.github.io/maps к MapsRepository
func NewSDKClient(api GoogleAPIClient, cfg *config.GoogleMapsConfig, logger *zap.Logger) repository.MapsRepository {
	return &sdkClient{
		api:                api,
		apiKey:             cfg.APIKey,
		autocompleteRadius: uint(cfg.AutocompleteRadiusMeters),
		logger:             logger,
	}
}

func (c *sdkClient) Autocomplete(ctx context.Context, input string, lat, lng *float64) ([]domain.AutocompleteResult, error) {
	req := &maps.PlaceAutocompleteRequest{Input: input}
	if lat != nil && lng != nil {
		req.Location = &maps.LatLng{Lat: *lat, Lng: *lng}
		req.Radius = c.autocompleteRadius
	}

	resp, err := c.api.PlaceAutocomplete(ctx, req)
	if err != nil {
		if c.apiStatus(opAutocomplete, err) {
			return []domain.AutocompleteResult{}, nil
		}
		return nil, c.wrap(opAutocomplete, err)
	}

	results := make([]domain.AutocompleteResult, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		results = append(results, domain.AutocompleteResult{
			PlaceID:       p.PlaceID,
			Description:   p.Description,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}

	return results, nil
}

func (c *sdkClient) Geocode(ctx context.Context, address string) (*domain.GeoResult, error) {
	results, err := c.api.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	return c.firstGeoResult(opGeocode, results, err)
}

func (c *sdkClient) ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.GeoResult, error) {
	results, err := c.api.ReverseGeocode(ctx, &maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: lat, Lng: lng}})
	return c.firstGeoResult(opReverseGeocode, results, err)
}

func (c *sdkClient) firstGeoResult(op string, results []maps.GeocodingResult, err error) (*domain.GeoResult, error) {
	if err != nil {
		if c.apiStatus(op, err) {
			return nil, nil
		}
		return nil, c.wrap(op, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	r := results[0]
	return &domain.GeoResult{
		Latitude:         r.Geometry.Location.Lat,
		Longitude:        r.Geometry.Location.Lng,
		FormattedAddress: r.FormattedAddress,
		PlaceID:          r.PlaceID,
		Types:            nonNil(r.Types),
	}, nil
}

// NearbyPlaces forwards only the first type: the SDK request carries a single type.
func (c *sdkClient) NearbyPlaces(
	ctx context.Context,
	lat, lng float64,
	radiusMeters int,
	types []string,
) ([]domain.NearbyPlace, error) {
	req := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: lat, Lng: lng},
		Radius:   uint(radiusMeters),
	}
	if len(types) > 0 {
		req.Type = maps.PlaceType(types[0])
		if len(types) > 1 {
			c.logger.Warn("SDK backend forwards a single place type",
				zap.String("type", types[0]),
				zap.Strings("dropped", types[1:]))
		}
	}

	resp, err := c.api.NearbySearch(ctx, req)
	if err != nil {
		if c.apiStatus(opNearbySearch, err) {
			return []domain.NearbyPlace{}, nil
		}
		return nil, c.wrap(opNearbySearch, err)
	}

	places := make([]domain.NearbyPlace, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, domain.NearbyPlace{
			PlaceID:   r.PlaceID,
			Name:      r.Name,
			Address:   r.Vicinity,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
			Rating:    rating(r.Rating),
			Types:     nonNil(r.Types),
			IsOpenNow: r.OpeningHours != nil && r.OpeningHours.OpenNow != nil && *r.OpeningHours.OpenNow,
		})
	}

	return places, nil
}

func (c *sdkClient) PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	result, err := c.api.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  placeDetailsFieldMasks,
	})
	if err != nil {
		if status, ok := statusOf(err); ok {
			c.logger.Debug("Place details not available",
				zap.String("place_id", placeID),
				zap.String("status", status))
			return nil, nil
		}
		return nil, c.wrap(opPlaceDetails, err)
	}

	detail := &domain.PlaceDetail{
		PlaceID:          result.PlaceID,
		Name:             result.Name,
		FormattedAddress: result.FormattedAddress,
		Geometry: domain.Geometry{
			Location: domain.Coordinate{Lat: result.Geometry.Location.Lat, Lng: result.Geometry.Location.Lng},
		},
		Types: nonNil(result.Types),
	}
	if vp := result.Geometry.Viewport; vp != (maps.LatLngBounds{}) {
		detail.Geometry.Viewport = &domain.Viewport{
			Northeast: domain.Coordinate{Lat: vp.NorthEast.Lat, Lng: vp.NorthEast.Lng},
			Southwest: domain.Coordinate{Lat: vp.SouthWest.Lat, Lng: vp.SouthWest.Lng},
		}
	}

	return detail, nil
}

// apiStatus reports whether err is a non-OK API status, which list and lookup
// operations treat as an empty answer.
func (c *sdkClient) apiStatus(op string, err error) bool {
	status, ok := statusOf(err)
	if !ok {
		return false
	}
	c.logger.Warn("Google Maps API returned non-OK status",
		zap.String("operation", op),
		zap.String("status", status),
		zap.Error(err))
	return true
}

// wrap maps SDK failures onto the upstream error taxonomy.
func (c *sdkClient) wrap(op string, err error) error {
	err = redactKey(err, c.apiKey)

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case stderrors.Is(err, domain.ErrUpstream):
	case stderrors.As(err, &syntaxErr), stderrors.As(err, &typeErr), stderrors.Is(err, io.ErrUnexpectedEOF):
		err = fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	default:
		err = fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	c.logger.Error("Google Maps request failed",
		zap.String("operation", op),
		zap.Error(err))
	return err
}

func statusOf(err error) (string, bool) {
	m := sdkStatusError.FindStringSubmatch(err.Error())
	if m == nil {
		return "", false
	}
	return m[1], true
}

// The SDK decodes rating as float32 with omitempty, so 0 means absent.
func rating(r float32) *float64 {
	if r == 0 {
		return nil
	}
	v, _ := strconv.ParseFloat(strconv.FormatFloat(float64(r), 'f', -1, 32), 64)
	return &v
}

// statusTransport fails non-2xx responses, which the SDK would otherwise try to decode.
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrUpstreamStatus, resp.StatusCode, string(body))
	}

	return resp, nil
}

// metricReporter feeds the SDK's per-request hooks into Prometheus.
type metricReporter struct {
	metrics *metrics.Metrics
}

func (r metricReporter) NewRequest(name string) mapsmetrics.Request {
	return &metricRequest{
		metrics:   r.metrics,
		operation: operationForPath(name),
		start:     time.Now(),
	}
}

type metricRequest struct {
	metrics   *metrics.Metrics
	operation string
	start     time.Time
}

func (r *metricRequest) EndRequest(_ context.Context, err error, _ *http.Response, _ string) {
	r.metrics.UpstreamSeconds.WithLabelValues(r.operation).Observe(time.Since(r.start).Seconds())
	if err != nil {
		r.metrics.UpstreamErrors.WithLabelValues(r.operation).Inc()
	}
}

// Geocode and reverse geocode share a path and are reported together.
func operationForPath(path string) string {
	switch path {
	case autocompletePath:
		return opAutocomplete
	case geocodePath:
		return opGeocode
	case nearbySearchPath:
		return opNearbySearch
	case placeDetailsPath:
		return opPlaceDetails
	default:
		return path
	}
}
