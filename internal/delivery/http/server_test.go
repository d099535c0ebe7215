package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/location-gateway/internal/config"
	deliveryhttp "github.com/location-gateway/internal/delivery/http"
	"github.com/location-gateway/internal/delivery/http/handler"
	"github.com/location-gateway/internal/delivery/http/middleware"
	"github.com/location-gateway/internal/domain"
	"github.com/location-gateway/internal/metrics"
	"github.com/location-gateway/internal/repository/cache"
	"github.com/location-gateway/internal/usecase"
)

type MockMapsRepository struct {
	mock.Mock
}

func (m *MockMapsRepository) Autocomplete(ctx context.Context, input string, lat, lng *float64) ([]domain.AutocompleteResult, error) {
	args := m.Called(ctx, input, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutocompleteResult), args.Error(1)
}

func (m *MockMapsRepository) Geocode(ctx context.Context, address string) (*domain.GeoResult, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeoResult), args.Error(1)
}

func (m *MockMapsRepository) ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.GeoResult, error) {
	args := m.Called(ctx, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeoResult), args.Error(1)
}

func (m *MockMapsRepository) NearbyPlaces(ctx context.Context, lat, lng float64, radiusMeters int, types []string) ([]domain.NearbyPlace, error) {
	args := m.Called(ctx, lat, lng, radiusMeters, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NearbyPlace), args.Error(1)
}

func (m *MockMapsRepository) PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaceDetail), args.Error(1)
}

type testServer struct {
	server  *deliveryhttp.Server
	repo    *MockMapsRepository
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server:     config.ServerConfig{Host: "127.0.0.1", Port: 8080, AllowOrigins: "*"},
		GoogleMaps: config.GoogleMapsConfig{RequestTimeout: 5, NearbySearchRadiusMeters: 1000},
		Cache:      config.CacheConfig{Driver: config.CacheDriverMemory, AutocompleteTTL: time.Minute, MaxEntries: 10},
	}

	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	repo := new(MockMapsRepository)

	uc := usecase.NewLocationUseCase(repo, cache.NewMemoryCache(&cfg.Cache, logger), m, logger, cfg.GoogleMaps.NearbySearchRadiusMeters)
	srv := deliveryhttp.NewServer(cfg, logger, m, reg, handler.NewLocationHandler(uc, logger))

	return &testServer{server: srv, repo: repo, metrics: m}
}

func (ts *testServer) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := ts.server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "healthy", payload["status"])
}

func TestServer_RequestID(t *testing.T) {
	ts := newTestServer(t)

	t.Run("generated", func(t *testing.T) {
		resp, _ := ts.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-42")

		resp, _ := ts.do(t, req)
		assert.Equal(t, "req-42", resp.Header.Get(middleware.RequestIDHeader))
	})
}

func TestServer_NotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/location/unknown", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"code":"NOT_FOUND"`)
}

func TestServer_MethodMismatch(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/location/nearby", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_CORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/location/nearby", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, _ := ts.do(t, req)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_PanicRecovered(t *testing.T) {
	ts := newTestServer(t)
	ts.server.App().Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), `"code":"INTERNAL_SERVER_ERROR"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/boom", "500")))
}

func TestServer_UpstreamError(t *testing.T) {
	ts := newTestServer(t)
	ts.repo.On("Geocode", mock.Anything, "Paris").
		Return(nil, errors.Join(domain.ErrUpstreamStatus, errors.New("HTTP 503"))).Once()

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/location/geocode?address=Paris", nil))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, string(body), `"code":"UPSTREAM_ERROR"`)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.repo.On("Autocomplete", mock.Anything, "Rome", (*float64)(nil), (*float64)(nil)).
		Return([]domain.AutocompleteResult{{PlaceID: "r1", Description: "Rome, Italy"}}, nil).Once()

	for i := 0; i < 2; i++ {
		resp, _ := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/location/autocomplete?input=Rome", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	ts.repo.AssertNumberOfCalls(t, "Autocomplete", 1)

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `autocomplete_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, string(body), `autocomplete_cache_lookups_total{result="miss"} 1`)
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/api/location/autocomplete",status="200"} 2`)
}
