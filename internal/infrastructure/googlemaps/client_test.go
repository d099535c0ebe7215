package googlemaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/location-gateway/internal/config"
	"github.com/location-gateway/internal/domain"
	"github.com/location-gateway/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient returns a client bound to handler and an accessor for the
// query strings the handler received.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*client, func() []url.Values) {
	t.Helper()

	var (
		mu      sync.Mutex
		queries []url.Values
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query())
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := &config.GoogleMapsConfig{
		APIKey:                   "test_key",
		BaseURL:                  server.URL,
		RequestTimeout:           5,
		AutocompleteRadiusMeters: 10000,
	}

	received := func() []url.Values {
		mu.Lock()
		defer mu.Unlock()
		return append([]url.Values(nil), queries...)
	}

	return NewRESTClient(cfg, zap.NewNop(), metrics.NewNop()).(*client), received
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_Autocomplete(t *testing.T) {
	const body = `{
		"status": "OK",
		"predictions": [
			{
				"place_id": "ChIJ1",
				"description": "Barcelona, Spain",
				"structured_formatting": {"main_text": "Barcelona", "secondary_text": "Spain"}
			},
			{"place_id": "ChIJ2", "description": "Barcelona Airport"}
		]
	}`

	t.Run("without location bias", func(t *testing.T) {
		c, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, autocompletePath, r.URL.Path)
			jsonBody(body)(w, r)
		})

		results, err := c.Autocomplete(context.Background(), "Barc", nil, nil)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, domain.AutocompleteResult{
			PlaceID:       "ChIJ1",
			Description:   "Barcelona, Spain",
			MainText:      "Barcelona",
			SecondaryText: "Spain",
		}, results[0])
		assert.Empty(t, results[1].MainText)

		q := queries()[0]
		assert.Equal(t, "Barc", q.Get("input"))
		assert.Equal(t, "test_key", q.Get("key"))
		assert.False(t, q.Has("location"))
		assert.False(t, q.Has("radius"))
	})

	t.Run("with location bias", func(t *testing.T) {
		c, queries := newTestClient(t, jsonBody(body))
		lat, lng := 41.3851, 2.1734

		_, err := c.Autocomplete(context.Background(), "Barc", &lat, &lng)
		require.NoError(t, err)

		q := queries()[0]
		assert.Equal(t, "41.3851,2.1734", q.Get("location"))
		assert.Equal(t, "10000", q.Get("radius"))
	})

	t.Run("only one coordinate", func(t *testing.T) {
		c, queries := newTestClient(t, jsonBody(body))
		lat := 41.3851

		_, err := c.Autocomplete(context.Background(), "Barc", &lat, nil)
		require.NoError(t, err)
		assert.False(t, queries()[0].Has("location"))
	})

	t.Run("zero results", func(t *testing.T) {
		c, _ := newTestClient(t, jsonBody(`{"status": "ZERO_RESULTS", "predictions": []}`))

		results, err := c.Autocomplete(context.Background(), "zzzz", nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}

func TestClient_Geocode(t *testing.T) {
	t.Run("first match only", func(t *testing.T) {
		c, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, geocodePath, r.URL.Path)
			jsonBody(`{
				"status": "OK",
				"results": [
					{
						"place_id": "ChIJ2eUgeAK6j4ARbn5u_wAGqWA",
						"formatted_address": "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
						"geometry": {"location": {"lat": 37.4224764, "lng": -122.0842499}},
						"types": ["street_address"]
					},
					{
						"place_id": "second",
						"geometry": {"location": {"lat": 1, "lng": 1}}
					}
				]
			}`)(w, r)
		})

		result, err := c.Geocode(context.Background(), "1600 Amphitheatre Parkway")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "ChIJ2eUgeAK6j4ARbn5u_wAGqWA", result.PlaceID)
		assert.Equal(t, 37.4224764, result.Latitude)
		assert.Equal(t, -122.0842499, result.Longitude)
		assert.Equal(t, []string{"street_address"}, result.Types)
		assert.Equal(t, "1600 Amphitheatre Parkway", queries()[0].Get("address"))
	})

	t.Run("zero results", func(t *testing.T) {
		c, _ := newTestClient(t, jsonBody(`{"status": "ZERO_RESULTS", "results": []}`))

		result, err := c.Geocode(context.Background(), "nowhere")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("missing geometry", func(t *testing.T) {
		c, _ := newTestClient(t, jsonBody(`{"status": "OK", "results": [{"place_id": "x"}]}`))

		result, err := c.Geocode(context.Background(), "somewhere")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Nil(t, result)
	})

	t.Run("missing types become empty list", func(t *testing.T) {
		c, _ := newTestClient(t, jsonBody(`{"status": "OK", "results": [
			{"place_id": "x", "geometry": {"location": {"lat": 1.5, "lng": 2.5}}}
		]}`))

		result, err := c.Geocode(context.Background(), "somewhere")
		require.NoError(t, err)
		assert.NotNil(t, result.Types)
		assert.Empty(t, result.Types)
	})
}

func TestClient_ReverseGeocode(t *testing.T) {
	c, queries := newTestClient(t, jsonBody(`{
		"status": "OK",
		"results": [{
			"place_id": "rev",
			"formatted_address": "Plaça de Catalunya, Barcelona",
			"geometry": {"location": {"lat": 41.387, "lng": 2.17}},
			"types": ["plaza"]
		}]
	}`))

	result, err := c.ReverseGeocode(context.Background(), 41.387, 2.17)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "rev", result.PlaceID)
	assert.Equal(t, "41.387,2.17", queries()[0].Get("latlng"))
}

func TestClient_NearbyPlaces(t *testing.T) {
	t.Run("forwards radius and every type", func(t *testing.T) {
		c, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, nearbySearchPath, r.URL.Path)
			jsonBody(`{
				"status": "OK",
				"results": [
					{
						"place_id": "p1",
						"name": "Cafe One",
						"vicinity": "Carrer 1",
						"geometry": {"location": {"lat": 41.1, "lng": 2.1}},
						"rating": 4.5,
						"types": ["cafe"],
						"opening_hours": {"open_now": true}
					},
					{
						"place_id": "p2",
						"name": "Bar Two",
						"geometry": {"location": {"lat": 41.2, "lng": 2.2}},
						"opening_hours": {}
					}
				]
			}`)(w, r)
		})

		places, err := c.NearbyPlaces(context.Background(), 41.0, 2.0, 500, []string{"cafe", "bar"})
		require.NoError(t, err)
		require.Len(t, places, 2)

		q := queries()[0]
		assert.Equal(t, "41,2", q.Get("location"))
		assert.Equal(t, "500", q.Get("radius"))
		assert.Equal(t, []string{"cafe", "bar"}, q["type"])

		require.NotNil(t, places[0].Rating)
		assert.Equal(t, 4.5, *places[0].Rating)
		assert.True(t, places[0].IsOpenNow)
		assert.Equal(t, "Carrer 1", places[0].Address)

		assert.Nil(t, places[1].Rating)
		assert.False(t, places[1].IsOpenNow)
		assert.Empty(t, places[1].Types)
	})

	t.Run("no types", func(t *testing.T) {
		c, queries := newTestClient(t, jsonBody(`{"status": "ZERO_RESULTS", "results": []}`))

		places, err := c.NearbyPlaces(context.Background(), 41.0, 2.0, 1000, nil)
		require.NoError(t, err)
		assert.Empty(t, places)
		assert.False(t, queries()[0].Has("type"))
	})

	t.Run("result without location", func(t *testing.T) {
		c, _ := newTestClient(t, jsonBody(`{"status": "OK", "results": [
			{"place_id": "p1", "geometry": {"location": {"lat": 41.1}}}
		]}`))

		places, err := c.NearbyPlaces(context.Background(), 41.0, 2.0, 1000, nil)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.Nil(t, places)
	})
}

func TestClient_PlaceDetails(t *testing.T) {
	t.Run("status OK", func(t *testing.T) {
		c, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, placeDetailsPath, r.URL.Path)
			jsonBody(`{
				"status": "OK",
				"result": {
					"place_id": "ChIJ1",
					"name": "Sagrada Familia",
					"formatted_address": "C/ de Mallorca, 401, Barcelona",
					"geometry": {
						"location": {"lat": 41.4036, "lng": 2.1744},
						"viewport": {
							"northeast": {"lat": 41.405, "lng": 2.176},
							"southwest": {"lat": 41.402, "lng": 2.173}
						}
					},
					"types": ["church", "tourist_attraction"]
				}
			}`)(w, r)
		})

		detail, err := c.PlaceDetails(context.Background(), "ChIJ1")
		require.NoError(t, err)
		require.NotNil(t, detail)
		assert.Equal(t, "Sagrada Familia", detail.Name)
		assert.Equal(t, domain.Coordinate{Lat: 41.4036, Lng: 2.1744}, detail.Geometry.Location)
		require.NotNil(t, detail.Geometry.Viewport)
		assert.Equal(t, 41.405, detail.Geometry.Viewport.Northeast.Lat)

		q := queries()[0]
		assert.Equal(t, "ChIJ1", q.Get("place_id"))
		assert.Equal(t, placeDetailsFields, q.Get("fields"))
	})

	for _, status := range []string{"NOT_FOUND", "INVALID_REQUEST", "ZERO_RESULTS"} {
		t.Run("status "+status, func(t *testing.T) {
			c, _ := newTestClient(t, jsonBody(`{"status": "`+status+`"}`))

			detail, err := c.PlaceDetails(context.Background(), "missing")
			require.NoError(t, err)
			assert.Nil(t, detail)
		})
	}

	t.Run("status OK without result", func(t *testing.T) {
		c, _ := newTestClient(t, jsonBody(`{"status": "OK"}`))

		detail, err := c.PlaceDetails(context.Background(), "ChIJ1")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.Nil(t, detail)
	})
}

func TestClient_Failures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		c, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		})

		result, err := c.Geocode(context.Background(), "anything")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstreamStatus)
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Contains(t, err.Error(), "500")
		assert.Nil(t, result)
		assert.Len(t, queries(), 1, "no retry")
	})

	t.Run("malformed json", func(t *testing.T) {
		c, _ := newTestClient(t, jsonBody(`{"status": "OK", "predictions": [`))

		results, err := c.Autocomplete(context.Background(), "Barc", nil, nil)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.Nil(t, results)
	})

	t.Run("unreachable host", func(t *testing.T) {
		cfg := &config.GoogleMapsConfig{
			APIKey:         "secret_key",
			BaseURL:        "http://127.0.0.1:1",
			RequestTimeout: 1,
		}
		c := NewRESTClient(cfg, zap.NewNop(), metrics.NewNop())

		_, err := c.Geocode(context.Background(), "anything")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.NotContains(t, err.Error(), "secret_key")
	})

	t.Run("cancelled context", func(t *testing.T) {
		c, queries := newTestClient(t, jsonBody(`{"status": "OK", "results": []}`))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Geocode(ctx, "anything")
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, queries())
	})
}

func TestClient_RateLimit(t *testing.T) {
	c, _ := newTestClient(t, jsonBody(`{"status": "ZERO_RESULTS", "results": []}`))
	assert.Nil(t, c.limiter)

	cfg := &config.GoogleMapsConfig{APIKey: "k", BaseURL: "http://localhost", RequestTimeout: 1, RateLimit: 5}
	limited := NewRESTClient(cfg, zap.NewNop(), metrics.NewNop()).(*client)
	require.NotNil(t, limited.limiter)
	assert.Equal(t, 5, limited.limiter.Burst())
}
