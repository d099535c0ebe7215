package googlemaps

import (
	"fmt"

	"github.com/location-gateway/internal/domain"
)

// Upstream response statuses
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// Wire formats of the Google Maps Platform web service responses. Optional
// members are pointers so that an absent value is never mistaken for a zero.

type apiStatus struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type wireLatLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (l *wireLatLng) coordinate(field string) (domain.Coordinate, error) {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return domain.Coordinate{}, missingField(field)
	}
	return domain.Coordinate{Lat: *l.Lat, Lng: *l.Lng}, nil
}

type wireViewport struct {
	Northeast *wireLatLng `json:"northeast"`
	Southwest *wireLatLng `json:"southwest"`
}

type wireGeometry struct {
	Location *wireLatLng   `json:"location"`
	Viewport *wireViewport `json:"viewport"`
}

func (g *wireGeometry) location() (domain.Coordinate, error) {
	if g == nil {
		return domain.Coordinate{}, missingField("geometry")
	}
	return g.Location.coordinate("geometry.location")
}

func (g *wireGeometry) toDomain() (domain.Geometry, error) {
	loc, err := g.location()
	if err != nil {
		return domain.Geometry{}, err
	}

	geometry := domain.Geometry{Location: loc}
	if g.Viewport != nil {
		ne, err := g.Viewport.Northeast.coordinate("geometry.viewport.northeast")
		if err != nil {
			return domain.Geometry{}, err
		}
		sw, err := g.Viewport.Southwest.coordinate("geometry.viewport.southwest")
		if err != nil {
			return domain.Geometry{}, err
		}
		geometry.Viewport = &domain.Viewport{Northeast: ne, Southwest: sw}
	}

	return geometry, nil
}

type wireStructuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

type wirePrediction struct {
	PlaceID              string                    `json:"place_id"`
	Description          string                    `json:"description"`
	StructuredFormatting *wireStructuredFormatting `json:"structured_formatting"`
}

func (p wirePrediction) toDomain() domain.AutocompleteResult {
	result := domain.AutocompleteResult{
		PlaceID:     p.PlaceID,
		Description: p.Description,
	}
	if p.StructuredFormatting != nil {
		result.MainText = p.StructuredFormatting.MainText
		result.SecondaryText = p.StructuredFormatting.SecondaryText
	}
	return result
}

type autocompleteResponse struct {
	apiStatus
	Predictions []wirePrediction `json:"predictions"`
}

type wireGeocodeResult struct {
	PlaceID          string        `json:"place_id"`
	FormattedAddress string        `json:"formatted_address"`
	Geometry         *wireGeometry `json:"geometry"`
	Types            []string      `json:"types"`
}

func (r wireGeocodeResult) toDomain() (*domain.GeoResult, error) {
	loc, err := r.Geometry.location()
	if err != nil {
		return nil, err
	}
	return &domain.GeoResult{
		Latitude:         loc.Lat,
		Longitude:        loc.Lng,
		FormattedAddress: r.FormattedAddress,
		PlaceID:          r.PlaceID,
		Types:            nonNil(r.Types),
	}, nil
}

type geocodeResponse struct {
	apiStatus
	Results []wireGeocodeResult `json:"results"`
}

type wireOpeningHours struct {
	OpenNow *bool `json:"open_now"`
}

type wireNearbyResult struct {
	PlaceID      string            `json:"place_id"`
	Name         string            `json:"name"`
	Vicinity     string            `json:"vicinity"`
	Geometry     *wireGeometry     `json:"geometry"`
	Rating       *float64          `json:"rating"`
	Types        []string          `json:"types"`
	OpeningHours *wireOpeningHours `json:"opening_hours"`
}

func (r wireNearbyResult) toDomain() (domain.NearbyPlace, error) {
	loc, err := r.Geometry.location()
	if err != nil {
		return domain.NearbyPlace{}, err
	}
	return domain.NearbyPlace{
		PlaceID:   r.PlaceID,
		Name:      r.Name,
		Address:   r.Vicinity,
		Latitude:  loc.Lat,
		Longitude: loc.Lng,
		Rating:    r.Rating,
		Types:     nonNil(r.Types),
		IsOpenNow: r.OpeningHours != nil && r.OpeningHours.OpenNow != nil && *r.OpeningHours.OpenNow,
	}, nil
}

type nearbyResponse struct {
	apiStatus
	Results []wireNearbyResult `json:"results"`
}

type wireDetailsResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Geometry         *wireGeometry `json:"geometry"`
	Types            []string      `json:"types"`
}

func (r *wireDetailsResult) toDomain() (*domain.PlaceDetail, error) {
	if r == nil {
		return nil, missingField("result")
	}
	geometry, err := r.Geometry.toDomain()
	if err != nil {
		return nil, err
	}
	return &domain.PlaceDetail{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Geometry:         geometry,
		Types:            nonNil(r.Types),
	}, nil
}

type detailsResponse struct {
	apiStatus
	Result *wireDetailsResult `json:"result"`
}

func missingField(field string) error {
	return fmt.Errorf("%w: missing %s", domain.ErrMalformedResponse, field)
}

func nonNil(types []string) []string {
	if types == nil {
		return []string{}
	}
	return types
}
