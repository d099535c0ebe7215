package dto

// AutocompleteRequest - запрос подсказок по тексту
type AutocompleteRequest struct {
	Input string   `json:"input" validate:"notblank"`
	Lat   *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng   *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
}

// NearbyRequest - запрос поиска мест в радиусе
type NearbyRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Radius    *int     `json:"radius,omitempty" validate:"omitempty,min=1,max=50000"` // meters
	Types     []string `json:"types,omitempty"`
}

// GeocodeRequest - запрос прямого геокодирования
type GeocodeRequest struct {
	Address string `json:"address" validate:"notblank"`
}

// ReverseGeocodeRequest - запрос обратного геокодирования
type ReverseGeocodeRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// PlaceDetailsRequest - запрос сведений о месте
type PlaceDetailsRequest struct {
	PlaceID string `json:"placeId" validate:"notblank"`
}
