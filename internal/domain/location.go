package domain

// Coordinate - географическая точка в градусах
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AutocompleteResult - подсказка адреса/места по частично введенному тексту
type AutocompleteResult struct {
	PlaceID       string `json:"placeId"`
	Description   string `json:"description"`
	MainText      string `json:"mainText"`
	SecondaryText string `json:"secondaryText"`
}

// GeoResult - результат прямого или обратного геокодирования
type GeoResult struct {
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	FormattedAddress string   `json:"formattedAddress"`
	PlaceID          string   `json:"placeId"`
	Types            []string `json:"types"`
}

// NearbyPlace - место, найденное поиском в радиусе
type NearbyPlace struct {
	PlaceID   string   `json:"placeId"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Rating    *float64 `json:"rating"`
	Types     []string `json:"types"`
	IsOpenNow bool     `json:"isOpenNow"`
}

// Viewport is the recommended bounding box for displaying a place.
type Viewport struct {
	Northeast Coordinate `json:"northeast"`
	Southwest Coordinate `json:"southwest"`
}

type Geometry struct {
	Location Coordinate `json:"location"`
	Viewport *Viewport  `json:"viewport,omitempty"`
}

// PlaceDetail - подробная информация о месте по его идентификатору
type PlaceDetail struct {
	PlaceID          string   `json:"placeId"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formattedAddress"`
	Geometry         Geometry `json:"geometry"`
	Types            []string `json:"types"`
}
