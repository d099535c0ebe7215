package domain

import "strings"

// Place type constants accepted by nearby search
const (
	PlaceTypeRestaurant = "restaurant"
	PlaceTypeCafe       = "cafe"
	PlaceTypeBar        = "bar"
	PlaceTypeStore      = "store"
	PlaceTypeHospital   = "hospital"
	PlaceTypeGasStation = "gas_station"
	PlaceTypePharmacy   = "pharmacy"
)

var allowedPlaceTypes = map[string]struct{}{
	PlaceTypeRestaurant: {},
	PlaceTypeCafe:       {},
	PlaceTypeBar:        {},
	PlaceTypeStore:      {},
	PlaceTypeHospital:   {},
	PlaceTypeGasStation: {},
	PlaceTypePharmacy:   {},
}

// FilterPlaceTypes keeps the allowed types in request order, lowercased and
// without duplicates. Unknown values are dropped silently.
func FilterPlaceTypes(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	result := make([]string, 0, len(types))
	seen := make(map[string]struct{}, len(types))
	for _, t := range types {
		normalized := strings.ToLower(strings.TrimSpace(t))
		if _, ok := allowedPlaceTypes[normalized]; !ok {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result
}
