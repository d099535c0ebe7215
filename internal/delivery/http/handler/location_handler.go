package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/location-gateway/internal/pkg/errors"
	"github.com/location-gateway/internal/pkg/utils"
	"github.com/location-gateway/internal/pkg/validator"
	"github.com/location-gateway/internal/usecase"
	"github.com/location-gateway/internal/usecase/dto"
	"go.uber.org/zap"
)

// LocationHandler - обработчик запросов /api/location
type LocationHandler struct {
	locationUC *usecase.LocationUseCase
	logger     *zap.Logger
}

// NewLocationHandler - создание нового LocationHandler
func NewLocationHandler(locationUC *usecase.LocationUseCase, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
		logger:     logger,
	}
}

// Autocomplete godoc
// @Summary Подсказки адресов и мест
// @Description Возвращает подсказки Google Places Autocomplete по частично введенному тексту. Если переданы обе координаты, результаты смещаются к этой точке.
// @Tags Location
// @Produce json
// @Param input query string true "Введенный текст"
// @Param lat query number false "Широта для смещения результатов"
// @Param lng query number false "Долгота для смещения результатов"
// @Success 200 {array} domain.AutocompleteResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/location/autocomplete [get]
func (h *LocationHandler) Autocomplete(c *fiber.Ctx) error {
	lat, lng, err := parseCoordinates(c, "lat", "lng")
	if err != nil {
		return utils.SendError(c, err)
	}

	req := dto.AutocompleteRequest{
		Input: c.Query("input"),
		Lat:   lat,
		Lng:   lng,
	}
	if strings.TrimSpace(req.Input) == "" {
		return utils.SendError(c, errors.ErrInvalidInput)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	// location bias only makes sense with both coordinates
	if req.Lat == nil || req.Lng == nil {
		req.Lat, req.Lng = nil, nil
	}

	results, err := h.locationUC.GetAutocomplete(c.Context(), req.Input, req.Lat, req.Lng)
	if err != nil {
		return h.fail(c, "autocomplete", err)
	}

	return utils.SendSuccess(c, results)
}

// NearbyPlaces godoc
// @Summary Поиск мест поблизости
// @Description Ищет места в радиусе от точки. Неподдерживаемые типы мест игнорируются.
// @Tags Location
// @Accept json
// @Produce json
// @Param request body dto.NearbyRequest true "Точка, радиус (м) и типы мест"
// @Success 200 {array} domain.NearbyPlace
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/location/nearby [post]
func (h *LocationHandler) NearbyPlaces(c *fiber.Ctx) error {
	var req dto.NearbyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	places, err := h.locationUC.GetNearbyPlaces(c.Context(), *req.Latitude, *req.Longitude, req.Radius, req.Types)
	if err != nil {
		return h.fail(c, "nearby", err)
	}

	return utils.SendSuccess(c, places)
}

// Geocode godoc
// @Summary Геокодирование адреса
// @Description Возвращает первый результат Google Geocoding для адреса
// @Tags Location
// @Produce json
// @Param address query string true "Адрес"
// @Success 200 {object} domain.GeoResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/location/geocode [get]
func (h *LocationHandler) Geocode(c *fiber.Ctx) error {
	req := dto.GeocodeRequest{Address: c.Query("address")}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.locationUC.Geocode(c.Context(), req.Address)
	if err != nil {
		return h.fail(c, "geocode", err)
	}
	if result == nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	return utils.SendSuccess(c, result)
}

// ReverseGeocode godoc
// @Summary Обратное геокодирование
// @Description Возвращает первый адрес Google Geocoding для координат
// @Tags Location
// @Produce json
// @Param latitude query number true "Широта"
// @Param longitude query number true "Долгота"
// @Success 200 {object} domain.GeoResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/location/reverse-geocode [get]
func (h *LocationHandler) ReverseGeocode(c *fiber.Ctx) error {
	lat, lng, err := parseCoordinates(c, "latitude", "longitude")
	if err != nil {
		return utils.SendError(c, err)
	}

	req := dto.ReverseGeocodeRequest{Latitude: lat, Longitude: lng}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.locationUC.ReverseGeocode(c.Context(), *req.Latitude, *req.Longitude)
	if err != nil {
		return h.fail(c, "reverse_geocode", err)
	}
	if result == nil {
		return utils.SendError(c, errors.ErrLocationNotFound)
	}

	return utils.SendSuccess(c, result)
}

// PlaceDetails godoc
// @Summary Сведения о месте
// @Description Возвращает place_id, название, адрес, геометрию и типы места
// @Tags Location
// @Produce json
// @Param placeId query string true "Google place_id"
// @Success 200 {object} domain.PlaceDetail
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/location/place-details [get]
func (h *LocationHandler) PlaceDetails(c *fiber.Ctx) error {
	req := dto.PlaceDetailsRequest{PlaceID: c.Query("placeId")}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	detail, err := h.locationUC.GetPlaceDetails(c.Context(), req.PlaceID)
	if err != nil {
		return h.fail(c, "place_details", err)
	}
	if detail == nil {
		return utils.SendError(c, errors.ErrPlaceNotFound)
	}

	return utils.SendSuccess(c, detail)
}

func (h *LocationHandler) fail(c *fiber.Ctx, op string, err error) error {
	h.logger.Error("Location request failed",
		zap.String("operation", op),
		zap.String("path", c.Path()),
		zap.Error(err))
	return utils.SendError(c, err)
}

// parseCoordinates reads two optional numeric query parameters.
func parseCoordinates(c *fiber.Ctx, latKey, lngKey string) (*float64, *float64, error) {
	lat, err := utils.ParseOptionalFloat(c.Query(latKey))
	if err != nil {
		return nil, nil, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{latKey: "must be a number"})
	}
	lng, err := utils.ParseOptionalFloat(c.Query(lngKey))
	if err != nil {
		return nil, nil, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{lngKey: "must be a number"})
	}
	return lat, lng, nil
}
