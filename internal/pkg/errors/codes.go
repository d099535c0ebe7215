package errors

import "net/http"

const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidCoordinates = "INVALID_COORDINATES"
	CodeLocationNotFound   = "LOCATION_NOT_FOUND"
	CodePlaceNotFound      = "PLACE_NOT_FOUND"
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeInternalServer     = "INTERNAL_SERVER_ERROR"
)

var (
	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"Input cannot be empty",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		CodeInvalidCoordinates,
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrLocationNotFound = New(
		CodeLocationNotFound,
		"Location not found",
		http.StatusNotFound,
	)

	ErrPlaceNotFound = New(
		CodePlaceNotFound,
		"Place not found",
		http.StatusNotFound,
	)

	ErrUpstream = New(
		CodeUpstreamError,
		"Google Maps request failed",
		http.StatusBadGateway,
	)

	ErrInternalServer = New(
		CodeInternalServer,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
