package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var errNotFinite = errors.New("value must be a finite number")

// ParseOptionalFloat returns nil for an empty string and rejects NaN/Inf.
func ParseOptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errNotFinite
	}
	return &v, nil
}
