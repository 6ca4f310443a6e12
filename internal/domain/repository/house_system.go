package repository

import (
	"errors"

	"AstroCore/internal/domain/models"
)

// DefaultHouseSystem returns the house system used when none is given.
func DefaultHouseSystem() models.HouseSystem { return models.Placidus }

// NormalizeHouseSystem maps an empty selector to the default and parses
// anything else, so a misspelled system is reported rather than replaced.
func NormalizeHouseSystem(s string) (models.HouseSystem, error) {
	if s == "" {
		return DefaultHouseSystem(), nil
	}
	return models.ParseHouseSystem(s)
}

// ErrorReason turns an engine error into a low-cardinality metric label.
func ErrorReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, models.ErrUnknownBody):
		return "unknown_body"
	case errors.Is(err, models.ErrOutOfEphemerisRange):
		return "out_of_range"
	case errors.Is(err, models.ErrInvalidLatitude):
		return "invalid_latitude"
	case errors.Is(err, models.ErrUnsupportedHouseSystem):
		return "unsupported_house_system"
	case errors.Is(err, models.ErrEngineInternal):
		return "engine_internal"
	default:
		return "other"
	}
}
