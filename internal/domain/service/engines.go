package service

import (
	"context"
	"time"

	"AstroCore/internal/domain/models"
)

// PositionEngine resolves a body's ecliptic longitude at a moment.
// Fails with models.ErrUnknownBody or models.ErrOutOfEphemerisRange.
type PositionEngine interface {
	Longitude(ctx context.Context, body models.Body, at time.Time) (models.Degree, error)
}

// HouseEngine runs a house-system algorithm for a UT Julian day and location,
// writing into buf: ASCMC[0] ascendant, ASCMC[1] midheaven, Cusps[1..12].
// buf belongs to the caller and must not be retained after returning.
// Fails with models.ErrInvalidLatitude, models.ErrUnsupportedHouseSystem or
// models.ErrEngineInternal.
//
// Implementations that are not safe for concurrent use must be wrapped with
// houses.Serialize before being shared.
type HouseEngine interface {
	Houses(ctx context.Context, jd, latitude, longitude float64, system models.HouseSystem, buf *models.HouseBuffers) error
}

// Engine is a single backend serving both boundaries.
type Engine interface {
	PositionEngine
	HouseEngine
	Name() string
}
