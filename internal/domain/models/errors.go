package models

import "errors"

// Position engine failures.
var (
	ErrUnknownBody         = errors.New("unknown body")
	ErrOutOfEphemerisRange = errors.New("date outside ephemeris range")
)

// House engine failures.
var (
	ErrInvalidLatitude        = errors.New("invalid latitude")
	ErrUnsupportedHouseSystem = errors.New("unsupported house system")
	ErrEngineInternal         = errors.New("engine internal error")
)

// ErrInvalidOrb is returned by service boundaries for negative or NaN orbs.
// The classifier itself panics on them.
var ErrInvalidOrb = errors.New("orb must be a non-negative number")
