// Package aspects classifies the angular separation of two ecliptic
// longitudes into one of the named aspects.
package aspects

import (
	"context"
	"fmt"
	"math"
	"time"

	"AstroCore/internal/domain/models"
	domsvc "AstroCore/internal/domain/service"
)

// DefaultOrb is the tolerance used when the caller has no preference.
const DefaultOrb = 10.0

// Separation returns the shorter arc between a and b, in [0, 180].
func Separation(a, b models.Degree) float64 {
	d := math.Abs(b.Value() - a.Value())
	if d >= 180 {
		d = math.Abs(d - 360)
	}
	return d
}

// Classify returns the aspect formed by a and b within orb, or false when the
// separation falls outside every window.
//
// Windows [angle-orb, angle+orb] are closed and tested in ascending angle
// order; the first match wins. With orb > 15 neighbouring windows overlap and
// the lower angle takes precedence, e.g. a 16° separation at orb 20 is a
// conjunction, not a semisextile.
//
// Classify panics if orb is negative or NaN.
func Classify(a, b models.Degree, orb float64) (models.Aspect, bool) {
	if orb < 0 || math.IsNaN(orb) {
		panic(fmt.Sprintf("aspects: invalid orb %v", orb))
	}
	d := Separation(a, b)
	for _, kind := range kinds {
		t := kind.Angle()
		if d >= t-orb && d <= t+orb {
			return models.Aspect{Kind: kind, Remainder: round2(d - t)}, true
		}
	}
	return models.Aspect{}, false
}

// ClassifyPair resolves both bodies through the position engine at date and
// classifies their longitudes. Engine errors are returned as they are; they
// never read as "no aspect".
func ClassifyPair[A, B models.Body](ctx context.Context, engine domsvc.PositionEngine, pair models.Pair[A, B], date time.Time, orb float64) (models.Aspect, bool, error) {
	lonA, err := engine.Longitude(ctx, pair.A, date)
	if err != nil {
		return models.Aspect{}, false, err
	}
	lonB, err := engine.Longitude(ctx, pair.B, date)
	if err != nil {
		return models.Aspect{}, false, err
	}
	asp, ok := Classify(lonA, lonB, orb)
	return asp, ok, nil
}

// ValidOrb reports whether orb satisfies Classify's precondition.
func ValidOrb(orb float64) bool {
	return orb >= 0 && !math.IsNaN(orb) && !math.IsInf(orb, 1)
}

var kinds = models.AspectKinds()

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
