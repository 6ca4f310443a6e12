package ephemeris

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"AstroCore/internal/domain/models"
	domsvc "AstroCore/internal/domain/service"
	"AstroCore/pkg/util"
)

// polarCircle bounds the latitudes where quadrant systems built on
// semi-arcs stay defined.
const polarCircle = 66.56

type fixtureBody struct {
	Longitude float64 `yaml:"longitude"`
	Motion    float64 `yaml:"motion"` // degrees per day
}

type fixtureHouses struct {
	Ascendent float64   `yaml:"ascendent"`
	MidHeaven float64   `yaml:"mid_heaven"`
	Cusps     []float64 `yaml:"cusps"`
}

type fixtureFile struct {
	Name      string                               `yaml:"name"`
	Epoch     time.Time                            `yaml:"epoch"`
	ValidFrom time.Time                            `yaml:"valid_from"`
	ValidTo   time.Time                            `yaml:"valid_to"`
	Bodies    map[string]fixtureBody               `yaml:"bodies"`
	Houses    map[models.HouseSystem]fixtureHouses `yaml:"houses"`
}

// FixtureEngine is a deterministic engine backed by a YAML table. Body
// longitudes move linearly from the epoch; house angles are a fixed table per
// system rotated by the geographic longitude. It reproduces the failure modes
// of a real engine: unknown bodies, dates outside the table's range, invalid
// latitudes and quadrant systems beyond the polar circle.
//
// The table is read-only after load, so the engine is safe for concurrent use.
type FixtureEngine struct {
	data fixtureFile
}

// LoadFixtureEngine reads a fixture table from path.
func LoadFixtureEngine(path string) (*FixtureEngine, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixtureEngine(b)
}

// ParseFixtureEngine builds an engine from YAML bytes.
func ParseFixtureEngine(b []byte) (*FixtureEngine, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if len(f.Bodies) == 0 {
		return nil, fmt.Errorf("fixture has no bodies")
	}
	for sys, h := range f.Houses {
		if !sys.Valid() {
			return nil, fmt.Errorf("fixture: %w: %q", models.ErrUnsupportedHouseSystem, sys)
		}
		if len(h.Cusps) != 12 {
			return nil, fmt.Errorf("fixture: %s needs 12 cusps, has %d", sys, len(h.Cusps))
		}
	}
	// keys are matched case-insensitively
	bodies := make(map[string]fixtureBody, len(f.Bodies))
	for k, v := range f.Bodies {
		bodies[strings.ToLower(k)] = v
	}
	f.Bodies = bodies
	if f.Name == "" {
		f.Name = "fixture"
	}
	return &FixtureEngine{data: f}, nil
}

func (e *FixtureEngine) Name() string { return e.data.Name }

func (e *FixtureEngine) inRange(at time.Time) bool {
	if !e.data.ValidFrom.IsZero() && at.Before(e.data.ValidFrom) {
		return false
	}
	if !e.data.ValidTo.IsZero() && at.After(e.data.ValidTo) {
		return false
	}
	return true
}

func (e *FixtureEngine) Longitude(_ context.Context, body models.Body, at time.Time) (models.Degree, error) {
	b, ok := e.data.Bodies[strings.ToLower(body.BodyID())]
	if !ok {
		return models.Degree{}, fmt.Errorf("%w: %s", models.ErrUnknownBody, body.BodyID())
	}
	if !e.inRange(at) {
		return models.Degree{}, fmt.Errorf("%w: %s", models.ErrOutOfEphemerisRange, at.UTC().Format(time.RFC3339))
	}
	days := util.JulianDay(at) - util.JulianDay(e.data.Epoch)
	return models.NewDegree(b.Longitude + b.Motion*days), nil
}

func (e *FixtureEngine) Houses(_ context.Context, jd, latitude, longitude float64, system models.HouseSystem, buf *models.HouseBuffers) error {
	if math.IsNaN(latitude) || math.Abs(latitude) > 90 {
		return fmt.Errorf("%w: %v", models.ErrInvalidLatitude, latitude)
	}
	if !system.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnsupportedHouseSystem, system)
	}
	if (system == models.Placidus || system == models.Koch) && math.Abs(latitude) > polarCircle {
		return fmt.Errorf("%w: %s undefined at latitude %v", models.ErrUnsupportedHouseSystem, system, latitude)
	}
	if !e.inRange(util.FromJulianDay(jd)) {
		return fmt.Errorf("%w: jd %v", models.ErrEngineInternal, jd)
	}
	h, ok := e.data.Houses[system]
	if !ok {
		return fmt.Errorf("%w: no table for %s", models.ErrUnsupportedHouseSystem, system)
	}
	buf.ASCMC[0] = h.Ascendent + longitude
	buf.ASCMC[1] = h.MidHeaven + longitude
	for i, c := range h.Cusps {
		buf.Cusps[i+1] = c + longitude
	}
	return nil
}

var _ domsvc.Engine = (*FixtureEngine)(nil)
