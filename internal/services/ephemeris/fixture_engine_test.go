package ephemeris

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroCore/internal/domain/models"
	"AstroCore/pkg/util"
)

const fixtureDoc = `
name: test
epoch: 2000-01-01T12:00:00Z
valid_from: 1900-01-01T00:00:00Z
valid_to: 2100-01-01T00:00:00Z
bodies:
  sun: {longitude: 280, motion: 1}
  moon: {longitude: 10, motion: 0}
  star:Regulus: {longitude: 150}
houses:
  placidus:
    ascendent: 15
    mid_heaven: 280
    cusps: [15, 45, 75, 105, 135, 165, 195, 225, 255, 285, 315, 345]
  equal:
    ascendent: 15
    mid_heaven: 280
    cusps: [15, 45, 75, 105, 135, 165, 195, 225, 255, 285, 315, 345]
`

var epoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *FixtureEngine {
	t.Helper()
	e, err := ParseFixtureEngine([]byte(fixtureDoc))
	require.NoError(t, err)
	return e
}

func TestFixtureLongitude(t *testing.T) {
	e := newFixture(t)
	ctx := context.Background()

	d, err := e.Longitude(ctx, models.Sun, epoch)
	require.NoError(t, err)
	assert.InDelta(t, 280.0, d.Value(), 1e-9)

	d, err = e.Longitude(ctx, models.Sun, epoch.Add(100*24*time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 20.0, d.Value(), 1e-6)

	d, err = e.Longitude(ctx, models.FixedStar("Regulus"), epoch)
	require.NoError(t, err)
	assert.Equal(t, 150.0, d.Value())
}

func TestFixtureLongitudeErrors(t *testing.T) {
	e := newFixture(t)
	ctx := context.Background()

	_, err := e.Longitude(ctx, models.Pluto, epoch)
	assert.ErrorIs(t, err, models.ErrUnknownBody)

	_, err = e.Longitude(ctx, models.Sun, time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, models.ErrOutOfEphemerisRange)
}

func TestFixtureHouses(t *testing.T) {
	e := newFixture(t)
	var buf models.HouseBuffers

	require.NoError(t, e.Houses(context.Background(), util.JulianDay(epoch), 51.5, 10, models.Placidus, &buf))
	assert.Equal(t, 25.0, buf.ASCMC[0])
	assert.Equal(t, 290.0, buf.ASCMC[1])
	assert.Equal(t, 0.0, buf.Cusps[0])
	assert.Equal(t, 25.0, buf.Cusps[1])
	assert.Equal(t, 355.0, buf.Cusps[12])
}

func TestFixtureHousesErrors(t *testing.T) {
	e := newFixture(t)
	jd := util.JulianDay(epoch)
	ctx := context.Background()
	var buf models.HouseBuffers

	assert.ErrorIs(t, e.Houses(ctx, jd, 91, 0, models.Placidus, &buf), models.ErrInvalidLatitude)
	assert.ErrorIs(t, e.Houses(ctx, jd, 70, 0, models.Placidus, &buf), models.ErrUnsupportedHouseSystem)
	assert.ErrorIs(t, e.Houses(ctx, jd, 0, 0, models.Koch, &buf), models.ErrUnsupportedHouseSystem, "no table for koch")
	assert.NoError(t, e.Houses(ctx, jd, 70, 0, models.Equal, &buf))
	assert.ErrorIs(t, e.Houses(ctx, util.JulianDay(time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)), 0, 0, models.Equal, &buf), models.ErrEngineInternal)
}

func TestParseFixtureRejectsBadTables(t *testing.T) {
	_, err := ParseFixtureEngine([]byte("bodies: {}\n"))
	assert.Error(t, err)

	_, err = ParseFixtureEngine([]byte("bodies: {sun: {longitude: 1}}\nhouses:\n  equal: {cusps: [1, 2]}\n"))
	assert.Error(t, err)

	_, err = ParseFixtureEngine([]byte("bodies: {sun: {longitude: 1}}\nhouses:\n  topocentric: {cusps: [1,2,3,4,5,6,7,8,9,10,11,12]}\n"))
	assert.ErrorIs(t, err, models.ErrUnsupportedHouseSystem)
}

func TestBundledFixtureLoads(t *testing.T) {
	e, err := LoadFixtureEngine("../../../config/fixture.yaml")
	require.NoError(t, err)
	for _, sys := range models.HouseSystems() {
		var buf models.HouseBuffers
		require.NoError(t, e.Houses(context.Background(), util.JulianDay(epoch), 40, 0, sys, &buf), sys)
	}
	_, err = e.Longitude(context.Background(), models.MeanApogee, epoch)
	assert.NoError(t, err)
}
