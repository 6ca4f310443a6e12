package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroCore/internal/domain/models"
)

func sampleLayout(date time.Time, shift float64) models.StoredLayout {
	d := func(v float64) models.Degree { return models.NewDegree(v + shift) }
	return models.StoredLayout{
		Layout: models.HouseLayout{
			Date:      date,
			Ascendent: d(15),
			MidHeaven: d(280),
			First:     d(15), Second: d(45), Third: d(75), Fourth: d(105),
			Fifth: d(135), Sixth: d(165), Seventh: d(195), Eighth: d(225),
			Ninth: d(255), Tenth: d(285), Eleventh: d(315), Twelfth: d(345),
		},
		Latitude:   51.5,
		Longitude:  -0.12,
		System:     models.Placidus,
		ComputedAt: date.Add(time.Minute),
	}
}

func TestRowRoundTrip(t *testing.T) {
	in := sampleLayout(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), 0)

	r := toRow(in)
	require.Len(t, r.Cusps, 12)
	assert.Equal(t, "placidus", r.System)
	assert.Equal(t, 345.0, r.Cusps[11])

	out, ok := r.stored()
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestRowRejectsShortCusps(t *testing.T) {
	_, ok := layoutRow{Cusps: []float64{1, 2, 3}}.stored()
	assert.False(t, ok)
}

func TestNormalizeQuery(t *testing.T) {
	q := normalizeQuery(models.HistoryQuery{})
	assert.Equal(t, historyMin, q.From)
	assert.Equal(t, historyMax, q.To)
	assert.Equal(t, defaultHistoryLimit, q.Limit)

	q = normalizeQuery(models.HistoryQuery{Limit: 5000})
	assert.Equal(t, maxHistoryLimit, q.Limit)
}

func TestMemoryLayoutStoreHistory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLayoutStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, sampleLayout(base.AddDate(0, 0, i), float64(i))))
	}
	other := sampleLayout(base, 0)
	other.System = models.Koch
	require.NoError(t, s.Save(ctx, other))

	got, err := s.History(ctx, models.HistoryQuery{
		Latitude: 51.5, Longitude: -0.12, System: models.Placidus,
		From: base.AddDate(0, 0, 1), To: base.AddDate(0, 0, 3),
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	// newest first
	assert.Equal(t, base.AddDate(0, 0, 3), got[0].Layout.Date)
	assert.Equal(t, base.AddDate(0, 0, 1), got[2].Layout.Date)

	got, err = s.History(ctx, models.HistoryQuery{
		Latitude: 51.5, Longitude: -0.12, System: models.Placidus, Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoryLayoutStoreReplacesSameKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLayoutStore()
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, sampleLayout(date, 0)))
	require.NoError(t, s.Save(ctx, sampleLayout(date, 1)))

	got, err := s.History(ctx, models.HistoryQuery{Latitude: 51.5, Longitude: -0.12, System: models.Placidus})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 16.0, got[0].Layout.Ascendent.Value())
}
