package repository

import (
	"time"

	"AstroCore/internal/domain/models"
)

// Open history bounds, inside the DateTime64 range.
var (
	historyMin = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	historyMax = time.Date(2299, 12, 31, 23, 59, 59, 0, time.UTC)
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

// normalizeQuery fills open bounds and the default limit, and caps the limit.
func normalizeQuery(q models.HistoryQuery) models.HistoryQuery {
	if q.From.IsZero() {
		q.From = historyMin
	}
	if q.To.IsZero() {
		q.To = historyMax
	}
	if q.Limit <= 0 {
		q.Limit = defaultHistoryLimit
	}
	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}
	return q
}

func cuspValues(l models.HouseLayout) []float64 {
	cusps := l.Cusps()
	out := make([]float64, len(cusps))
	for i, c := range cusps {
		out[i] = c.Value()
	}
	return out
}

type layoutRow struct {
	Date       time.Time
	Latitude   float64
	Longitude  float64
	System     string
	Ascendent  float64
	MidHeaven  float64
	Cusps      []float64
	ComputedAt time.Time
}

func toRow(s models.StoredLayout) layoutRow {
	return layoutRow{
		Date:       s.Layout.Date.UTC(),
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		System:     string(s.System),
		Ascendent:  s.Layout.Ascendent.Value(),
		MidHeaven:  s.Layout.MidHeaven.Value(),
		Cusps:      cuspValues(s.Layout),
		ComputedAt: s.ComputedAt.UTC(),
	}
}

func (r layoutRow) stored() (models.StoredLayout, bool) {
	if len(r.Cusps) != 12 {
		return models.StoredLayout{}, false
	}
	c := r.Cusps
	return models.StoredLayout{
		Layout: models.HouseLayout{
			Date:      r.Date.UTC(),
			Ascendent: models.NewDegree(r.Ascendent),
			MidHeaven: models.NewDegree(r.MidHeaven),
			First:     models.NewDegree(c[0]),
			Second:    models.NewDegree(c[1]),
			Third:     models.NewDegree(c[2]),
			Fourth:    models.NewDegree(c[3]),
			Fifth:     models.NewDegree(c[4]),
			Sixth:     models.NewDegree(c[5]),
			Seventh:   models.NewDegree(c[6]),
			Eighth:    models.NewDegree(c[7]),
			Ninth:     models.NewDegree(c[8]),
			Tenth:     models.NewDegree(c[9]),
			Eleventh:  models.NewDegree(c[10]),
			Twelfth:   models.NewDegree(c[11]),
		},
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		System:     models.HouseSystem(r.System),
		ComputedAt: r.ComputedAt.UTC(),
	}, true
}
