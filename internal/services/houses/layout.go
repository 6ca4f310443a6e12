// Package houses builds HouseLayout values from the output of an external
// house engine.
package houses

import (
	"context"
	"sync"
	"time"

	"AstroCore/internal/domain/models"
	domsvc "AstroCore/internal/domain/service"
	"AstroCore/pkg/util"
)

var bufferPool = sync.Pool{
	New: func() any { return new(models.HouseBuffers) },
}

func acquireBuffers() *models.HouseBuffers {
	return bufferPool.Get().(*models.HouseBuffers)
}

func releaseBuffers(b *models.HouseBuffers) {
	b.Reset()
	bufferPool.Put(b)
}

// Compute calls the engine once and maps its output onto a HouseLayout.
// On engine failure the error is returned unchanged together with a zero
// layout. The engine's buffers are released before Compute returns on every
// path and are never referenced by the result.
func Compute(ctx context.Context, engine domsvc.HouseEngine, date time.Time, latitude, longitude float64, system models.HouseSystem) (models.HouseLayout, error) {
	buf := acquireBuffers()
	defer releaseBuffers(buf)

	if err := engine.Houses(ctx, util.JulianDay(date), latitude, longitude, system, buf); err != nil {
		return models.HouseLayout{}, err
	}
	return fromBuffers(date, buf), nil
}

// fromBuffers copies values out of buf. Index order decides house identity.
func fromBuffers(date time.Time, buf *models.HouseBuffers) models.HouseLayout {
	c := &buf.Cusps
	return models.HouseLayout{
		Date:      date,
		Ascendent: models.NewDegree(buf.ASCMC[0]),
		MidHeaven: models.NewDegree(buf.ASCMC[1]),
		First:     models.NewDegree(c[1]),
		Second:    models.NewDegree(c[2]),
		Third:     models.NewDegree(c[3]),
		Fourth:    models.NewDegree(c[4]),
		Fifth:     models.NewDegree(c[5]),
		Sixth:     models.NewDegree(c[6]),
		Seventh:   models.NewDegree(c[7]),
		Eighth:    models.NewDegree(c[8]),
		Ninth:     models.NewDegree(c[9]),
		Tenth:     models.NewDegree(c[10]),
		Eleventh:  models.NewDegree(c[11]),
		Twelfth:   models.NewDegree(c[12]),
	}
}

// SerializedEngine guards a HouseEngine that is not reentrant.
type SerializedEngine struct {
	mu    sync.Mutex
	inner domsvc.HouseEngine
}

// Serialize wraps engine so that at most one Houses call runs at a time.
func Serialize(engine domsvc.HouseEngine) *SerializedEngine {
	return &SerializedEngine{inner: engine}
}

func (s *SerializedEngine) Houses(ctx context.Context, jd, latitude, longitude float64, system models.HouseSystem, buf *models.HouseBuffers) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Houses(ctx, jd, latitude, longitude, system, buf)
}

var _ domsvc.HouseEngine = (*SerializedEngine)(nil)
