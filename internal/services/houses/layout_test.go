package houses

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroCore/internal/domain/models"
	"AstroCore/pkg/util"
)

type stubHouses struct {
	calls  atomic.Int32
	lastJD float64
	system models.HouseSystem
	err    error
}

func (s *stubHouses) Houses(_ context.Context, jd, _, _ float64, system models.HouseSystem, buf *models.HouseBuffers) error {
	s.calls.Add(1)
	s.lastJD = jd
	s.system = system
	if s.err != nil {
		buf.ASCMC[0] = 999
		return s.err
	}
	buf.ASCMC[0] = 15
	buf.ASCMC[1] = 280
	for i := 1; i <= 12; i++ {
		buf.Cusps[i] = 15 + float64(i-1)*30
	}
	return nil
}

func TestComputeMapsBuffers(t *testing.T) {
	engine := &stubHouses{}
	date := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

	layout, err := Compute(context.Background(), engine, date, 51.5, -0.12, models.Koch)
	require.NoError(t, err)
	assert.EqualValues(t, 1, engine.calls.Load())
	assert.Equal(t, util.JulianDay(date), engine.lastJD)
	assert.Equal(t, models.Koch, engine.system)

	assert.Equal(t, date, layout.Date)
	assert.Equal(t, 15.0, layout.Ascendent.Value())
	assert.Equal(t, 280.0, layout.MidHeaven.Value())
	assert.Equal(t, 15.0, layout.First.Value())
	assert.Equal(t, 45.0, layout.Second.Value())
	assert.Equal(t, 345.0, layout.Twelfth.Value())
	for i, c := range layout.Cusps() {
		assert.Equal(t, 15+float64(i)*30, c.Value(), "house %d", i+1)
	}
}

func TestComputeNormalizesEngineOutput(t *testing.T) {
	engine := houseFunc(func(buf *models.HouseBuffers) error {
		buf.ASCMC[0] = 370
		buf.ASCMC[1] = -90
		for i := 1; i <= 12; i++ {
			buf.Cusps[i] = 720 + float64(i)
		}
		return nil
	})
	layout, err := Compute(context.Background(), engine, time.Now(), 0, 0, models.Equal)
	require.NoError(t, err)
	assert.Equal(t, 10.0, layout.Ascendent.Value())
	assert.Equal(t, 270.0, layout.MidHeaven.Value())
	assert.Equal(t, 1.0, layout.First.Value())
}

func TestComputeEngineError(t *testing.T) {
	engine := &stubHouses{err: models.ErrInvalidLatitude}
	layout, err := Compute(context.Background(), engine, time.Now(), 95, 0, models.Placidus)
	require.ErrorIs(t, err, models.ErrInvalidLatitude)
	assert.Equal(t, models.HouseLayout{}, layout)

	// the pooled buffers must come back clean after a failed call
	buf := acquireBuffers()
	defer releaseBuffers(buf)
	assert.Equal(t, models.HouseBuffers{}, *buf)
}

func TestLayoutJSONRoundTrip(t *testing.T) {
	layout, err := Compute(context.Background(), &stubHouses{}, time.Date(2021, 5, 4, 3, 2, 1, 0, time.UTC), 10, 20, models.Placidus)
	require.NoError(t, err)

	raw, err := json.Marshal(layout)
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	for _, k := range []string{"date", "ascendent", "midHeaven", "first", "sixth", "twelfth"} {
		assert.Contains(t, keys, k)
	}
	assert.Equal(t, "2021-05-04T03:02:01Z", keys["date"])

	var back models.HouseLayout
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Date.Equal(layout.Date))
	assert.Equal(t, layout.Cusps(), back.Cusps())
	assert.Equal(t, layout.Ascendent, back.Ascendent)
	assert.Equal(t, layout.MidHeaven, back.MidHeaven)
}

type houseFunc func(buf *models.HouseBuffers) error

func (f houseFunc) Houses(_ context.Context, _, _, _ float64, _ models.HouseSystem, buf *models.HouseBuffers) error {
	return f(buf)
}

type reentrancyProbe struct {
	inside atomic.Int32
	max    atomic.Int32
}

func (p *reentrancyProbe) Houses(_ context.Context, _, _, _ float64, _ models.HouseSystem, buf *models.HouseBuffers) error {
	n := p.inside.Add(1)
	defer p.inside.Add(-1)
	for {
		cur := p.max.Load()
		if n <= cur || p.max.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	buf.ASCMC[0] = 1
	return nil
}

func TestSerializeRunsOneCallAtATime(t *testing.T) {
	probe := &reentrancyProbe{}
	engine := Serialize(probe)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Compute(context.Background(), engine, time.Now(), 0, 0, models.WholeSign)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, probe.max.Load())
}
