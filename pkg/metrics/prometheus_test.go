package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordAspect("trine")
	r.RecordAspect("trine")
	r.RecordEngineError("fixture", "out_of_range")
	r.RecordCache("hit")
	r.RecordLatency("houses.compute", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.aspectsTotal.WithLabelValues("trine")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.engineErrors.WithLabelValues("fixture", "out_of_range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheTotal.WithLabelValues("hit")))

	n, err := testutil.GatherAndCount(reg, "astro_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorderSeparateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
