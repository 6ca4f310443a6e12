package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	aspectsTotal *prometheus.CounterVec
	engineErrors *prometheus.CounterVec
	cacheTotal   *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a recorder registered on reg. A nil reg means the default
// registry; tests pass prometheus.NewRegistry() so repeated construction
// does not collide.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		aspectsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astro_aspects_total",
				Help: "Classifications by resulting kind, \"none\" when nothing matched",
			},
			[]string{"kind"},
		),
		engineErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astro_engine_errors_total",
				Help: "Errors returned by position and house engines",
			},
			[]string{"engine", "reason"},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astro_cache_requests_total",
				Help: "Layout cache lookups by result",
			},
			[]string{"result"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astro_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAspect counts one classified aspect ("none" when nothing matched).
func (r *Recorder) RecordAspect(kind string) {
	r.aspectsTotal.WithLabelValues(kind).Inc()
}

// RecordEngineError counts an engine failure.
func (r *Recorder) RecordEngineError(engine, reason string) {
	r.engineErrors.WithLabelValues(engine, reason).Inc()
}

// RecordCache counts a cache lookup: hit, miss or error.
func (r *Recorder) RecordCache(result string) {
	r.cacheTotal.WithLabelValues(result).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordAspect(string)              {}
func (Nop) RecordEngineError(string, string) {}
func (Nop) RecordCache(string)               {}
func (Nop) RecordLatency(string, float64)    {}
