package kafka

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds producer and consumer instruments. A nil *Metrics records
// nothing.
type Metrics struct {
	producerMsgs    *prometheus.CounterVec
	producerBytes   *prometheus.CounterVec
	producerLatency *prometheus.HistogramVec
	queueDepth      *prometheus.GaugeVec
	handleLatency   *prometheus.HistogramVec
	handled         *prometheus.CounterVec
}

// NewMetrics registers the Kafka instruments with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		producerMsgs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "astro_kafka_producer_messages_total",
			Help: "Messages published to Kafka",
		}, []string{"topic", "result"}),
		producerBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "astro_kafka_producer_bytes_total",
			Help: "Payload bytes published",
		}, []string{"topic"}),
		producerLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "astro_kafka_producer_publish_seconds",
			Help:    "Publish latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"}),
		queueDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "astro_kafka_consumer_queue_depth",
			Help: "Messages waiting for a worker",
		}, []string{"topic"}),
		handleLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "astro_kafka_consumer_handle_seconds",
			Help:    "Handling time per message, retries included",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"}),
		handled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "astro_kafka_consumer_messages_total",
			Help: "Consumed messages by outcome",
		}, []string{"topic", "result"}),
	}
}

func (m *Metrics) observePublish(topic string, bytes int64, count int, dur time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.producerMsgs.WithLabelValues(topic, result).Add(float64(count))
	m.producerBytes.WithLabelValues(topic).Add(float64(bytes))
	m.producerLatency.WithLabelValues(topic).Observe(dur.Seconds())
}

func (m *Metrics) setQueueDepth(topic string, n int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(topic).Set(float64(n))
}

func (m *Metrics) observeHandle(topic, result string, dur time.Duration) {
	if m == nil {
		return
	}
	m.handled.WithLabelValues(topic, result).Inc()
	m.handleLatency.WithLabelValues(topic).Observe(dur.Seconds())
}
