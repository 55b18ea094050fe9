package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	queries  *prometheus.CounterVec
	duration prometheus.Histogram
	rows     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "student_records",
			Name:      "queries_total",
			Help:      "Record queries issued by page views, by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "student_records",
			Name:      "query_duration_seconds",
			Help:      "Latency of record queries against the backend.",
			Buckets:   prometheus.DefBuckets,
		}),
		rows: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "student_records",
			Name:      "query_rows",
			Help:      "Rows returned per successful query.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50},
		}),
	}
}

func (m *Metrics) observe(outcome string, took time.Duration, rows int) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(outcome).Inc()
	m.duration.Observe(took.Seconds())
	if outcome == outcomeSuccess {
		m.rows.Observe(float64(rows))
	}
}
