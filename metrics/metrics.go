package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "papersearch"

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	StoreDuration *prometheus.HistogramVec
	StoreErrors   *prometheus.CounterVec
	PapersTotal   prometheus.Gauge
	StoreUp       prometheus.Gauge
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StoreDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Latency of document store operations.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"operation"}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed document store operations.",
		}, []string{"operation"}),
		PapersTotal: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "papers_total",
			Help:      "Papers in the collection at the last probe.",
		}),
		StoreUp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_up",
			Help:      "1 if the last store probe succeeded.",
		}),
	}
}

// ObserveStore records one store call.
func (m *Metrics) ObserveStore(op string, d time.Duration, err error) {
	m.StoreDuration.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		m.StoreErrors.WithLabelValues(op).Inc()
	}
}

// ObserveProbe records the outcome of a store health probe.
func (m *Metrics) ObserveProbe(total int64, err error) {
	if err != nil {
		m.StoreUp.Set(0)
		return
	}
	m.StoreUp.Set(1)
	m.PapersTotal.Set(float64(total))
}
