package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the pass flow
// and the HTTP surface. All methods are nil-receiver safe so tests can run
// without a registry.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	claimsTotal     prometheus.Counter
	releasesTotal   prometheus.Counter
	rejectionsTotal *prometheus.CounterVec
	passDuration    prometheus.Histogram
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	claimsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pass_claims_total",
		Help: "Total pass slots claimed",
	})

	releasesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pass_releases_total",
		Help: "Total pass slots released",
	})

	rejectionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pass_rejections_total",
		Help: "Total rejected pass requests",
	}, []string{"reason"})

	passDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pass_duration_seconds",
		Help:    "Time students spend out of class per pass",
		Buckets: []float64{30, 60, 120, 180, 300, 600, 900, 1800},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, claimsTotal, releasesTotal, rejectionsTotal, passDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		claimsTotal:     claimsTotal,
		releasesTotal:   releasesTotal,
		rejectionsTotal: rejectionsTotal,
		passDuration:    passDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordClaim counts a claimed pass.
func (m *MetricsService) RecordClaim() {
	if m == nil {
		return
	}
	m.claimsTotal.Inc()
}

// RecordRelease counts a returned pass and its round-trip duration.
func (m *MetricsService) RecordRelease(duration time.Duration) {
	if m == nil {
		return
	}
	m.releasesTotal.Inc()
	m.passDuration.Observe(duration.Seconds())
}

// RecordRejection counts a rejection by reason code.
func (m *MetricsService) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}
