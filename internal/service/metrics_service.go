package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	enrollTotal     prometheus.Counter
	capacityTotal   prometheus.Counter
	intentTotal     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
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

	enrollTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_total",
		Help: "Total successful enrollment transactions",
	})

	capacityTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_capacity_rejected_total",
		Help: "Enrollment transactions rejected because seats ran out",
	})

	intentTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_intents_total",
		Help: "Total payment intents requested from the gateway",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, enrollTotal, capacityTotal, intentTotal, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		enrollTotal:     enrollTotal,
		capacityTotal:   capacityTotal,
		intentTotal:     intentTotal,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one handled request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// IncEnrollment counts a successful enrollment transaction.
func (s *MetricsService) IncEnrollment() {
	s.enrollTotal.Inc()
}

// IncCapacityRejection counts an enrollment refused at zero seats.
func (s *MetricsService) IncCapacityRejection() {
	s.capacityTotal.Inc()
}

// IncPaymentIntent counts a gateway intent request.
func (s *MetricsService) IncPaymentIntent() {
	s.intentTotal.Inc()
}
