package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	policyDecisions *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	generations     *prometheus.CounterVec
	generationTime  prometheus.Observer
	smsDeliveries   *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
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

	policyDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_decisions_total",
		Help: "Access policy decisions by subject kind, subject, role and outcome",
	}, []string{"kind", "subject", "role", "decision"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "genai_requests_total",
		Help: "Generative text requests by purpose and outcome",
	}, []string{"purpose", "outcome"})

	generationTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "genai_request_duration_seconds",
		Help:    "Latency of generative text requests",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20},
	})

	smsDeliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sms_deliveries_total",
		Help: "Outbound SMS deliveries by final status",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, policyDecisions, cacheLookups, cacheLatency, generations, generationTime, smsDeliveries, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		policyDecisions: policyDecisions,
		cacheLookups:    cacheLookups,
		cacheLatency:    cacheLatency,
		generations:     generations,
		generationTime:  generationTime,
		smsDeliveries:   smsDeliveries,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
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

// RecordDecision counts one policy decision. kind is "route" or "action".
func (m *MetricsService) RecordDecision(kind, subject, role, decision string) {
	if m == nil {
		return
	}
	m.policyDecisions.WithLabelValues(kind, subject, role, decision).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
	m.cacheLatency.Observe(duration.Seconds())
}

// ObserveGeneration records a generative text call.
func (m *MetricsService) ObserveGeneration(purpose string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.generations.WithLabelValues(purpose, outcome).Inc()
	m.generationTime.Observe(duration.Seconds())
}

// RecordSMSDelivery counts a message reaching a final status.
func (m *MetricsService) RecordSMSDelivery(status string) {
	if m == nil {
		return
	}
	m.smsDeliveries.WithLabelValues(status).Inc()
}
