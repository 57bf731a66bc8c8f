package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector aggregates the service's prometheus metrics.
type MetricsCollector struct {
	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Payment metrics
	paymentsInitiatedTotal *prometheus.CounterVec
	reconciliationsTotal   *prometheus.CounterVec
	webhookDuration        *prometheus.HistogramVec
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector returns the process-wide collector, creating it on first use.
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = newMetricsCollector()
	})
	return globalCollector
}

func newMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		paymentsInitiatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_initiated_total",
				Help: "Payments created, labeled by method",
			},
			[]string{"method"},
		),
		reconciliationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_reconciliations_total",
				Help: "Terminal payment transitions, labeled by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		webhookDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webhook_handling_duration_seconds",
				Help:    "Webhook handler duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

// RecordHTTPRequest records one handled request.
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordPaymentInitiated counts a created payment.
func (m *MetricsCollector) RecordPaymentInitiated(method string) {
	m.paymentsInitiatedTotal.WithLabelValues(method).Inc()
}

// RecordReconciliation counts a terminal transition. source is one of
// poll/webhook/bank_webhook/confirm/sweeper, outcome the terminal status.
func (m *MetricsCollector) RecordReconciliation(source, outcome string) {
	m.reconciliationsTotal.WithLabelValues(source, outcome).Inc()
}

// RecordWebhook records how long a webhook took to handle.
func (m *MetricsCollector) RecordWebhook(kind string, duration time.Duration) {
	m.webhookDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
