package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names understood by PrometheusMetrics.
const (
	MetricTransactionSaved     = "transaction_saved"
	MetricTransactionDeleted   = "transaction_deleted"
	MetricTransactionRejected  = "transaction_rejected"
	MetricCategoryCreated      = "category_created"
	MetricAuthenticationEvent  = "authentication_event"
	MetricSampleDataGenerated  = "sample_data_generated"
	MetricDashboardBuild       = "dashboard_build"
	MetricTransactionAmount    = "transaction_amount"
	MetricDashboardTransaction = "dashboard_transactions"
)

type PrometheusMetrics struct {
	transactionsSaved         *prometheus.CounterVec
	transactionsDeleted       prometheus.Counter
	transactionsRejected      *prometheus.CounterVec
	transactionAmount         *prometheus.HistogramVec
	categoriesCreated         *prometheus.CounterVec
	authenticationEventsTotal *prometheus.CounterVec
	sampleDataGenerated       prometheus.Counter
	dashboardDuration         prometheus.Histogram
	dashboardTransactions     prometheus.Gauge
}

// NewPrometheusMetrics registers the collectors with reg. A nil reg uses the
// default registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		transactionsSaved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_saved_total",
				Help: "Total number of transactions created or updated",
			},
			[]string{"operation", "type"},
		),
		transactionsDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_deleted_total",
				Help: "Total number of transactions deleted",
			},
		),
		transactionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_rejected_total",
				Help: "Total number of transaction forms rejected by validation",
			},
			[]string{"operation"},
		),
		transactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transaction_amount",
				Help:    "Amount of saved transactions",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
			[]string{"type"},
		),
		categoriesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "categories_created_total",
				Help: "Total number of categories created",
			},
			[]string{"type", "source"},
		),
		authenticationEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		sampleDataGenerated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sample_transactions_generated_total",
				Help: "Total number of generated sample transactions",
			},
		),
		dashboardDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dashboard_build_duration_milliseconds",
				Help:    "Dashboard aggregation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		dashboardTransactions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_transactions_last",
				Help: "Number of transactions in the most recent dashboard",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricTransactionSaved:
		m.transactionsSaved.WithLabelValues(tags["operation"], tags["type"]).Inc()
	case MetricTransactionDeleted:
		m.transactionsDeleted.Inc()
	case MetricTransactionRejected:
		m.transactionsRejected.WithLabelValues(tags["operation"]).Inc()
	case MetricCategoryCreated:
		m.categoriesCreated.WithLabelValues(tags["type"], tags["source"]).Inc()
	case MetricAuthenticationEvent:
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	case MetricSampleDataGenerated:
		m.sampleDataGenerated.Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricDashboardBuild:
		m.dashboardDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricTransactionAmount:
		m.transactionAmount.WithLabelValues(tags["type"]).Observe(value)
	case MetricDashboardTransaction:
		m.dashboardTransactions.Set(value)
	}
}

// NoopMetrics discards everything. Tests and tools use it where no registry
// is wanted.
type NoopMetrics struct{}

func (NoopMetrics) IncrementCounter(string, map[string]string) {}
func (NoopMetrics) RecordProcessingTime(string, time.Duration) {}
func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}
