package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for API requests and task client calls,
// and histograms for request and database query duration.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ClientRequests      *prometheus.CounterVec
	DBQueryDuration     *prometheus.HistogramVec
	Sessions            prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_http_requests_total",
			Help: "Total number of HTTP requests served by the task API.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the task API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ClientRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_client_requests_total",
			Help: "Total number of calls made by the task client, by operation and result.",
		}, []string{"operation", "result"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'list_tasks', 'update_task'
		Sessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hestia_web_sessions",
			Help: "Number of active task board sessions.",
		}),
	}

	for _, op := range []string{"list", "create", "update", "delete"} {
		metrics.ClientRequests.WithLabelValues(op, "success")
		metrics.ClientRequests.WithLabelValues(op, "failure")
	}

	return metrics
}
