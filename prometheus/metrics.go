package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tailor-service/pkg/config"
)

// Counter metrics
var (
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tailor_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counter
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tailor_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Order operation counter
	OrderOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailor_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation"}, // "create", "convert", "item_add", "item_update", "item_remove", etc.
	)

	// Inquiry operation counter
	InquiryOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailor_inquiry_operations_total",
			Help: "Total number of inquiry operations",
		},
		[]string{"operation"}, // "create", "status_change", "convert"
	)

	// Invoice operation counter
	InvoiceOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailor_invoice_operations_total",
			Help: "Total number of invoice operations",
		},
		[]string{"operation"}, // "generate", "generate_manual", "sent", "paid", "cancel"
	)

	// Payment operation counter
	PaymentOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailor_payment_operations_total",
			Help: "Total number of payment operations",
		},
		[]string{"operation"}, // "record", "void", "summary"
	)

	// Quota denial counter
	QuotaDenialCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailor_quota_denials_total",
			Help: "Total number of creations denied by subscription quota",
		},
		[]string{"resource"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailor_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counter
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailor_errors_total",
			Help: "Total number of request errors",
		},
		[]string{"type"}, // "invalid_request", "db_error", "conflict", "invariant", etc.
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tailor_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tailor_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tailor_info",
			Help: "Information about the tailor service",
		},
		[]string{"version", "metrics_prefix"},
	)

	// Active tenants
	ActiveTenantsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tailor_active_tenants",
			Help: "Number of currently active tenants",
		},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(OrderOperationCounter)
	prometheus.MustRegister(InquiryOperationCounter)
	prometheus.MustRegister(InvoiceOperationCounter)
	prometheus.MustRegister(PaymentOperationCounter)
	prometheus.MustRegister(QuotaDenialCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(ErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(InfoGauge)
	prometheus.MustRegister(ActiveTenantsGauge)
}

// InitMetrics sets the initial service info from configuration.
func InitMetrics(cfg *config.Config) {
	InfoGauge.With(prometheus.Labels{"version": "1.0.0", "metrics_prefix": cfg.Metrics.Prefix}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordError records a request error by type
func RecordError(errorType string) {
	ErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordOrderOperation records an order operation
func RecordOrderOperation(operation string) {
	OrderOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordInquiryOperation records an inquiry operation
func RecordInquiryOperation(operation string) {
	InquiryOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordInvoiceOperation records an invoice operation
func RecordInvoiceOperation(operation string) {
	InvoiceOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordPaymentOperation records a payment operation
func RecordPaymentOperation(operation string) {
	PaymentOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordQuotaDenial records a creation denied by plan limits
func RecordQuotaDenial(resource string) {
	QuotaDenialCounter.With(prometheus.Labels{"resource": resource}).Inc()
}

// UpdateActiveTenants updates the active tenants gauge
func UpdateActiveTenants(count int) {
	ActiveTenantsGauge.Set(float64(count))
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
