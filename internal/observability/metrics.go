package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the counters below.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Metrics holds the service's Prometheus collectors on a private registry so
// tests can build as many instances as they like.
type Metrics struct {
	registry         *prometheus.Registry
	requests         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	errors           *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	otpAttempts      *prometheus.CounterVec
	inquiriesCreated prometheus.Counter
	statusChanges    *prometheus.CounterVec
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of failed HTTP requests by error code",
		}, []string{"method", "path", "code"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inquiry_notifications_total",
			Help: "Outbound CRM and chat notifications by result",
		}, []string{"channel", "result"}),
		otpAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_otp_attempts_total",
			Help: "Admin OTP verification attempts by result",
		}, []string{"result"}),
		inquiriesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inquiries_created_total",
			Help: "Total number of inquiries accepted",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inquiry_status_changes_total",
			Help: "Inquiry status changes by source and new status",
		}, []string{"source", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.errors, m.notifications,
		m.otpAttempts, m.inquiriesCreated, m.statusChanges,
	)
	return m
}

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError counts a request that ended with a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

func (m *Metrics) RecordNotification(channel, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) RecordOTP(result string) {
	if m == nil {
		return
	}
	m.otpAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordInquiryCreated() {
	if m == nil {
		return
	}
	m.inquiriesCreated.Inc()
}

func (m *Metrics) RecordStatusChange(source, status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(source, status).Inc()
}

// Registry exposes the underlying registry for scraping and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
