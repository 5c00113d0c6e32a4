package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	UsersRegistered       prometheus.Counter
	RegistrationsRejected *prometheus.CounterVec
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	RateLimitedRequests   prometheus.Counter
}

// New creates all metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_users_registered_total",
			Help: "Total number of users admitted into the store",
		}),
		RegistrationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_registrations_rejected_total",
			Help: "Total number of rejected registrations by reason (validation, cpf, email)",
		}, []string{"reason"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signup_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimitedRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_rate_limited_requests_total",
			Help: "Total number of requests denied by the rate limiter",
		}),
	}
}

// UserRegistered increments the registered users counter by 1
func (m *Metrics) UserRegistered() {
	m.UsersRegistered.Inc()
}

// RegistrationRejected increments the rejection counter for reason
func (m *Metrics) RegistrationRejected(reason string) {
	m.RegistrationsRejected.WithLabelValues(reason).Inc()
}
