package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staybook",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by path and status.",
		},
		[]string{"path", "status"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staybook",
			Name:      "bookings_created_total",
			Help:      "Count of bookings created by room type.",
		},
		[]string{"room_type"},
	)

	usersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "staybook",
			Name:      "users_registered_total",
			Help:      "Count of successful registrations.",
		},
	)

	authFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staybook",
			Name:      "auth_failures_total",
			Help:      "Count of failed authentications by reason.",
		},
		[]string{"reason"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, usersRegistered, authFailures)
	})
}

func IncHTTPRequest(path, status string) {
	httpRequests.WithLabelValues(path, status).Inc()
}

func IncBookingCreated(roomType string) {
	bookingsCreated.WithLabelValues(roomType).Inc()
}

func IncUserRegistered() {
	usersRegistered.Inc()
}

func IncAuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}
