package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trainerbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerbook_bookings_total",
			Help: "Total number of booking attempts",
		},
		[]string{"status"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trainerbook_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	SlotsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trainerbook_slots_generated_total",
			Help: "Total number of availability slots created by the generator",
		},
	)

	LessonPackagesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerbook_lesson_packages_created_total",
			Help: "Total number of lesson packages created",
		},
		[]string{"type"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerbook_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordSlotsGenerated(count int) {
	SlotsGeneratedTotal.Add(float64(count))
}

func RecordLessonPackage(packageType string) {
	LessonPackagesCreatedTotal.WithLabelValues(packageType).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
