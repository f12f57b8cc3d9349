package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics exported by the backend.
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	BookingsCreated   *prometheus.CounterVec
	BookingsCancelled *prometheus.CounterVec
	Payments          *prometheus.CounterVec
	InventoryReleased *prometheus.CounterVec
	BookingsCompleted prometheus.Counter
	CacheLookups      *prometheus.CounterVec
}

// New registers the metrics on reg. Passing nil uses the default registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BookingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		}, []string{"booking_type"}),
		BookingsCancelled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "The total number of bookings cancelled, by cause",
		}, []string{"booking_type", "cause"}),
		Payments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "The total number of payment outcomes",
		}, []string{"status"}),
		InventoryReleased: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_released_units_total",
			Help:      "Rooms or seats returned to inventory",
		}, []string{"booking_type"}),
		BookingsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_completed_total",
			Help:      "Bookings moved to completed by the completion job",
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Search cache lookups by result",
		}, []string{"result"}),
	}
}

// NewNop registers on a throwaway registry; used by tests and when services
// are built without explicit metrics.
func NewNop() *Metrics {
	return New("test", prometheus.NewRegistry())
}
