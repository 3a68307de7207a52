package metrics

import (
	"go-healthcare-booking/pkg/apperror"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcome labels
const (
	ResultSuccess    = "success"
	ResultConflict   = "conflict"
	ResultValidation = "validation"
	ResultNotFound   = "not_found"
	ResultError      = "error"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking metrics
	BookingOutcomes *prometheus.CounterVec
	SlotQueries     *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates all application metrics and registers them on reg
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "operations_total",
			Help:      "Total number of appointment write operations by outcome",
		}, []string{"operation", "result"}),
		SlotQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "slot_queries_total",
			Help:      "Total number of slot catalog queries",
		}, []string{"query"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
	}
}

// ObserveBooking counts one write operation; a nil receiver is a no-op
func (m *Metrics) ObserveBooking(operation string, err error) {
	if m == nil {
		return
	}
	m.BookingOutcomes.WithLabelValues(operation, Result(err)).Inc()
}

// ObserveSlotQuery counts one catalog read; a nil receiver is a no-op
func (m *Metrics) ObserveSlotQuery(query string) {
	if m == nil {
		return
	}
	m.SlotQueries.WithLabelValues(query).Inc()
}

// Result maps an operation error to its outcome label
func Result(err error) string {
	if err == nil {
		return ResultSuccess
	}
	switch apperror.KindOf(err) {
	case apperror.KindConflict:
		return ResultConflict
	case apperror.KindValidation:
		return ResultValidation
	case apperror.KindNotFound:
		return ResultNotFound
	default:
		return ResultError
	}
}
