package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	StageDuration        *prometheus.HistogramVec
	StageFailures        *prometheus.CounterVec
	ReservationsBooked   prometheus.Counter
	EventsConsumed       prometheus.Counter
	NotificationsSent    prometheus.Counter
	HistoryCacheRequests *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_stage_duration_seconds",
			Help:      "Time spent in each booking workflow stage",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_stage_failures_total",
			Help:      "The total number of failed workflow stages",
		}, []string{"stage", "kind"}),
		ReservationsBooked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_booked_total",
			Help:      "The total number of confirmed reservations",
		}),
		EventsConsumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_consumed_total",
			Help:      "The total number of reservation events consumed",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of reservation notifications sent",
		}),
		HistoryCacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_cache_requests_total",
			Help:      "Reservation history cache lookups by result",
		}, []string{"result"}),
	}
}
