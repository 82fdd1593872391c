package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total bookings created",
		},
	)

	paymentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_transitions_total",
			Help: "Applied payment status transitions by resulting status",
		},
		[]string{"status"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook deliveries by processing result",
		},
		[]string{"result"},
	)

	checkins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkins_total",
			Help: "Check-in attempts by result",
		},
		[]string{"result"},
	)

	fanoutFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanout_failures_total",
			Help: "Advisory fan-out failures by collaborator",
		},
		[]string{"collaborator"},
	)
)

func BookingCreated() { bookingsCreated.Inc() }

func PaymentTransition(status string) { paymentTransitions.WithLabelValues(status).Inc() }

// WebhookEvent records a processing outcome: applied, duplicate, ignored,
// rejected, or error.
func WebhookEvent(result string) { webhookEvents.WithLabelValues(result).Inc() }

// Checkin records an attempt outcome: ok, already, or ineligible.
func Checkin(result string) { checkins.WithLabelValues(result).Inc() }

// FanoutFailure records an advisory collaborator failure: notifier or mirror.
func FanoutFailure(collaborator string) { fanoutFailures.WithLabelValues(collaborator).Inc() }
