// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RegistrationsCreated prometheus.Counter
	NotificationsSent    prometheus.Counter
	NotificationsFailed  prometheus.Counter
	NotificationsDropped prometheus.Counter
}

// New creates and registers all metrics against the given registerer. Tests
// pass a fresh prometheus.NewRegistry so parallel suites never collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RegistrationsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "summit_registrations_created_total",
			Help: "Total number of guest registrations persisted.",
		}),
		NotificationsSent: f.NewCounter(prometheus.CounterOpts{
			Name: "summit_notifications_sent_total",
			Help: "Total number of notification emails delivered to the relay.",
		}),
		NotificationsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "summit_notifications_failed_total",
			Help: "Total number of notification emails that failed to send.",
		}),
		NotificationsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "summit_notifications_dropped_total",
			Help: "Total number of notification jobs dropped because the queue was full.",
		}),
	}
}
