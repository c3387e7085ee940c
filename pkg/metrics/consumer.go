package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NotificationConsumerMetrics records domain event processing outcomes.
type NotificationConsumerMetrics struct {
	processed *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewNotificationConsumerMetrics registers the consumer metrics on the provided registerer.
func NewNotificationConsumerMetrics(reg prometheus.Registerer) *NotificationConsumerMetrics {
	if reg == nil {
		return &NotificationConsumerMetrics{}
	}
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_events_processed",
		Help: "Domain events handled by the notification consumer.",
	}, []string{"event_type", "result"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_events_failed",
		Help: "Domain events nacked by the notification consumer.",
	}, []string{"event_type"})
	reg.MustRegister(processed, failed)
	return &NotificationConsumerMetrics{
		processed: processed,
		failed:    failed,
	}
}

// IncProcessed increments the processed counter for the event type and outcome.
func (m *NotificationConsumerMetrics) IncProcessed(eventType, result string) {
	if m == nil || m.processed == nil {
		return
	}
	m.processed.WithLabelValues(normalizeLabel(eventType), normalizeLabel(result)).Inc()
}

// IncFailed increments the nack counter for the event type.
func (m *NotificationConsumerMetrics) IncFailed(eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}
