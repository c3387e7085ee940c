package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNotificationConsumerMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewNotificationConsumerMetrics(reg)

	m.IncProcessed("chat.message.sent", "created")
	m.IncProcessed("chat.message.sent", "created")
	m.IncProcessed("chat.message.sent", "duplicate")
	m.IncFailed("application.status.changed")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, family := range families {
		byName[family.GetName()] = family
	}

	processed := byName["notification_events_processed"]
	if processed == nil {
		t.Fatal("expected notification_events_processed family")
	}
	if got := len(processed.GetMetric()); got != 2 {
		t.Fatalf("expected 2 label combinations got %d", got)
	}

	failed := byName["notification_events_failed"]
	if failed == nil {
		t.Fatal("expected notification_events_failed family")
	}
	if got := failed.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 failed got %v", got)
	}
}

func TestNotificationConsumerMetricsNilSafe(t *testing.T) {
	var m *NotificationConsumerMetrics
	m.IncProcessed("type", "created")
	m.IncFailed("type")

	empty := NewNotificationConsumerMetrics(nil)
	empty.IncProcessed("type", "created")
}
