package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestOutboxPublisherMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxPublisherMetrics(reg)

	m.ObserveBatch("ok", 250*time.Millisecond)
	m.IncPublished("domain-events")
	m.IncPublished("domain-events")
	m.IncFailed("domain-events")
	m.IncDeadLettered("max_attempts")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, family := range families {
		byName[family.GetName()] = family
	}

	published := byName["outbox_events_published"]
	if published == nil {
		t.Fatal("expected outbox_events_published family")
	}
	if got := published.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 published got %v", got)
	}

	failed := byName["outbox_events_failed"]
	if failed == nil {
		t.Fatal("expected outbox_events_failed family")
	}
	if got := failed.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 failed got %v", got)
	}

	dead := byName["outbox_events_dead_lettered"]
	if dead == nil {
		t.Fatal("expected outbox_events_dead_lettered family")
	}
	if got := dead.GetMetric()[0].GetLabel()[0].GetValue(); got != "max_attempts" {
		t.Fatalf("expected reason label max_attempts got %s", got)
	}

	duration := byName["outbox_batch_duration_seconds"]
	if duration == nil {
		t.Fatal("expected outbox_batch_duration_seconds family")
	}
	if got := duration.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("expected 1 histogram sample got %d", got)
	}
}

func TestOutboxPublisherMetricsNilSafe(t *testing.T) {
	var m *OutboxPublisherMetrics
	m.ObserveBatch("ok", time.Second)
	m.IncPublished("topic")
	m.IncFailed("topic")
	m.IncDeadLettered("reason")

	empty := NewOutboxPublisherMetrics(nil)
	empty.IncPublished("topic")
}
