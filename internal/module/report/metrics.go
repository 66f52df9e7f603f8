package report

import (
	"github.com/reportd/reportd/internal/shared/events"
	"github.com/reportd/reportd/internal/shared/metrics"
)

// MetricsRecorder subscribes to janitor events and feeds the eviction
// counters. Render and fetch metrics are recorded inline by the service.
type MetricsRecorder struct {
	metrics *metrics.Metrics
}

// NewMetricsRecorder creates a metrics recorder.
func NewMetricsRecorder(m *metrics.Metrics) *MetricsRecorder {
	return &MetricsRecorder{metrics: m}
}

// Handles returns the event types this recorder consumes.
func (r *MetricsRecorder) Handles() []string {
	return []string{events.ReportsEvictedType}
}

// Handle processes a janitor eviction event.
func (r *MetricsRecorder) Handle(event events.Event) error {
	if ev, ok := event.(*events.ReportsEvictedEvent); ok {
		r.metrics.RecordEvictions(ev.Removed)
	}
	return nil
}
