package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	persistedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fittrack",
		Subsystem: "persistence",
		Name:      "last_record_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent record persisted to Postgres, by kind.",
	}, []string{"kind"})
	projectedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fittrack",
		Subsystem: "projection",
		Name:      "last_event_projected_timestamp_seconds",
		Help:      "Unix timestamp of the most recent event applied by the consumer, by event type.",
	}, []string{"event_type"})
)

func init() {
	prometheus.MustRegister(persistedGauge, projectedGauge)
}

// RecordPersisted updates the persistence watermark gauge for a record kind.
func RecordPersisted(kind string, ts time.Time) {
	if ts.IsZero() {
		return
	}
	persistedGauge.WithLabelValues(kind).Set(float64(ts.Unix()))
}

// RecordProjected updates the projection watermark gauge.
func RecordProjected(eventType string, ts time.Time) {
	if ts.IsZero() {
		return
	}
	projectedGauge.WithLabelValues(eventType).Set(float64(ts.Unix()))
}
